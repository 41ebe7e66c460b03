package obligation

import (
	"time"

	"github.com/xraph/lendbook/types"
)

// Statistics aggregates a record set by direction and payment state.
type Statistics struct {
	TotalBorrowed   types.Amount `json:"totalBorrowed"`
	TotalLent       types.Amount `json:"totalLent"`
	PaidBorrowed    types.Amount `json:"paidBorrowed"`
	PaidLent        types.Amount `json:"paidLent"`
	UnpaidBorrowed  types.Amount `json:"unpaidBorrowed"`
	UnpaidLent      types.Amount `json:"unpaidLent"`
	OverdueBorrowed types.Amount `json:"overdueBorrowed"`
	OverdueLent     types.Amount `json:"overdueLent"`
	Count           int          `json:"count"`
}

// Net is what the owner is owed minus what the owner owes, over unpaid
// obligations only.
func (s Statistics) Net() types.Amount {
	return s.UnpaidLent.Sub(s.UnpaidBorrowed)
}

// Compute builds Statistics for list. Overdue sums use now. Sums saturate
// at types.MaxAmount instead of wrapping.
func Compute(list []*Obligation, now time.Time) Statistics {
	s := Statistics{Count: len(list)}
	for _, o := range list {
		lent := o.Type == TypeLent
		overdue := o.IsOverdue(now)

		if lent {
			s.TotalLent = s.TotalLent.Add(o.Amount)
		} else {
			s.TotalBorrowed = s.TotalBorrowed.Add(o.Amount)
		}

		switch {
		case o.IsPaid && lent:
			s.PaidLent = s.PaidLent.Add(o.Amount)
		case o.IsPaid:
			s.PaidBorrowed = s.PaidBorrowed.Add(o.Amount)
		case lent:
			s.UnpaidLent = s.UnpaidLent.Add(o.Amount)
		default:
			s.UnpaidBorrowed = s.UnpaidBorrowed.Add(o.Amount)
		}

		if overdue && lent {
			s.OverdueLent = s.OverdueLent.Add(o.Amount)
		} else if overdue {
			s.OverdueBorrowed = s.OverdueBorrowed.Add(o.Amount)
		}
	}
	return s
}

// SumWhere adds the amounts of the obligations selected by keep.
func SumWhere(list []*Obligation, keep Predicate) types.Amount {
	var total types.Amount
	for _, o := range list {
		if keep(o) {
			total = total.Add(o.Amount)
		}
	}
	return total
}
