package obligation

import (
	"slices"
	"strings"
	"time"
)

// Predicate selects obligations.
type Predicate func(*Obligation) bool

// Filter returns the obligations for which keep is true, preserving order.
func Filter(list []*Obligation, keep Predicate) []*Obligation {
	out := make([]*Obligation, 0, len(list))
	for _, o := range list {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// CloneAll deep-copies every obligation in list.
func CloneAll(list []*Obligation) []*Obligation {
	out := make([]*Obligation, len(list))
	for i, o := range list {
		out[i] = o.Clone()
	}
	return out
}

// Paid selects settled obligations.
func Paid(o *Obligation) bool { return o.IsPaid }

// Unpaid selects open obligations.
func Unpaid(o *Obligation) bool { return !o.IsPaid }

// OverdueAt selects unpaid obligations due strictly before now.
func OverdueAt(now time.Time) Predicate {
	return func(o *Obligation) bool { return o.IsOverdue(now) }
}

// OfType selects obligations of direction t.
func OfType(t Type) Predicate {
	return func(o *Obligation) bool { return o.Type == t }
}

// All combines predicates with logical AND.
func All(preds ...Predicate) Predicate {
	return func(o *Obligation) bool {
		for _, p := range preds {
			if !p(o) {
				return false
			}
		}
		return true
	}
}

// PersonContains matches a case-insensitive substring of the counterparty name.
func PersonContains(part string) Predicate {
	needle := strings.ToLower(part)
	return func(o *Obligation) bool {
		return strings.Contains(strings.ToLower(o.PersonName), needle)
	}
}

// Matches is a case-insensitive substring search over the counterparty
// name, the reason and the notes.
func Matches(query string) Predicate {
	needle := strings.ToLower(query)
	return func(o *Obligation) bool {
		return strings.Contains(strings.ToLower(o.PersonName), needle) ||
			strings.Contains(strings.ToLower(o.Reason), needle) ||
			(o.Notes != "" && strings.Contains(strings.ToLower(o.Notes), needle))
	}
}

// SortByBorrowedDesc orders newest borrowedDate first. Ties keep input order.
func SortByBorrowedDesc(list []*Obligation) {
	slices.SortStableFunc(list, func(a, b *Obligation) int {
		return b.BorrowedDate.Compare(a.BorrowedDate)
	})
}

// SortByDueAsc orders the earliest dueDate first. Ties keep input order.
func SortByDueAsc(list []*Obligation) {
	slices.SortStableFunc(list, func(a, b *Obligation) int {
		return a.DueDate.Compare(b.DueDate)
	})
}
