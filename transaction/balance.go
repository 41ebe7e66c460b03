package transaction

import "github.com/xraph/lendbook/types"

// Balance totals a list of transactions.
type Balance struct {
	Income  types.Amount `json:"income"`
	Expense types.Amount `json:"expense"`
	Count   int          `json:"count"`
}

// Net is income minus expense.
func (b Balance) Net() types.Amount { return b.Income.Sub(b.Expense) }

// Summarize totals list by direction.
func Summarize(list []*Transaction) Balance {
	b := Balance{Count: len(list)}
	for _, tx := range list {
		switch tx.Type {
		case TypeIncome:
			b.Income += tx.Amount
		case TypeExpense:
			b.Expense += tx.Amount
		}
	}
	return b
}
