// Package transaction describes the wallet-transaction collaborator a Book
// reports money movements to. The Book only writes transactions; it never
// reads them back.
package transaction

import (
	"context"
	"time"

	"github.com/xraph/lendbook/id"
	"github.com/xraph/lendbook/types"
)

// Type is the direction of a wallet movement.
type Type string

const (
	// TypeIncome adds money to the wallet.
	TypeIncome Type = "INCOME"
	// TypeExpense takes money out of the wallet.
	TypeExpense Type = "EXPENSE"
)

// DateLayout is the millisecond ISO-8601 layout used for Input.Date.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate renders t in UTC using DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Input is the field set sent to a Recorder.
type Input struct {
	Amount      types.Amount `json:"amount"`
	Description string       `json:"description"`
	Type        Type         `json:"type"`
	WalletID    string       `json:"walletId"`
	Date        string       `json:"date"`
	Notes       string       `json:"notes"`
}

// Transaction is a recorded Input.
type Transaction struct {
	ID id.ID `json:"id"`
	Input
	RecordedAt time.Time `json:"recordedAt"`
}

// Recorder records money movements against a wallet.
type Recorder interface {
	CreateTransaction(ctx context.Context, in Input) (*Transaction, error)
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, in Input) (*Transaction, error)

// CreateTransaction implements Recorder.
func (f RecorderFunc) CreateTransaction(ctx context.Context, in Input) (*Transaction, error) {
	return f(ctx, in)
}
