package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/lendbook/transaction"
	"github.com/xraph/lendbook/types"
)

func TestFormatDate(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	got := transaction.FormatDate(time.Date(2025, 3, 1, 15, 4, 5, 6_000_000, loc))
	if want := "2025-03-01T12:04:05.006Z"; got != want {
		t.Errorf("FormatDate = %q, want %q", got, want)
	}
}

func TestRecorderFunc(t *testing.T) {
	var seen transaction.Input
	rec := transaction.RecorderFunc(func(_ context.Context, in transaction.Input) (*transaction.Transaction, error) {
		seen = in
		return &transaction.Transaction{Input: in}, nil
	})

	in := transaction.Input{Amount: types.Units(5), Type: transaction.TypeIncome, WalletID: "w"}
	tx, err := rec.CreateTransaction(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if seen != in || tx.Amount != in.Amount {
		t.Errorf("adapter did not forward input: %+v", seen)
	}
}

func TestSummarize(t *testing.T) {
	list := []*transaction.Transaction{
		{Input: transaction.Input{Amount: types.Units(50), Type: transaction.TypeIncome}},
		{Input: transaction.Input{Amount: types.Units(20), Type: transaction.TypeExpense}},
		{Input: transaction.Input{Amount: types.Cents(250), Type: transaction.TypeIncome}},
	}

	b := transaction.Summarize(list)
	if b.Income != types.Cents(5250) || b.Expense != types.Units(20) || b.Count != 3 {
		t.Errorf("unexpected balance: %+v", b)
	}
	if b.Net() != types.Cents(3250) {
		t.Errorf("Net = %v, want 32.50", b.Net())
	}
}
