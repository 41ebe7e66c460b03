package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/lendbook/id"
	"github.com/xraph/lendbook/store/memory"
	"github.com/xraph/lendbook/transaction"
	"github.com/xraph/lendbook/transaction/journal"
	"github.com/xraph/lendbook/types"
)

var fixed = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newJournal(t *testing.T) (*journal.Journal, *memory.Store) {
	t.Helper()
	s := memory.New()
	return journal.New(s, journal.WithNow(func() time.Time { return fixed })), s
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	j, _ := newJournal(t)

	tx, err := j.CreateTransaction(ctx, transaction.Input{
		Amount:      types.Units(50),
		Description: "Lent to Alex: lunch",
		Type:        transaction.TypeExpense,
		WalletID:    "w1",
		Date:        transaction.FormatDate(fixed),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.ID.Prefix() != id.PrefixTransaction {
		t.Errorf("expected txn prefix, got %q", tx.ID.Prefix())
	}
	if !tx.RecordedAt.Equal(fixed) {
		t.Errorf("RecordedAt = %v", tx.RecordedAt)
	}

	if _, err := j.CreateTransaction(ctx, transaction.Input{
		Amount: types.Units(50), Type: transaction.TypeIncome, WalletID: "w2",
	}); err != nil {
		t.Fatalf("second CreateTransaction: %v", err)
	}

	all, err := j.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(all))
	}
	if all[0].ID.String() != tx.ID.String() || all[0].Description != "Lent to Alex: lunch" {
		t.Errorf("first entry not preserved: %+v", all[0])
	}

	w2, err := j.List(ctx, "w2")
	if err != nil || len(w2) != 1 {
		t.Fatalf("List(w2) = %d, %v", len(w2), err)
	}
}

func TestBalance(t *testing.T) {
	ctx := context.Background()
	j, _ := newJournal(t)

	for _, in := range []transaction.Input{
		{Amount: types.Units(100), Type: transaction.TypeIncome, WalletID: "w"},
		{Amount: types.Units(30), Type: transaction.TypeExpense, WalletID: "w"},
		{Amount: types.Units(999), Type: transaction.TypeIncome, WalletID: "other"},
	} {
		if _, err := j.CreateTransaction(ctx, in); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	b, err := j.Balance(ctx, "w")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if b.Net() != types.Units(70) || b.Count != 2 {
		t.Errorf("unexpected balance: %+v", b)
	}
}

func TestRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	j, s := newJournal(t)

	tests := []struct {
		name string
		in   transaction.Input
	}{
		{"unknown type", transaction.Input{Type: "REFUND", WalletID: "w"}},
		{"missing wallet", transaction.Input{Type: transaction.TypeIncome}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := j.CreateTransaction(ctx, tt.in); err == nil {
				t.Error("expected error")
			}
		})
	}
	if s.Sets() != 0 {
		t.Errorf("rejected input reached the store %d times", s.Sets())
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	ctx := context.Background()
	j, s := newJournal(t)
	boom := errors.New("offline")
	s.FailSets(boom)

	_, err := j.CreateTransaction(ctx, transaction.Input{Type: transaction.TypeIncome, WalletID: "w"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
