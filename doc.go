// Package lendbook keeps track of money borrowed from and lent to other
// people.
//
// Lendbook is a library, not a service. A Book holds the record set in
// memory, persists it as one blob through a pluggable Store, and reports
// every money movement to a wallet through a transaction.Recorder:
//
//   - Lending money is an EXPENSE; borrowing it is INCOME
//   - Recovering a loan is INCOME; repaying a debt is an EXPENSE
//   - The wallet transaction is always recorded before the record changes
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/lendbook"
//	    "github.com/xraph/lendbook/store/sqlite"
//	    "github.com/xraph/lendbook/transaction/journal"
//	)
//
//	st, err := sqlite.Open(ctx, "lendbook.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b := lendbook.New(st, journal.New(st))
//	if err := b.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Stop(ctx)
//
//	o, err := b.Add(ctx, lendbook.Draft{
//	    Type:         lendbook.Lent,
//	    PersonName:   "Alex",
//	    Amount:       lendbook.Units(50),
//	    Reason:       "Lunch",
//	    BorrowedDate: time.Now(),
//	    DueDate:      time.Now().AddDate(0, 1, 0),
//	    WalletID:     "w1",
//	}, nil)
//
//	_, err = b.MarkAsPaid(ctx, o.ID, "w1", nil)
//
// # Storage
//
// Reads reload the blob before answering. Writes change the in-memory set
// and save all of it. A storage failure is logged and passed to
// OnStoreError plugins; the operation itself carries on with whatever is in
// memory.
//
// # Identifiers
//
// New obligations get a TypeID with the "obl" prefix:
//
//	obl_01h2xcejqtf2nbrexx3vqjhp41
//
// Imported records keep the IDs they were exported with.
package lendbook
