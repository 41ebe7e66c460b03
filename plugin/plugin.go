// Package plugin provides the hook system of a lendbook Book.
// Plugins implement any subset of the hook interfaces below; the Registry
// discovers which ones at registration time and calls them after the
// matching Book operation has completed.
package plugin

import (
	"context"

	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/transaction"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the Book starts. book is the *lendbook.Book.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, book any) error
}

// OnShutdown is called when the Book stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Obligation hooks
// ──────────────────────────────────────────────────

// OnObligationAdded is called after a new obligation is persisted. tx is
// the wallet transaction recorded for it.
type OnObligationAdded interface {
	Plugin
	OnObligationAdded(ctx context.Context, o *obligation.Obligation, tx *transaction.Transaction) error
}

// OnObligationUpdated is called after a partial update. fields names the
// fields the patch set.
type OnObligationUpdated interface {
	Plugin
	OnObligationUpdated(ctx context.Context, o *obligation.Obligation, fields []string) error
}

// OnObligationPaid is called after an obligation is settled. tx is the
// reversing wallet transaction.
type OnObligationPaid interface {
	Plugin
	OnObligationPaid(ctx context.Context, o *obligation.Obligation, tx *transaction.Transaction) error
}

// OnObligationUnpaid is called after an obligation is reopened.
type OnObligationUnpaid interface {
	Plugin
	OnObligationUnpaid(ctx context.Context, o *obligation.Obligation) error
}

// OnObligationDeleted is called after an obligation is removed.
type OnObligationDeleted interface {
	Plugin
	OnObligationDeleted(ctx context.Context, obligationID string) error
}

// ──────────────────────────────────────────────────
// Book hooks
// ──────────────────────────────────────────────────

// OnBookCleared is called after every obligation was wiped.
type OnBookCleared interface {
	Plugin
	OnBookCleared(ctx context.Context, removed int) error
}

// OnBookImported is called after the record set was replaced wholesale.
type OnBookImported interface {
	Plugin
	OnBookImported(ctx context.Context, count int) error
}

// OnTransactionRecorded is called whenever the recorder accepted a
// transaction on the Book's behalf.
type OnTransactionRecorded interface {
	Plugin
	OnTransactionRecorded(ctx context.Context, tx *transaction.Transaction) error
}

// StoreOp names the storage step that failed.
type StoreOp string

// Storage steps reported through OnStoreError.
const (
	StoreOpLoad   StoreOp = "load"
	StoreOpDecode StoreOp = "decode"
	StoreOpEncode StoreOp = "encode"
	StoreOpSave   StoreOp = "save"
)

// OnStoreError observes storage failures the Book recovered from. Reads
// degrade to an empty set and writes keep the in-memory state, so this hook
// is the only place those failures surface.
type OnStoreError interface {
	Plugin
	OnStoreError(ctx context.Context, op StoreOp, key string, err error) error
}
