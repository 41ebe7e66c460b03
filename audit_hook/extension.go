// Package audithook turns Book events into audit trail entries.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit backend. Callers inject a RecorderFunc adapter at
// wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/plugin"
	"github.com/xraph/lendbook/transaction"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                = (*Extension)(nil)
	_ plugin.OnObligationAdded     = (*Extension)(nil)
	_ plugin.OnObligationUpdated   = (*Extension)(nil)
	_ plugin.OnObligationPaid      = (*Extension)(nil)
	_ plugin.OnObligationUnpaid    = (*Extension)(nil)
	_ plugin.OnObligationDeleted   = (*Extension)(nil)
	_ plugin.OnBookCleared         = (*Extension)(nil)
	_ plugin.OnBookImported        = (*Extension)(nil)
	_ plugin.OnTransactionRecorded = (*Extension)(nil)
	_ plugin.OnStoreError          = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is one audit trail entry.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension records Book events through a Recorder.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Obligation hooks
// ──────────────────────────────────────────────────

// OnObligationAdded implements plugin.OnObligationAdded.
func (e *Extension) OnObligationAdded(ctx context.Context, o *obligation.Obligation, tx *transaction.Transaction) error {
	return e.record(ctx, ActionObligationAdded, SeverityInfo, OutcomeSuccess,
		ResourceObligation, o.ID, CategoryLending, nil,
		"type", string(o.Type),
		"person", o.PersonName,
		"amount", o.Amount.Decimal(),
		"wallet_id", o.WalletID,
		"transaction_id", txID(tx),
	)
}

// OnObligationUpdated implements plugin.OnObligationUpdated.
func (e *Extension) OnObligationUpdated(ctx context.Context, o *obligation.Obligation, fields []string) error {
	return e.record(ctx, ActionObligationUpdated, SeverityInfo, OutcomeSuccess,
		ResourceObligation, o.ID, CategoryLending, nil,
		"fields", fields,
	)
}

// OnObligationPaid implements plugin.OnObligationPaid.
func (e *Extension) OnObligationPaid(ctx context.Context, o *obligation.Obligation, tx *transaction.Transaction) error {
	return e.record(ctx, ActionObligationPaid, SeverityInfo, OutcomeSuccess,
		ResourceObligation, o.ID, CategoryLending, nil,
		"type", string(o.Type),
		"amount", o.Amount.Decimal(),
		"transaction_id", txID(tx),
	)
}

// OnObligationUnpaid implements plugin.OnObligationUnpaid.
func (e *Extension) OnObligationUnpaid(ctx context.Context, o *obligation.Obligation) error {
	return e.record(ctx, ActionObligationUnpaid, SeverityWarning, OutcomeSuccess,
		ResourceObligation, o.ID, CategoryLending, nil,
		"amount", o.Amount.Decimal(),
	)
}

// OnObligationDeleted implements plugin.OnObligationDeleted.
func (e *Extension) OnObligationDeleted(ctx context.Context, obligationID string) error {
	return e.record(ctx, ActionObligationDeleted, SeverityWarning, OutcomeSuccess,
		ResourceObligation, obligationID, CategoryLending, nil,
	)
}

// ──────────────────────────────────────────────────
// Book hooks
// ──────────────────────────────────────────────────

// OnBookCleared implements plugin.OnBookCleared.
func (e *Extension) OnBookCleared(ctx context.Context, removed int) error {
	return e.record(ctx, ActionBookCleared, SeverityCritical, OutcomeSuccess,
		ResourceBook, "", CategoryData, nil,
		"removed", removed,
	)
}

// OnBookImported implements plugin.OnBookImported.
func (e *Extension) OnBookImported(ctx context.Context, count int) error {
	return e.record(ctx, ActionBookImported, SeverityWarning, OutcomeSuccess,
		ResourceBook, "", CategoryData, nil,
		"count", count,
	)
}

// OnTransactionRecorded implements plugin.OnTransactionRecorded.
func (e *Extension) OnTransactionRecorded(ctx context.Context, tx *transaction.Transaction) error {
	return e.record(ctx, ActionTransactionRecorded, SeverityInfo, OutcomeSuccess,
		ResourceTransaction, txID(tx), CategoryWallet, nil,
		"type", string(tx.Type),
		"amount", tx.Amount.Decimal(),
		"wallet_id", tx.WalletID,
	)
}

// OnStoreError implements plugin.OnStoreError.
func (e *Extension) OnStoreError(ctx context.Context, op plugin.StoreOp, key string, storeErr error) error {
	return e.record(ctx, ActionStoreFailed, SeverityError, OutcomeFailure,
		ResourceStore, key, CategoryStorage, storeErr,
		"op", string(op),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

func txID(tx *transaction.Transaction) string {
	if tx == nil {
		return ""
	}
	return tx.ID.String()
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
