// Package observability provides a metrics extension for lendbook that
// records Book event counts through a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/plugin"
	"github.com/xraph/lendbook/transaction"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                = (*MetricsExtension)(nil)
	_ plugin.OnInit                = (*MetricsExtension)(nil)
	_ plugin.OnObligationAdded     = (*MetricsExtension)(nil)
	_ plugin.OnObligationUpdated   = (*MetricsExtension)(nil)
	_ plugin.OnObligationPaid      = (*MetricsExtension)(nil)
	_ plugin.OnObligationUnpaid    = (*MetricsExtension)(nil)
	_ plugin.OnObligationDeleted   = (*MetricsExtension)(nil)
	_ plugin.OnBookCleared         = (*MetricsExtension)(nil)
	_ plugin.OnBookImported        = (*MetricsExtension)(nil)
	_ plugin.OnTransactionRecorded = (*MetricsExtension)(nil)
	_ plugin.OnStoreError          = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// Metric names.
const (
	MetricObligationAdded     = "lendbook.obligation.added"
	MetricObligationPaid      = "lendbook.obligation.paid"
	MetricObligationUnpaid    = "lendbook.obligation.unpaid"
	MetricObligationUpdated   = "lendbook.obligation.updated"
	MetricObligationDeleted   = "lendbook.obligation.deleted"
	MetricObligationAmount    = "lendbook.obligation.amount"
	MetricBookCleared         = "lendbook.book.cleared"
	MetricBookImported        = "lendbook.book.imported"
	MetricTransactionRecorded = "lendbook.transaction.recorded"
	MetricStoreErrors         = "lendbook.store.errors"
)

// MetricsExtension records Book event metrics.
// Register it as a Book plugin to track lending activity.
type MetricsExtension struct {
	factory MetricFactory

	// Obligation metrics
	ObligationAdded   Counter
	ObligationPaid    Counter
	ObligationUnpaid  Counter
	ObligationUpdated Counter
	ObligationDeleted Counter
	ObligationAmount  Histogram

	// Book metrics
	BookCleared  Counter
	BookImported Counter

	// Wallet metrics
	TransactionRecorded Counter

	// Error metrics
	StoreErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		ObligationAdded:   factory.Counter(MetricObligationAdded),
		ObligationPaid:    factory.Counter(MetricObligationPaid),
		ObligationUnpaid:  factory.Counter(MetricObligationUnpaid),
		ObligationUpdated: factory.Counter(MetricObligationUpdated),
		ObligationDeleted: factory.Counter(MetricObligationDeleted),
		ObligationAmount:  factory.Histogram(MetricObligationAmount),

		BookCleared:  factory.Counter(MetricBookCleared),
		BookImported: factory.Counter(MetricBookImported),

		TransactionRecorded: factory.Counter(MetricTransactionRecorded),

		StoreErrors: factory.Counter(MetricStoreErrors),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	return nil
}

// ──────────────────────────────────────────────────
// Obligation hooks
// ──────────────────────────────────────────────────

// OnObligationAdded implements plugin.OnObligationAdded.
func (m *MetricsExtension) OnObligationAdded(_ context.Context, o *obligation.Obligation, _ *transaction.Transaction) error {
	m.ObligationAdded.Inc()
	m.ObligationAmount.Observe(o.Amount.Float64())
	return nil
}

// OnObligationUpdated implements plugin.OnObligationUpdated.
func (m *MetricsExtension) OnObligationUpdated(_ context.Context, _ *obligation.Obligation, _ []string) error {
	m.ObligationUpdated.Inc()
	return nil
}

// OnObligationPaid implements plugin.OnObligationPaid.
func (m *MetricsExtension) OnObligationPaid(_ context.Context, _ *obligation.Obligation, _ *transaction.Transaction) error {
	m.ObligationPaid.Inc()
	return nil
}

// OnObligationUnpaid implements plugin.OnObligationUnpaid.
func (m *MetricsExtension) OnObligationUnpaid(_ context.Context, _ *obligation.Obligation) error {
	m.ObligationUnpaid.Inc()
	return nil
}

// OnObligationDeleted implements plugin.OnObligationDeleted.
func (m *MetricsExtension) OnObligationDeleted(_ context.Context, _ string) error {
	m.ObligationDeleted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Book hooks
// ──────────────────────────────────────────────────

// OnBookCleared implements plugin.OnBookCleared.
func (m *MetricsExtension) OnBookCleared(_ context.Context, _ int) error {
	m.BookCleared.Inc()
	return nil
}

// OnBookImported implements plugin.OnBookImported.
func (m *MetricsExtension) OnBookImported(_ context.Context, _ int) error {
	m.BookImported.Inc()
	return nil
}

// OnTransactionRecorded implements plugin.OnTransactionRecorded.
func (m *MetricsExtension) OnTransactionRecorded(_ context.Context, _ *transaction.Transaction) error {
	m.TransactionRecorded.Inc()
	return nil
}

// OnStoreError implements plugin.OnStoreError.
func (m *MetricsExtension) OnStoreError(_ context.Context, _ plugin.StoreOp, _ string, _ error) error {
	m.StoreErrors.Inc()
	return nil
}
