package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/transaction"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery so emitting only touches plugins that
// implement the hook.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit                []OnInit
	onShutdown            []OnShutdown
	onObligationAdded     []OnObligationAdded
	onObligationUpdated   []OnObligationUpdated
	onObligationPaid      []OnObligationPaid
	onObligationUnpaid    []OnObligationUnpaid
	onObligationDeleted   []OnObligationDeleted
	onBookCleared         []OnBookCleared
	onBookImported        []OnBookImported
	onTransactionRecorded []OnTransactionRecorded
	onStoreError          []OnStoreError
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout overrides DefaultTimeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	r.timeout = d
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnObligationAdded); ok {
		r.onObligationAdded = append(r.onObligationAdded, v)
	}
	if v, ok := p.(OnObligationUpdated); ok {
		r.onObligationUpdated = append(r.onObligationUpdated, v)
	}
	if v, ok := p.(OnObligationPaid); ok {
		r.onObligationPaid = append(r.onObligationPaid, v)
	}
	if v, ok := p.(OnObligationUnpaid); ok {
		r.onObligationUnpaid = append(r.onObligationUnpaid, v)
	}
	if v, ok := p.(OnObligationDeleted); ok {
		r.onObligationDeleted = append(r.onObligationDeleted, v)
	}
	if v, ok := p.(OnBookCleared); ok {
		r.onBookCleared = append(r.onBookCleared, v)
	}
	if v, ok := p.(OnBookImported); ok {
		r.onBookImported = append(r.onBookImported, v)
	}
	if v, ok := p.(OnTransactionRecorded); ok {
		r.onTransactionRecorded = append(r.onTransactionRecorded, v)
	}
	if v, ok := p.(OnStoreError); ok {
		r.onStoreError = append(r.onStoreError, v)
	}

	r.logger.Debug("plugin registered",
		"plugin", p.Name(),
		"hooks", Implements(p),
	)

	return nil
}

// Implements lists the hook interfaces p satisfies.
func Implements(p Plugin) []string {
	var hooks []string
	t := reflect.TypeOf(p)

	check := func(iface reflect.Type, name string) {
		if t.Implements(iface) {
			hooks = append(hooks, name)
		}
	}

	check(reflect.TypeFor[OnInit](), "OnInit")
	check(reflect.TypeFor[OnShutdown](), "OnShutdown")
	check(reflect.TypeFor[OnObligationAdded](), "OnObligationAdded")
	check(reflect.TypeFor[OnObligationUpdated](), "OnObligationUpdated")
	check(reflect.TypeFor[OnObligationPaid](), "OnObligationPaid")
	check(reflect.TypeFor[OnObligationUnpaid](), "OnObligationUnpaid")
	check(reflect.TypeFor[OnObligationDeleted](), "OnObligationDeleted")
	check(reflect.TypeFor[OnBookCleared](), "OnBookCleared")
	check(reflect.TypeFor[OnBookImported](), "OnBookImported")
	check(reflect.TypeFor[OnTransactionRecorded](), "OnTransactionRecorded")
	check(reflect.TypeFor[OnStoreError](), "OnStoreError")

	return hooks
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, book any) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnInit", func() error { return p.OnInit(ctx, book) })
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnShutdown", func() error { return p.OnShutdown(ctx) })
	}
}

// EmitObligationAdded calls OnObligationAdded for all plugins that implement it.
func (r *Registry) EmitObligationAdded(ctx context.Context, o *obligation.Obligation, tx *transaction.Transaction) {
	r.mu.RLock()
	plugins := r.onObligationAdded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnObligationAdded", func() error { return p.OnObligationAdded(ctx, o.Clone(), tx) })
	}
}

// EmitObligationUpdated calls OnObligationUpdated for all plugins that implement it.
func (r *Registry) EmitObligationUpdated(ctx context.Context, o *obligation.Obligation, fields []string) {
	r.mu.RLock()
	plugins := r.onObligationUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnObligationUpdated", func() error { return p.OnObligationUpdated(ctx, o.Clone(), fields) })
	}
}

// EmitObligationPaid calls OnObligationPaid for all plugins that implement it.
func (r *Registry) EmitObligationPaid(ctx context.Context, o *obligation.Obligation, tx *transaction.Transaction) {
	r.mu.RLock()
	plugins := r.onObligationPaid
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnObligationPaid", func() error { return p.OnObligationPaid(ctx, o.Clone(), tx) })
	}
}

// EmitObligationUnpaid calls OnObligationUnpaid for all plugins that implement it.
func (r *Registry) EmitObligationUnpaid(ctx context.Context, o *obligation.Obligation) {
	r.mu.RLock()
	plugins := r.onObligationUnpaid
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnObligationUnpaid", func() error { return p.OnObligationUnpaid(ctx, o.Clone()) })
	}
}

// EmitObligationDeleted calls OnObligationDeleted for all plugins that implement it.
func (r *Registry) EmitObligationDeleted(ctx context.Context, obligationID string) {
	r.mu.RLock()
	plugins := r.onObligationDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnObligationDeleted", func() error { return p.OnObligationDeleted(ctx, obligationID) })
	}
}

// EmitBookCleared calls OnBookCleared for all plugins that implement it.
func (r *Registry) EmitBookCleared(ctx context.Context, removed int) {
	r.mu.RLock()
	plugins := r.onBookCleared
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnBookCleared", func() error { return p.OnBookCleared(ctx, removed) })
	}
}

// EmitBookImported calls OnBookImported for all plugins that implement it.
func (r *Registry) EmitBookImported(ctx context.Context, count int) {
	r.mu.RLock()
	plugins := r.onBookImported
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnBookImported", func() error { return p.OnBookImported(ctx, count) })
	}
}

// EmitTransactionRecorded calls OnTransactionRecorded for all plugins that implement it.
func (r *Registry) EmitTransactionRecorded(ctx context.Context, tx *transaction.Transaction) {
	r.mu.RLock()
	plugins := r.onTransactionRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnTransactionRecorded", func() error { return p.OnTransactionRecorded(ctx, tx) })
	}
}

// EmitStoreError calls OnStoreError for all plugins that implement it.
func (r *Registry) EmitStoreError(ctx context.Context, op StoreOp, key string, storeErr error) {
	r.mu.RLock()
	plugins := r.onStoreError
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p, "OnStoreError", func() error { return p.OnStoreError(ctx, op, key, storeErr) })
	}
}

func (r *Registry) dispatch(ctx context.Context, p Plugin, hook string, fn func() error) {
	if err := r.callWithTimeout(ctx, p.Name(), fn); err != nil {
		r.logger.Warn("plugin "+hook+" failed",
			"plugin", p.Name(),
			"error", err,
		)
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins never block a Book operation for longer than r.timeout.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(r.timeout):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
