package lendbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/juju/clock"

	"github.com/xraph/lendbook/i18n"
	"github.com/xraph/lendbook/id"
	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/plugin"
	"github.com/xraph/lendbook/store"
	"github.com/xraph/lendbook/transaction"
	"github.com/xraph/lendbook/types"
)

// DefaultStorageKey is the blob key the record set is persisted under.
const DefaultStorageKey = "borrowed_money"

// Book is the borrowed/lent money ledger.
//
// It owns an in-memory copy of every obligation. Read operations reload the
// copy from the store first; write operations change the copy and then save
// all of it back. Storage failures never reach the caller: they are logged
// and emitted to OnStoreError plugins.
type Book struct {
	store      store.Store
	recorder   transaction.Recorder
	plugins    *plugin.Registry
	logger     *slog.Logger
	clock      clock.Clock
	translator i18n.Translator
	key        string
	newID      func() string

	// mu guards records and loaded. It is never held across store or
	// recorder calls.
	mu      sync.Mutex
	records []*obligation.Obligation
	loaded  bool
}

// New creates a Book over s that reports wallet movements to rec.
func New(s store.Store, rec transaction.Recorder, opts ...Option) *Book {
	b := &Book{
		store:      s,
		recorder:   rec,
		plugins:    plugin.NewRegistry(),
		logger:     slog.Default(),
		clock:      clock.WallClock,
		translator: i18n.Fallback{},
		key:        DefaultStorageKey,
		newID:      id.NewObligationID,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Option configures a Book instance.
type Option func(*Book)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Book) {
		b.logger = logger
		b.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(b *Book) {
		_ = b.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithTranslator sets the Book-wide translator used when a call passes nil.
func WithTranslator(tr i18n.Translator) Option {
	return func(b *Book) {
		if tr != nil {
			b.translator = tr
		}
	}
}

// WithClock sets the clock used for overdue checks and transaction dates.
func WithClock(c clock.Clock) Option {
	return func(b *Book) { b.clock = c }
}

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(b *Book) { b.key = key }
}

// WithIDGenerator overrides how new obligation IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(b *Book) { b.newID = fn }
}

// Plugins returns the plugin registry.
func (b *Book) Plugins() *plugin.Registry { return b.plugins }

// StorageKey returns the blob key in use.
func (b *Book) StorageKey() string { return b.key }

// Start migrates the store, loads the record set and initializes plugins.
func (b *Book) Start(ctx context.Context) error {
	if b.store == nil {
		return ErrNoStore
	}
	if err := b.store.Migrate(ctx); err != nil {
		return err
	}

	b.refresh(ctx)
	b.plugins.EmitInit(ctx, b)

	b.mu.Lock()
	n := len(b.records)
	b.mu.Unlock()

	b.logger.Info("lendbook started",
		"key", b.key,
		"records", n,
		"plugins", b.plugins.Count(),
	)
	return nil
}

// Stop shuts down plugins and closes the store.
func (b *Book) Stop(ctx context.Context) error {
	b.plugins.EmitShutdown(ctx)
	if b.store == nil {
		return nil
	}
	return b.store.Close()
}

// Ping checks that the store is reachable.
func (b *Book) Ping(ctx context.Context) error {
	if b.store == nil {
		return ErrNoStore
	}
	return b.store.Ping(ctx)
}

// ──────────────────────────────────────────────────
// Persistence
// ──────────────────────────────────────────────────

// refresh replaces the in-memory set with the stored one. Missing,
// unreadable or malformed blobs leave an empty set; unreadable records
// inside a valid blob are skipped.
func (b *Book) refresh(ctx context.Context) {
	list := b.load(ctx)

	b.mu.Lock()
	b.records = list
	b.loaded = true
	b.mu.Unlock()
}

// ensureLoaded refreshes once if nothing was loaded yet, so the first
// write of a process never overwrites records it has not seen.
func (b *Book) ensureLoaded(ctx context.Context) {
	b.mu.Lock()
	loaded := b.loaded
	b.mu.Unlock()

	if !loaded {
		b.refresh(ctx)
	}
}

func (b *Book) load(ctx context.Context) []*obligation.Obligation {
	if b.store == nil {
		b.storeFailed(ctx, plugin.StoreOpLoad, ErrNoStore)
		return nil
	}

	blob, err := b.store.Get(ctx, b.key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		b.storeFailed(ctx, plugin.StoreOpLoad, err)
		return nil
	}
	if len(blob) == 0 {
		return nil
	}

	// Readable records survive a decode error.
	list, err := obligation.Decode(blob)
	if err != nil {
		b.storeFailed(ctx, plugin.StoreOpDecode, err)
	}
	return list
}

// flush writes the whole in-memory set back to the store.
func (b *Book) flush(ctx context.Context) {
	b.mu.Lock()
	blob, err := obligation.Encode(b.records)
	b.mu.Unlock()

	if err != nil {
		b.storeFailed(ctx, plugin.StoreOpEncode, err)
		return
	}
	if b.store == nil {
		b.storeFailed(ctx, plugin.StoreOpSave, ErrNoStore)
		return
	}
	if err := b.store.Set(ctx, b.key, blob); err != nil {
		b.storeFailed(ctx, plugin.StoreOpSave, err)
	}
}

func (b *Book) storeFailed(ctx context.Context, op plugin.StoreOp, err error) {
	b.logger.Error("lendbook: store "+string(op)+" failed",
		"key", b.key,
		"error", err,
	)
	b.plugins.EmitStoreError(ctx, op, b.key, err)
}

// snapshot refreshes and returns clones of every record in stored order.
func (b *Book) snapshot(ctx context.Context) []*obligation.Obligation {
	b.refresh(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	return obligation.CloneAll(b.records)
}

// indexOf returns the position of id in b.records or -1. Callers hold b.mu.
func (b *Book) indexOf(obligationID string) int {
	return slices.IndexFunc(b.records, func(o *obligation.Obligation) bool {
		return o.ID == obligationID
	})
}

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// List returns every obligation, newest borrowedDate first.
func (b *Book) List(ctx context.Context) []*obligation.Obligation {
	list := b.snapshot(ctx)
	obligation.SortByBorrowedDesc(list)
	return list
}

// ListUnpaid returns open obligations, earliest dueDate first.
func (b *Book) ListUnpaid(ctx context.Context) []*obligation.Obligation {
	list := obligation.Filter(b.snapshot(ctx), obligation.Unpaid)
	obligation.SortByDueAsc(list)
	return list
}

// ListPaid returns settled obligations, newest borrowedDate first.
func (b *Book) ListPaid(ctx context.Context) []*obligation.Obligation {
	list := obligation.Filter(b.snapshot(ctx), obligation.Paid)
	obligation.SortByBorrowedDesc(list)
	return list
}

// ListOverdue returns unpaid obligations due strictly before now, earliest
// dueDate first.
func (b *Book) ListOverdue(ctx context.Context) []*obligation.Obligation {
	list := obligation.Filter(b.snapshot(ctx), obligation.OverdueAt(b.clock.Now()))
	obligation.SortByDueAsc(list)
	return list
}

// Get returns the obligation with the given ID.
func (b *Book) Get(ctx context.Context, obligationID string) (*obligation.Obligation, bool) {
	b.refresh(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(obligationID)
	if i < 0 {
		return nil, false
	}
	return b.records[i].Clone(), true
}

// FindByPerson returns obligations whose counterparty name contains part,
// ignoring case, newest borrowedDate first.
func (b *Book) FindByPerson(ctx context.Context, part string) []*obligation.Obligation {
	list := obligation.Filter(b.snapshot(ctx), obligation.PersonContains(part))
	obligation.SortByBorrowedDesc(list)
	return list
}

// Search matches query against the counterparty name, the reason and the
// notes, ignoring case, newest borrowedDate first.
func (b *Book) Search(ctx context.Context, query string) []*obligation.Obligation {
	list := obligation.Filter(b.snapshot(ctx), obligation.Matches(query))
	obligation.SortByBorrowedDesc(list)
	return list
}

// Statistics aggregates the current record set.
func (b *Book) Statistics(ctx context.Context) obligation.Statistics {
	return obligation.Compute(b.snapshot(ctx), b.clock.Now())
}

// TotalBorrowed sums every borrowed obligation.
func (b *Book) TotalBorrowed(ctx context.Context) types.Amount {
	return obligation.SumWhere(b.snapshot(ctx), obligation.OfType(obligation.TypeBorrowed))
}

// TotalLent sums every lent obligation.
func (b *Book) TotalLent(ctx context.Context) types.Amount {
	return obligation.SumWhere(b.snapshot(ctx), obligation.OfType(obligation.TypeLent))
}

// TotalPaidBorrowed sums borrowed obligations that were repaid.
func (b *Book) TotalPaidBorrowed(ctx context.Context) types.Amount {
	return obligation.SumWhere(b.snapshot(ctx),
		obligation.All(obligation.OfType(obligation.TypeBorrowed), obligation.Paid))
}

// TotalPaidLent sums lent obligations that were recovered.
func (b *Book) TotalPaidLent(ctx context.Context) types.Amount {
	return obligation.SumWhere(b.snapshot(ctx),
		obligation.All(obligation.OfType(obligation.TypeLent), obligation.Paid))
}

// Export returns a copy of the full record set in stored order.
func (b *Book) Export(ctx context.Context) []*obligation.Obligation {
	return b.snapshot(ctx)
}

// ──────────────────────────────────────────────────
// Mutations
// ──────────────────────────────────────────────────

// Add records a new obligation. The wallet transaction is created first:
// lending is an EXPENSE and borrowing is INCOME on the draft's wallet. If
// the recorder fails, its error is returned unchanged and nothing is added.
// A nil tr uses the Book's translator.
func (b *Book) Add(ctx context.Context, d obligation.Draft, tr i18n.Translator) (*obligation.Obligation, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}
	if b.recorder == nil {
		return nil, ErrNoRecorder
	}
	b.ensureLoaded(ctx)

	o := d.Build(b.newID())

	key, txType := i18n.KeyBorrowedTransaction, transaction.TypeIncome
	if o.Type == obligation.TypeLent {
		key, txType = i18n.KeyLentTransaction, transaction.TypeExpense
	}

	tx, err := b.recorder.CreateTransaction(ctx, transaction.Input{
		Amount:      o.Amount,
		Description: b.translate(tr, key, o),
		Type:        txType,
		WalletID:    o.WalletID,
		Date:        transaction.FormatDate(b.clock.Now()),
		Notes:       o.Notes,
	})
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.records = append(b.records, o)
	out := o.Clone()
	b.mu.Unlock()

	b.flush(ctx)

	b.logger.Debug("obligation added",
		"obligation_id", out.ID,
		"type", out.Type,
		"amount", out.Amount.String(),
	)
	b.plugins.EmitTransactionRecorded(ctx, tx)
	b.plugins.EmitObligationAdded(ctx, out, tx)

	return out, nil
}

// Update merges p into the in-memory obligation without reloading. An
// unknown ID returns false and writes nothing. A patch that would break the
// type or amount rules returns a *ValidationError and writes nothing.
func (b *Book) Update(ctx context.Context, obligationID string, p obligation.Patch) (*obligation.Obligation, bool, error) {
	if err := validatePatch(p); err != nil {
		return nil, false, err
	}

	b.ensureLoaded(ctx)

	b.mu.Lock()
	i := b.indexOf(obligationID)
	if i < 0 {
		b.mu.Unlock()
		return nil, false, nil
	}
	p.Apply(b.records[i])
	out := b.records[i].Clone()
	b.mu.Unlock()

	b.flush(ctx)
	b.plugins.EmitObligationUpdated(ctx, out, p.Fields())

	return out, true, nil
}

// MarkAsPaid settles an obligation. It reloads, rejects unknown or already
// settled obligations, records the reversing transaction against walletID
// (lent becomes INCOME, borrowed becomes EXPENSE) and only then flags the
// record paid. An empty walletID uses the obligation's own wallet.
func (b *Book) MarkAsPaid(ctx context.Context, obligationID, walletID string, tr i18n.Translator) (*obligation.Obligation, error) {
	if b.recorder == nil {
		return nil, ErrNoRecorder
	}

	o, ok := b.Get(ctx, obligationID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, obligationID)
	}
	if o.IsPaid {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPaid, obligationID)
	}
	if walletID == "" {
		walletID = o.WalletID
	}

	key, txType := i18n.KeyBorrowedRepaid, transaction.TypeExpense
	if o.Type == obligation.TypeLent {
		key, txType = i18n.KeyLentRecovered, transaction.TypeIncome
	}

	tx, err := b.recorder.CreateTransaction(ctx, transaction.Input{
		Amount:      o.Amount,
		Description: b.translate(tr, key, o),
		Type:        txType,
		WalletID:    walletID,
		Date:        transaction.FormatDate(b.clock.Now()),
		Notes:       o.Notes,
	})
	if err != nil {
		return nil, err
	}
	b.plugins.EmitTransactionRecorded(ctx, tx)

	updated, ok, err := b.Update(ctx, obligationID, obligation.SetPaid(true))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, obligationID)
	}
	b.plugins.EmitObligationPaid(ctx, updated, tx)

	return updated, nil
}

// MarkAsUnpaid reopens an obligation. No transaction is recorded.
func (b *Book) MarkAsUnpaid(ctx context.Context, obligationID string) (*obligation.Obligation, bool) {
	updated, ok, _ := b.Update(ctx, obligationID, obligation.SetPaid(false))
	if ok {
		b.plugins.EmitObligationUnpaid(ctx, updated)
	}
	return updated, ok
}

// Delete removes an obligation and reports whether it existed. The set is
// written back either way.
func (b *Book) Delete(ctx context.Context, obligationID string) bool {
	b.ensureLoaded(ctx)

	b.mu.Lock()
	i := b.indexOf(obligationID)
	if i >= 0 {
		b.records = slices.Delete(b.records, i, i+1)
	}
	b.mu.Unlock()

	b.flush(ctx)
	if i < 0 {
		return false
	}

	b.plugins.EmitObligationDeleted(ctx, obligationID)
	return true
}

// Clear removes every obligation.
func (b *Book) Clear(ctx context.Context) {
	b.mu.Lock()
	removed := len(b.records)
	b.records = []*obligation.Obligation{}
	b.loaded = true
	b.mu.Unlock()

	b.flush(ctx)
	b.plugins.EmitBookCleared(ctx, removed)
}

// Import replaces the record set with list. Records are trusted as given;
// only nil entries are dropped.
func (b *Book) Import(ctx context.Context, list []*obligation.Obligation) {
	records := make([]*obligation.Obligation, 0, len(list))
	for _, o := range list {
		if o != nil {
			records = append(records, o.Clone())
		}
	}

	b.mu.Lock()
	b.records = records
	b.loaded = true
	b.mu.Unlock()

	b.flush(ctx)
	b.plugins.EmitBookImported(ctx, len(records))
}

func (b *Book) translate(tr i18n.Translator, key string, o *obligation.Obligation) string {
	if tr == nil {
		tr = b.translator
	}
	return tr.Translate(key, i18n.Params(o.PersonName, o.Reason))
}

func validateDraft(d obligation.Draft) error {
	return validateFields(d.Type, d.Amount)
}

// validatePatch applies the draft rules to the fields p sets.
func validatePatch(p obligation.Patch) error {
	t, amount := obligation.TypeBorrowed, types.Amount(0)
	if p.Type != nil {
		t = *p.Type
	}
	if p.Amount != nil {
		amount = *p.Amount
	}
	return validateFields(t, amount)
}

func validateFields(t obligation.Type, amount types.Amount) error {
	if !t.IsValid() {
		return &ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("must be %q or %q, got %q", obligation.TypeBorrowed, obligation.TypeLent, t),
		}
	}
	if amount.IsNegative() {
		return &ValidationError{Field: "amount", Message: "must not be negative"}
	}
	return nil
}
