// Package journal provides a Recorder that appends transactions to a JSON
// array kept in a blob store. It is the transaction ledger used by the CLI
// and the HTTP server when no external wallet service is wired in.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xraph/lendbook"
	"github.com/xraph/lendbook/id"
	"github.com/xraph/lendbook/store"
	"github.com/xraph/lendbook/transaction"
)

// DefaultKey is the blob key journal entries are stored under.
const DefaultKey = "wallet_transactions"

// compile-time interface check
var _ transaction.Recorder = (*Journal)(nil)

// Journal records transactions into a store.Store.
type Journal struct {
	mu    sync.Mutex
	store store.Store
	key   string
	now   func() time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(j *Journal) { j.key = key }
}

// WithNow overrides the clock used for RecordedAt.
func WithNow(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// New creates a Journal over s.
func New(s store.Store, opts ...Option) *Journal {
	j := &Journal{
		store: s,
		key:   DefaultKey,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// CreateTransaction validates in, assigns an ID and appends it.
func (j *Journal) CreateTransaction(ctx context.Context, in transaction.Input) (*transaction.Transaction, error) {
	if in.Type != transaction.TypeIncome && in.Type != transaction.TypeExpense {
		return nil, fmt.Errorf("journal: unknown transaction type %q", in.Type)
	}
	if in.WalletID == "" {
		return nil, errors.New("journal: wallet id is required")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	list, err := j.load(ctx)
	if err != nil {
		return nil, err
	}

	tx := &transaction.Transaction{
		ID:         id.NewTransactionID(),
		Input:      in,
		RecordedAt: j.now().UTC(),
	}
	list = append(list, tx)

	blob, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("journal: encode: %w", err)
	}
	if err := j.store.Set(ctx, j.key, blob); err != nil {
		return nil, fmt.Errorf("journal: save: %w", err)
	}
	return tx, nil
}

// List returns every recorded transaction, oldest first. An optional
// wallet filter narrows the result to one wallet.
func (j *Journal) List(ctx context.Context, walletID string) ([]*transaction.Transaction, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	list, err := j.load(ctx)
	if err != nil {
		return nil, err
	}
	if walletID == "" {
		return list, nil
	}

	out := make([]*transaction.Transaction, 0, len(list))
	for _, tx := range list {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Balance sums a wallet's journal: income minus expenses.
func (j *Journal) Balance(ctx context.Context, walletID string) (transaction.Balance, error) {
	list, err := j.List(ctx, walletID)
	if err != nil {
		return transaction.Balance{}, err
	}
	return transaction.Summarize(list), nil
}

func (j *Journal) load(ctx context.Context) ([]*transaction.Transaction, error) {
	blob, err := j.store.Get(ctx, j.key)
	if errors.Is(err, lendbook.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: load: %w", err)
	}

	var list []*transaction.Transaction
	if err := json.Unmarshal(blob, &list); err != nil {
		return nil, fmt.Errorf("journal: decode: %w", err)
	}
	return list, nil
}
