package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/xraph/lendbook"
	audithook "github.com/xraph/lendbook/audit_hook"
	"github.com/xraph/lendbook/i18n"
	"github.com/xraph/lendbook/store"
	"github.com/xraph/lendbook/transaction/journal"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configFile string
	cfg        Config

	logger  *slog.Logger
	store   store.Store
	journal *journal.Journal
	bundle  *i18n.Bundle
	book    *lendbook.Book

	out    io.Writer
	errOut io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout, errOut: os.Stderr}

	root := &cobra.Command{
		Use:   "lendbook",
		Short: "Track money you borrowed and lent",
		Long: `lendbook keeps a list of debts: money you borrowed from people and money
you lent to them. Every new entry and every settlement is booked as a wallet
transaction, so a wallet's balance always reflects money that changed hands.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default: ./lendbook.yaml)")
	pf.String("store-driver", "", "storage backend: memory, sqlite, postgres, mongo")
	pf.String("store-dsn", "", "storage DSN, file path or URI")
	pf.String("store-key", "", "blob key the records are stored under")
	pf.String("language", "", "language for transaction descriptions (en, de, ru)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("wallet", "", "default wallet ID")
	pf.Bool("audit", false, "log an audit entry for every book event")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.showCmd(),
		a.paidCmd(),
		a.unpaidCmd(),
		a.updateCmd(),
		a.rmCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.clearCmd(),
		a.transactionsCmd(),
		a.serveCmd(),
		a.migrateCmd(),
	)

	return root
}

// setup loads configuration and opens the Book.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	a.store = st

	bundle, err := i18n.NewBundle()
	if err != nil {
		return err
	}
	a.bundle = bundle

	a.journal = journal.New(st)
	opts := []lendbook.Option{
		lendbook.WithLogger(a.logger),
		lendbook.WithStorageKey(cfg.Store.Key),
		lendbook.WithTranslator(bundle.Localizer(cfg.Language)),
	}
	if cfg.Log.Audit {
		opts = append(opts, lendbook.WithPlugin(a.auditHook()))
	}
	a.book = lendbook.New(st, a.journal, opts...)

	if err := a.book.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.book == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return a.book.Stop(ctx)
}

// auditHook logs audit events at info level regardless of log.level.
func (a *app) auditHook() *audithook.Extension {
	w := slog.New(slog.NewJSONHandler(a.errOut, nil))
	rec := audithook.RecorderFunc(func(ctx context.Context, ev *audithook.AuditEvent) error {
		w.InfoContext(ctx, "audit",
			"action", ev.Action,
			"resource", ev.Resource,
			"resource_id", ev.ResourceID,
			"outcome", ev.Outcome,
			"severity", ev.Severity,
			"metadata", ev.Metadata,
		)
		return nil
	})
	return audithook.New(rec, audithook.WithLogger(a.logger))
}

// wallet returns the explicit wallet or the configured default.
func (a *app) wallet(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return a.cfg.Wallet
}
