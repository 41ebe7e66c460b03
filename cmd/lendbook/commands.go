package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/types"
)

// dateLayouts are tried in order when parsing date flags.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
}

// ─── add ────────────────────────────────────────────────────────────────────

func (a *app) addCmd() *cobra.Command {
	var (
		typ, person, amount, reason string
		borrowed, due               string
		wallet, notes               string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record money you borrowed or lent",
		Example: `  lendbook add --type lent --person Alex --amount 50 --reason lunch --due 2025-07-01
  lendbook add --type borrowed --person Sam --amount 12.50 --due 2025-06-30 --wallet cash`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := obligation.ParseType(typ)
			if err != nil {
				return err
			}
			amt, err := types.Parse(amount)
			if err != nil {
				return err
			}
			borrowedAt := time.Now()
			if borrowed != "" {
				if borrowedAt, err = parseDate(borrowed); err != nil {
					return err
				}
			}
			dueAt, err := parseDate(due)
			if err != nil {
				return err
			}
			walletID := a.wallet(wallet)
			if walletID == "" {
				return errors.New("a wallet is required: pass --wallet or set wallet in lendbook.yaml")
			}

			o, err := a.book.Add(cmd.Context(), obligation.Draft{
				Type:         t,
				PersonName:   person,
				Amount:       amt,
				Reason:       reason,
				BorrowedDate: borrowedAt,
				DueDate:      dueAt,
				WalletID:     walletID,
				Notes:        notes,
			}, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s\n", o.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&typ, "type", "", "lent or borrowed")
	f.StringVar(&person, "person", "", "counterparty name")
	f.StringVar(&amount, "amount", "", "amount, e.g. 50 or 12.50")
	f.StringVar(&reason, "reason", "", "what the money was for")
	f.StringVar(&borrowed, "borrowed", "", "date the money changed hands (default: today)")
	f.StringVar(&due, "due", "", "date the money is due back")
	f.StringVar(&wallet, "wallet", "", "wallet the money moved through")
	f.StringVar(&notes, "notes", "", "free-form notes")
	for _, name := range []string{"type", "person", "amount", "due"} {
		_ = cmd.MarkFlagRequired(name) //nolint:errcheck // flag is defined above
	}
	return cmd
}

// ─── list / show ────────────────────────────────────────────────────────────

func (a *app) listCmd() *cobra.Command {
	var status, person, search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List obligations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var list []*obligation.Obligation
			switch status {
			case "all", "":
				list = a.book.List(ctx)
			case "paid":
				list = a.book.ListPaid(ctx)
			case "unpaid":
				list = a.book.ListUnpaid(ctx)
			case "overdue":
				list = a.book.ListOverdue(ctx)
			default:
				return fmt.Errorf("unknown status %q: use all, paid, unpaid or overdue", status)
			}
			if person != "" {
				list = obligation.Filter(list, obligation.PersonContains(person))
			}
			if search != "" {
				list = obligation.Filter(list, obligation.Matches(search))
			}

			if len(list) == 0 {
				fmt.Fprintln(a.out, "No obligations.")
				return nil
			}
			fmt.Fprintln(a.out, obligationTable(list, time.Now()))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&status, "status", "all", "all, paid, unpaid or overdue")
	f.StringVar(&person, "person", "", "only counterparties whose name contains this")
	f.StringVar(&search, "search", "", "search names, reasons and notes")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one obligation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, ok := a.book.Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("obligation %s not found", args[0])
			}
			fmt.Fprintln(a.out, detailTable(o, time.Now()))
			return nil
		},
	}
}

// ─── paid / unpaid ──────────────────────────────────────────────────────────

func (a *app) paidCmd() *cobra.Command {
	var wallet string

	cmd := &cobra.Command{
		Use:   "paid ID",
		Short: "Settle an obligation and book the repayment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.book.MarkAsPaid(cmd.Context(), args[0], a.wallet(wallet), nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Marked %s as paid (%s)\n", o.ID, o.Amount.FormatMajor())
			return nil
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet receiving or paying the money (default: the obligation's wallet)")
	return cmd
}

func (a *app) unpaidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpaid ID",
		Short: "Reopen a settled obligation",
		Long:  "Reopen a settled obligation. No wallet transaction is booked.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, ok := a.book.MarkAsUnpaid(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("obligation %s not found", args[0])
			}
			fmt.Fprintf(a.out, "Marked %s as unpaid\n", o.ID)
			return nil
		},
	}
}

// ─── update / rm ────────────────────────────────────────────────────────────

func (a *app) updateCmd() *cobra.Command {
	var (
		typ, person, amount, reason string
		borrowed, due               string
		wallet, notes               string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an obligation",
		Long:  "Change fields of an obligation. Only the flags you pass are changed; no transaction is booked.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p obligation.Patch
			changed := cmd.Flags().Changed

			if changed("type") {
				t, err := obligation.ParseType(typ)
				if err != nil {
					return err
				}
				p.Type = &t
			}
			if changed("person") {
				p.PersonName = &person
			}
			if changed("amount") {
				amt, err := types.Parse(amount)
				if err != nil {
					return err
				}
				p.Amount = &amt
			}
			if changed("reason") {
				p.Reason = &reason
			}
			if changed("borrowed") {
				t, err := parseDate(borrowed)
				if err != nil {
					return err
				}
				p.BorrowedDate = &t
			}
			if changed("due") {
				t, err := parseDate(due)
				if err != nil {
					return err
				}
				p.DueDate = &t
			}
			if changed("wallet") {
				p.WalletID = &wallet
			}
			if changed("notes") {
				p.Notes = &notes
			}
			if len(p.Fields()) == 0 {
				return errors.New("nothing to update")
			}

			o, ok, err := a.book.Update(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("obligation %s not found", args[0])
			}
			fmt.Fprintf(a.out, "Updated %s: %s\n", o.ID, strings.Join(p.Fields(), ", "))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&typ, "type", "", "lent or borrowed")
	f.StringVar(&person, "person", "", "counterparty name")
	f.StringVar(&amount, "amount", "", "amount")
	f.StringVar(&reason, "reason", "", "reason")
	f.StringVar(&borrowed, "borrowed", "", "borrowed date")
	f.StringVar(&due, "due", "", "due date")
	f.StringVar(&wallet, "wallet", "", "wallet ID")
	f.StringVar(&notes, "notes", "", "notes")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete an obligation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.book.Delete(cmd.Context(), args[0]) {
				return fmt.Errorf("obligation %s not found", args[0])
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

// ─── stats / clear ──────────────────────────────────────────────────────────

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals by direction and payment state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(a.out, statisticsTable(a.book.Statistics(cmd.Context())))
			return nil
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every obligation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			a.book.Clear(cmd.Context())
			fmt.Fprintln(a.out, "Cleared all obligations.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")
	return cmd
}

// ─── transactions / migrate ─────────────────────────────────────────────────

func (a *app) transactionsCmd() *cobra.Command {
	var wallet string

	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List wallet transactions booked by lendbook",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			walletID := a.wallet(wallet)

			list, err := a.journal.List(ctx, walletID)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No transactions.")
				return nil
			}
			bal, err := a.journal.Balance(ctx, walletID)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, transactionTable(list))
			fmt.Fprintf(a.out, "\nIncome %s  Expense %s  Net %s\n",
				bal.Income.FormatMajor(), bal.Expense.FormatMajor(), bal.Net().FormatMajor())
			return nil
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "only this wallet (default: every wallet unless configured)")
	return cmd
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the storage schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Storage %q is up to date.\n", a.cfg.Store.Driver)
			return nil
		},
	}
}
