package main

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"

	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/transaction"
)

const dateLayout = "2006-01-02"

func status(o *obligation.Obligation, now time.Time) string {
	switch {
	case o.IsPaid:
		return "paid"
	case o.IsOverdue(now):
		return "overdue"
	default:
		return "open"
	}
}

func due(o *obligation.Obligation, now time.Time) string {
	if o.IsPaid {
		return o.DueDate.Format(dateLayout)
	}
	return o.DueDate.Format(dateLayout) + " (" + humanize.RelTime(o.DueDate, now, "ago", "from now") + ")"
}

func obligationTable(list []*obligation.Obligation, now time.Time) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = true

	table.AddRow("ID", "TYPE", "PERSON", "AMOUNT", "REASON", "DUE", "STATUS")
	for _, o := range list {
		table.AddRow(o.ID, o.Type, o.PersonName, o.Amount.FormatMajor(), o.Reason, due(o, now), status(o, now))
	}
	table.RightAlign(3)
	return table
}

func detailTable(o *obligation.Obligation, now time.Time) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true

	table.AddRow("ID:", o.ID)
	table.AddRow("Type:", o.Type)
	table.AddRow("Person:", o.PersonName)
	table.AddRow("Amount:", o.Amount.FormatMajor())
	table.AddRow("Reason:", o.Reason)
	table.AddRow("Borrowed:", o.BorrowedDate.Format(dateLayout)+" ("+humanize.Time(o.BorrowedDate)+")")
	table.AddRow("Due:", due(o, now))
	table.AddRow("Status:", status(o, now))
	table.AddRow("Wallet:", o.WalletID)
	if o.Notes != "" {
		table.AddRow("Notes:", o.Notes)
	}
	return table
}

func statisticsTable(s obligation.Statistics) *uitable.Table {
	table := uitable.New()
	table.AddRow("", "BORROWED", "LENT")
	table.AddRow("Total", s.TotalBorrowed.FormatMajor(), s.TotalLent.FormatMajor())
	table.AddRow("Paid", s.PaidBorrowed.FormatMajor(), s.PaidLent.FormatMajor())
	table.AddRow("Unpaid", s.UnpaidBorrowed.FormatMajor(), s.UnpaidLent.FormatMajor())
	table.AddRow("Overdue", s.OverdueBorrowed.FormatMajor(), s.OverdueLent.FormatMajor())
	table.AddRow("", "", "")
	table.AddRow("Net", "", s.Net().FormatMajor())
	table.AddRow("Records", "", humanize.Comma(int64(s.Count)))
	table.RightAlign(1)
	table.RightAlign(2)
	return table
}

func transactionTable(list []*transaction.Transaction) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 50
	table.Wrap = true

	table.AddRow("DATE", "WALLET", "TYPE", "AMOUNT", "DESCRIPTION")
	for _, tx := range list {
		table.AddRow(tx.Date, tx.WalletID, tx.Type, tx.Amount.FormatMajor(), tx.Description)
	}
	table.RightAlign(3)
	return table
}
