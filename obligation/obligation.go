// Package obligation defines the borrowed/lent money record and the pure
// functions that filter, order, aggregate and serialize sets of them.
//
// Nothing in this package touches storage or collaborators; the Book in the
// root package composes these helpers with a blob store and a transaction
// recorder.
package obligation

import (
	"fmt"
	"strings"
	"time"

	"github.com/xraph/lendbook/types"
)

// Type is the direction of an obligation.
type Type string

const (
	// TypeBorrowed means the ledger owner owes the money.
	TypeBorrowed Type = "borrowed"
	// TypeLent means the money is owed to the ledger owner.
	TypeLent Type = "lent"
)

// IsValid reports whether t is one of the known directions.
func (t Type) IsValid() bool {
	return t == TypeBorrowed || t == TypeLent
}

// ParseType parses a direction name case-insensitively.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("obligation: unknown type %q (want %q or %q)", s, TypeBorrowed, TypeLent)
	}
	return t, nil
}

// Obligation is a single amount of money borrowed from, or lent to, a
// counterparty. ID never changes after creation.
type Obligation struct {
	ID           string       `json:"id"              yaml:"id"              toml:"id"`
	Type         Type         `json:"type"            yaml:"type"            toml:"type"`
	PersonName   string       `json:"personName"      yaml:"personName"      toml:"personName"`
	Amount       types.Amount `json:"amount"          yaml:"amount"          toml:"amount"`
	Reason       string       `json:"reason"          yaml:"reason"          toml:"reason"`
	BorrowedDate time.Time    `json:"borrowedDate"    yaml:"borrowedDate"    toml:"borrowedDate"`
	DueDate      time.Time    `json:"dueDate"         yaml:"dueDate"         toml:"dueDate"`
	IsPaid       bool         `json:"isPaid"          yaml:"isPaid"          toml:"isPaid"`
	WalletID     string       `json:"walletId"        yaml:"walletId"        toml:"walletId"`
	Notes        string       `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
}

// Clone returns a copy that shares no state with o.
func (o *Obligation) Clone() *Obligation {
	c := *o
	return &c
}

// IsOverdue reports whether o is unpaid and due strictly before now.
func (o *Obligation) IsOverdue(now time.Time) bool {
	return !o.IsPaid && o.DueDate.Before(now)
}

// Draft carries the caller-supplied fields of a new obligation. The ID is
// assigned by the Book and IsPaid always starts false.
type Draft struct {
	Type         Type         `json:"type"`
	PersonName   string       `json:"personName"`
	Amount       types.Amount `json:"amount"`
	Reason       string       `json:"reason"`
	BorrowedDate time.Time    `json:"borrowedDate"`
	DueDate      time.Time    `json:"dueDate"`
	WalletID     string       `json:"walletId"`
	Notes        string       `json:"notes,omitempty"`
}

// Build turns the draft into an unpaid obligation with the given ID.
func (d Draft) Build(id string) *Obligation {
	return &Obligation{
		ID:           id,
		Type:         d.Type,
		PersonName:   d.PersonName,
		Amount:       d.Amount,
		Reason:       d.Reason,
		BorrowedDate: d.BorrowedDate,
		DueDate:      d.DueDate,
		IsPaid:       false,
		WalletID:     d.WalletID,
		Notes:        d.Notes,
	}
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Type         *Type         `json:"type,omitempty"`
	PersonName   *string       `json:"personName,omitempty"`
	Amount       *types.Amount `json:"amount,omitempty"`
	Reason       *string       `json:"reason,omitempty"`
	BorrowedDate *time.Time    `json:"borrowedDate,omitempty"`
	DueDate      *time.Time    `json:"dueDate,omitempty"`
	IsPaid       *bool         `json:"isPaid,omitempty"`
	WalletID     *string       `json:"walletId,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
}

// SetPaid returns a patch that only sets IsPaid.
func SetPaid(paid bool) Patch {
	return Patch{IsPaid: &paid}
}

// Apply overwrites the fields of o that are set in p.
func (p Patch) Apply(o *Obligation) {
	if p.Type != nil {
		o.Type = *p.Type
	}
	if p.PersonName != nil {
		o.PersonName = *p.PersonName
	}
	if p.Amount != nil {
		o.Amount = *p.Amount
	}
	if p.Reason != nil {
		o.Reason = *p.Reason
	}
	if p.BorrowedDate != nil {
		o.BorrowedDate = *p.BorrowedDate
	}
	if p.DueDate != nil {
		o.DueDate = *p.DueDate
	}
	if p.IsPaid != nil {
		o.IsPaid = *p.IsPaid
	}
	if p.WalletID != nil {
		o.WalletID = *p.WalletID
	}
	if p.Notes != nil {
		o.Notes = *p.Notes
	}
}

// Fields lists the names of the fields p sets, in declaration order.
func (p Patch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Type != nil, "type")
	add(p.PersonName != nil, "personName")
	add(p.Amount != nil, "amount")
	add(p.Reason != nil, "reason")
	add(p.BorrowedDate != nil, "borrowedDate")
	add(p.DueDate != nil, "dueDate")
	add(p.IsPaid != nil, "isPaid")
	add(p.WalletID != nil, "walletId")
	add(p.Notes != nil, "notes")
	return out
}
