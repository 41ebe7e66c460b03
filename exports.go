package lendbook

import (
	"github.com/xraph/lendbook/obligation"
	"github.com/xraph/lendbook/types"
)

// Re-export common types so callers rarely need the subpackages.

// Obligation is re-exported from the obligation package.
type Obligation = obligation.Obligation

// Draft is re-exported from the obligation package.
type Draft = obligation.Draft

// Patch is re-exported from the obligation package.
type Patch = obligation.Patch

// Statistics is re-exported from the obligation package.
type Statistics = obligation.Statistics

// Type is re-exported from the obligation package.
type Type = obligation.Type

// Amount is re-exported from the types package.
type Amount = types.Amount

// Obligation directions.
const (
	Borrowed = obligation.TypeBorrowed
	Lent     = obligation.TypeLent
)

// Re-export Amount constructors
var (
	Units     = types.Units
	Cents     = types.Cents
	Parse     = types.Parse
	MustParse = types.MustParse
)
