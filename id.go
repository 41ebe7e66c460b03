package lendbook

import "github.com/xraph/lendbook/id"

// ID is the TypeID used for obligations and wallet transactions.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
