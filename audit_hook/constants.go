package audithook

// Action constants for audit events.
const (
	// Obligation actions
	ActionObligationAdded   = "obligation.added"
	ActionObligationUpdated = "obligation.updated"
	ActionObligationPaid    = "obligation.paid"
	ActionObligationUnpaid  = "obligation.unpaid"
	ActionObligationDeleted = "obligation.deleted"

	// Book actions
	ActionBookCleared  = "book.cleared"
	ActionBookImported = "book.imported"

	// Wallet actions
	ActionTransactionRecorded = "transaction.recorded"

	// Storage actions
	ActionStoreFailed = "store.failed"
)

// Resource constants for audit events.
const (
	ResourceObligation  = "obligation"
	ResourceBook        = "book"
	ResourceTransaction = "transaction"
	ResourceStore       = "store"
)

// Category constants for audit events.
const (
	CategoryLending = "lending"
	CategoryWallet  = "wallet"
	CategoryData    = "data"
	CategoryStorage = "storage"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
