package model

// Action classifies the business meaning of a transaction row. The
// taxonomy is closed; downstream consumers switch on these exact
// values.
type Action string

const (
	// ActionBuySell is a purchase or sale of a security.
	ActionBuySell Action = "buysell"
	// ActionTransfer is a movement of cash or securities between accounts.
	ActionTransfer Action = "transfer"
	// ActionIncome is a dividend, capital-gain distribution, or interest.
	ActionIncome Action = "income"
	// ActionMiscFlow is any cash flow not otherwise classified.
	ActionMiscFlow Action = "miscflow"
)
