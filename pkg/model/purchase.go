package model

// PurchaseStatus represents the lifecycle state of a Purchase.
type PurchaseStatus string

const (
	PurchaseStatusActive   PurchaseStatus = "ACTIVE"
	PurchaseStatusFinished PurchaseStatus = "FINISHED"
)

// String returns the string representation of the purchase status.
func (s PurchaseStatus) String() string {
	return string(s)
}

// IsPayable returns true if the purchase may enter the payment flow.
func (s PurchaseStatus) IsPayable() bool {
	return s == PurchaseStatusActive
}

// IsTerminal returns true if the purchase is in a final state.
func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseStatusFinished
}

// ValidPurchaseTransitions defines the allowed state transitions for Purchases.
// The transition is driven server-side by a confirmed payment; the client only
// observes it by re-fetching the list.
var ValidPurchaseTransitions = map[PurchaseStatus][]PurchaseStatus{
	PurchaseStatusActive: {PurchaseStatusFinished},
}

// CanTransitionTo returns true if moving from the current status to next is valid.
func (s PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	for _, allowed := range ValidPurchaseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Purchase is a pending or completed purchase tied to a wallet account.
// Amount is a decimal carried as a string; the gateway owns its precision.
type Purchase struct {
	ID           int64          `json:"id"`
	Amount       string         `json:"amount"`
	Product      string         `json:"product"`
	Status       PurchaseStatus `json:"status"`
	ExpiresAt    *string        `json:"expiresAt"`
	UserDocument string         `json:"userDocument"`
}
