package model

// PaymentPhase represents the state of the two-step payment confirmation flow.
type PaymentPhase string

const (
	// PaymentPhaseIdle means no confirmation is in progress.
	PaymentPhaseIdle PaymentPhase = "IDLE"
	// PaymentPhaseEntering means the flow is open and waiting for the one-time token.
	PaymentPhaseEntering PaymentPhase = "ENTERING"
	// PaymentPhaseSubmitting means a confirmation request is in flight.
	PaymentPhaseSubmitting PaymentPhase = "SUBMITTING"
	// PaymentPhaseSucceeded means the gateway confirmed the payment.
	PaymentPhaseSucceeded PaymentPhase = "SUCCEEDED"
	// PaymentPhaseFailed means the last confirmation attempt was rejected.
	PaymentPhaseFailed PaymentPhase = "FAILED"
)

// String returns the string representation of the payment phase.
func (p PaymentPhase) String() string {
	return string(p)
}

// IsOpen returns true if a confirmation flow is in progress.
func (p PaymentPhase) IsOpen() bool {
	return p != PaymentPhaseIdle
}

// ValidPaymentTransitions defines the allowed phase transitions for the
// confirmation flow. SUBMITTING deliberately cannot go to IDLE: the flow
// cannot be dismissed while a confirmation request is in flight.
var ValidPaymentTransitions = map[PaymentPhase][]PaymentPhase{
	PaymentPhaseIdle:       {PaymentPhaseEntering},
	PaymentPhaseEntering:   {PaymentPhaseSubmitting, PaymentPhaseIdle},
	PaymentPhaseSubmitting: {PaymentPhaseSucceeded, PaymentPhaseFailed},
	PaymentPhaseSucceeded:  {PaymentPhaseIdle},
	PaymentPhaseFailed:     {PaymentPhaseEntering, PaymentPhaseSubmitting, PaymentPhaseIdle},
}

// CanTransitionTo returns true if moving from the current phase to next is valid.
func (p PaymentPhase) CanTransitionTo(next PaymentPhase) bool {
	for _, allowed := range ValidPaymentTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StartPaymentAck acknowledges that a payment was started and a one-time
// token was dispatched out-of-band.
type StartPaymentAck struct {
	PurchaseID int64  `json:"purchaseId"`
	Document   string `json:"document"`
}
