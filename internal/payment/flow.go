// Package payment drives the purchase list and the two-step payment
// confirmation: start a payment, then submit the out-of-band one-time token
// to finalize it.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/walletctl/pkg/model"
)

// WalletAPI is the gateway collaborator consumed by the Flow.
type WalletAPI interface {
	Purchases(ctx context.Context, document string) ([]model.Purchase, error)
	StartPayment(ctx context.Context, purchaseID int64, document string) (*model.StartPaymentAck, error)
	ConfirmPayment(ctx context.Context, purchaseID int64, token string) (string, error)
}

// Result is the tagged outcome of the last confirmation attempt.
type Result struct {
	OK      bool
	Message string
}

// Flow owns the purchase list for one document and at most one payment
// confirmation in progress. All phase changes go through the transition
// table in pkg/model; an operation that would need an invalid transition is
// refused or ignored rather than forced.
type Flow struct {
	api    WalletAPI
	logger *slog.Logger

	mu        sync.Mutex
	document  string
	purchases []model.Purchase
	loading   bool
	loadErr   error

	phase      model.PaymentPhase
	purchaseID int64
	tokenInput string
	result     *Result
}

// NewFlow creates a Flow with an empty list and no confirmation open.
func NewFlow(api WalletAPI, logger *slog.Logger) *Flow {
	return &Flow{
		api:    api,
		logger: logger.With("component", "payment"),
		phase:  model.PaymentPhaseIdle,
	}
}

// LoadPurchases replaces the purchase list with the gateway's view for the
// given document. On failure the previously loaded list stays visible and
// the error is recorded; availability wins over freshness here.
func (f *Flow) LoadPurchases(ctx context.Context, document string) error {
	if document == "" {
		err := model.NewValidationError("document", "owner document is required to load purchases")
		f.mu.Lock()
		f.loadErr = err
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.document = document
	f.loading = true
	f.loadErr = nil
	f.mu.Unlock()

	purchases, err := f.api.Purchases(ctx, document)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		f.loadErr = err
		return err
	}
	f.purchases = purchases
	return nil
}

// OpenPayment starts paying a purchase: it asks the gateway to dispatch the
// one-time token, and only on success opens the confirmation with fresh
// input state. A failed start leaves the flow closed and surfaces the error.
func (f *Flow) OpenPayment(ctx context.Context, purchaseID int64, document string) error {
	f.mu.Lock()
	if !f.phase.CanTransitionTo(model.PaymentPhaseEntering) {
		f.mu.Unlock()
		return fmt.Errorf("a payment confirmation is already in progress")
	}
	p := f.findPurchase(purchaseID)
	if p == nil {
		f.mu.Unlock()
		return model.NewValidationError("purchase", fmt.Sprintf("purchase %d is not in the loaded list", purchaseID))
	}
	if !p.Status.IsPayable() {
		status := p.Status
		f.mu.Unlock()
		return model.NewValidationError("purchase", fmt.Sprintf("purchase %d is %s and cannot be paid", purchaseID, status))
	}
	f.mu.Unlock()

	if _, err := f.api.StartPayment(ctx, purchaseID, document); err != nil {
		f.logger.Debug("start payment failed", "purchase", purchaseID, "error", err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.document = document
	f.phase = model.PaymentPhaseEntering
	f.purchaseID = purchaseID
	f.tokenInput = ""
	f.result = nil
	return nil
}

// TypeToken records the user's token input. Typing after a failed attempt
// discards the stored result and re-enters the entering phase; input in any
// other non-entering phase is ignored.
func (f *Flow) TypeToken(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.phase {
	case model.PaymentPhaseFailed:
		f.phase = model.PaymentPhaseEntering
		f.result = nil
		f.tokenInput = s
	case model.PaymentPhaseEntering:
		f.tokenInput = s
	}
}

// SubmitToken sends the entered one-time token to the gateway. With no open
// confirmation or an empty token it is a no-op. Success clears the input and
// keeps the flow open for acknowledgement; failure keeps the input so the
// user may retry. The submitting phase always ends, either way.
func (f *Flow) SubmitToken(ctx context.Context) error {
	f.mu.Lock()
	if f.purchaseID == 0 || f.tokenInput == "" || !f.phase.CanTransitionTo(model.PaymentPhaseSubmitting) {
		f.mu.Unlock()
		return nil
	}
	f.phase = model.PaymentPhaseSubmitting
	f.result = nil
	purchaseID, token := f.purchaseID, f.tokenInput
	f.mu.Unlock()

	msg, err := f.api.ConfirmPayment(ctx, purchaseID, token)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.phase = model.PaymentPhaseFailed
		f.result = &Result{OK: false, Message: err.Error()}
		return err
	}
	f.phase = model.PaymentPhaseSucceeded
	f.result = &Result{OK: true, Message: msg}
	f.tokenInput = ""
	return nil
}

// Close dismisses the confirmation flow. It is refused while a submission is
// in flight. Closing after a confirmed payment triggers exactly one refresh
// of the purchase list so the FINISHED status becomes visible; closing after
// a failure or cancellation refreshes nothing.
func (f *Flow) Close(ctx context.Context) error {
	f.mu.Lock()
	if f.phase == model.PaymentPhaseIdle {
		f.mu.Unlock()
		return nil
	}
	if !f.phase.CanTransitionTo(model.PaymentPhaseIdle) {
		f.mu.Unlock()
		return fmt.Errorf("cannot close while a confirmation is being submitted")
	}

	wasConfirmed := f.result != nil && f.result.OK
	document := f.document
	f.phase = model.PaymentPhaseIdle
	f.purchaseID = 0
	f.tokenInput = ""
	f.result = nil
	f.mu.Unlock()

	if wasConfirmed {
		return f.LoadPurchases(ctx, document)
	}
	return nil
}

// Purchases returns a copy of the loaded purchase list.
func (f *Flow) Purchases() []model.Purchase {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Purchase, len(f.purchases))
	copy(out, f.purchases)
	return out
}

// LoadError returns the error recorded by the last LoadPurchases, or nil.
func (f *Flow) LoadError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadErr
}

// Loading reports whether a list fetch is in flight.
func (f *Flow) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Phase returns the current confirmation phase.
func (f *Flow) Phase() model.PaymentPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// PurchaseID returns the purchase under confirmation, or 0.
func (f *Flow) PurchaseID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.purchaseID
}

// TokenInput returns the token text entered so far.
func (f *Flow) TokenInput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenInput
}

// Result returns the outcome of the last confirmation attempt, or nil.
func (f *Flow) Result() *Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return nil
	}
	r := *f.result
	return &r
}

// findPurchase looks the purchase up in the loaded list. Callers hold the lock.
func (f *Flow) findPurchase(id int64) *model.Purchase {
	for i := range f.purchases {
		if f.purchases[i].ID == id {
			return &f.purchases[i]
		}
	}
	return nil
}
