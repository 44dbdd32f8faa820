package api

import (
	"context"
	"net/http"

	"github.com/me/walletctl/pkg/model"
)

// Balance returns the wallet balance for the document/phone pair. The
// gateway answers 200 with a null payload when the pair does not match an
// account, which surfaces as a credentials error rather than a zero balance.
func (c *Client) Balance(ctx context.Context, document, phone string) (model.Centavos, error) {
	body := map[string]string{"document": document, "phone": phone}

	env, err := c.call(ctx, http.MethodPost, endpointBalance, body,
		http.StatusOK, "could not fetch the balance")
	if err != nil {
		return 0, err
	}

	if !env.HasData() {
		return 0, &model.APIError{StatusCode: env.StatusCode, Message: "verify your credentials"}
	}

	var res model.BalanceResult
	if err := env.DecodeData(&res); err != nil {
		return 0, &model.APIError{StatusCode: env.StatusCode, Message: "could not fetch the balance"}
	}

	return model.CentavosFromFloat(res.Balance), nil
}

// TopUp credits amount to the account identified by document/phone and
// returns the gateway's view of the new balance.
func (c *Client) TopUp(ctx context.Context, amount model.Centavos, document, phone string) (*model.TopUpResult, error) {
	body := map[string]any{
		"amount":   amount.Float64(),
		"document": document,
		"phone":    phone,
	}

	env, err := c.call(ctx, http.MethodPost, endpointTopUp, body,
		http.StatusOK, "could not process the top-up")
	if err != nil {
		return nil, err
	}

	var res model.TopUpResult
	if err := env.DecodeData(&res); err != nil {
		return nil, &model.APIError{StatusCode: env.StatusCode, Message: "could not process the top-up"}
	}

	return &res, nil
}

// Purchases lists the purchases owned by a document.
func (c *Client) Purchases(ctx context.Context, document string) ([]model.Purchase, error) {
	env, err := c.call(ctx, http.MethodGet, endpointPurchases(document), nil,
		http.StatusOK, "could not fetch the purchase list")
	if err != nil {
		return nil, err
	}

	var purchases []model.Purchase
	if err := env.DecodeData(&purchases); err != nil {
		return nil, &model.APIError{StatusCode: env.StatusCode, Message: "could not fetch the purchase list"}
	}

	return purchases, nil
}

// StartPayment asks the gateway to begin paying a purchase. The gateway
// dispatches a one-time token to the account holder out-of-band.
func (c *Client) StartPayment(ctx context.Context, purchaseID int64, document string) (*model.StartPaymentAck, error) {
	body := map[string]int64{"purchaseId": purchaseID}

	env, err := c.call(ctx, http.MethodPatch, endpointStartPayment(document), body,
		http.StatusCreated, "could not start the payment")
	if err != nil {
		return nil, err
	}

	var ack model.StartPaymentAck
	if err := env.DecodeData(&ack); err != nil {
		return nil, &model.APIError{StatusCode: env.StatusCode, Message: "could not start the payment"}
	}

	return &ack, nil
}

// ConfirmPayment submits the one-time token that finalizes a purchase and
// returns the gateway's confirmation message.
func (c *Client) ConfirmPayment(ctx context.Context, purchaseID int64, token string) (string, error) {
	body := map[string]any{"purchaseId": purchaseID, "token": token}

	env, err := c.call(ctx, http.MethodPatch, endpointConfirm, body,
		http.StatusCreated, "could not confirm the payment")
	if err != nil {
		return "", err
	}
	if !env.HasData() {
		return "", &model.APIError{StatusCode: env.StatusCode, Message: "could not confirm the payment"}
	}

	return env.Message, nil
}
