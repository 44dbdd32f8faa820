package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/me/walletctl/internal/gatewaytest"
	"github.com/me/walletctl/pkg/model"
)

var testUser = model.User{Document: "1001", Phone: "3000000000", Email: "a@b.com", Names: "Ana"}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startGateway(t *testing.T) (*gatewaytest.Server, *Client) {
	t.Helper()
	gw := gatewaytest.New()
	gw.SeedUser(testUser, "secret1", 20000)

	ts := httptest.NewServer(gw.Handler())
	t.Cleanup(ts.Close)

	return gw, NewClient(ts.URL, 5*time.Second, testLogger())
}

// login authenticates and wires the returned token into the client.
func login(t *testing.T, c *Client) *model.User {
	t.Helper()
	token, user, err := c.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	c.SetTokenSource(TokenSourceFunc(func() string { return token }))
	return user
}

func TestLogin(t *testing.T) {
	_, c := startGateway(t)

	token, user, err := c.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if user == nil || user.Names != "Ana" {
		t.Errorf("user = %+v, want Ana", user)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	_, c := startGateway(t)

	_, _, err := c.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "wrong"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *model.APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Errorf("message = %q, want the gateway's verbatim text", apiErr.Message)
	}
}

func TestRegister(t *testing.T) {
	_, c := startGateway(t)

	user, err := c.Register(context.Background(), model.Registration{
		Names: "Beto", Document: "1002", Phone: "3111111111", Email: "b@b.com", Password: "secret2",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Document != "1002" {
		t.Errorf("document = %q, want 1002", user.Document)
	}

	// Duplicate email is an application error.
	_, err = c.Register(context.Background(), model.Registration{
		Names: "Beto", Document: "1002", Phone: "3111111111", Email: "b@b.com", Password: "secret2",
	})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *model.APIError", err)
	}
}

func TestBalance(t *testing.T) {
	_, c := startGateway(t)
	login(t, c)

	got, err := c.Balance(context.Background(), "1001", "3000000000")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if got != model.Centavos(2000000) {
		t.Errorf("balance = %d centavos, want 2000000", got)
	}
}

func TestBalance_UnknownPairIsCredentialsError(t *testing.T) {
	_, c := startGateway(t)
	login(t, c)

	_, err := c.Balance(context.Background(), "1001", "9999999999")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *model.APIError", err)
	}
	if apiErr.Message != "verify your credentials" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestTopUp(t *testing.T) {
	_, c := startGateway(t)
	login(t, c)

	res, err := c.TopUp(context.Background(), model.Centavos(1000000), "1001", "3000000000")
	if err != nil {
		t.Fatalf("TopUp: %v", err)
	}
	if res.NewBalance != 30000 {
		t.Errorf("newBalance = %v, want 30000", res.NewBalance)
	}
	if res.Document != "1001" {
		t.Errorf("document = %q, want 1001", res.Document)
	}
}

func TestPurchasesAndPaymentRoundTrip(t *testing.T) {
	gw, c := startGateway(t)
	gw.SeedPurchase(model.Purchase{ID: 42, Amount: "15000.00", Product: "Data plan", Status: model.PurchaseStatusActive, UserDocument: "1001"})
	login(t, c)
	ctx := context.Background()

	purchases, err := c.Purchases(ctx, "1001")
	if err != nil {
		t.Fatalf("Purchases: %v", err)
	}
	if len(purchases) != 1 || purchases[0].ID != 42 {
		t.Fatalf("purchases = %+v, want purchase 42", purchases)
	}

	ack, err := c.StartPayment(ctx, 42, "1001")
	if err != nil {
		t.Fatalf("StartPayment: %v", err)
	}
	if ack.PurchaseID != 42 {
		t.Errorf("ack purchase = %d, want 42", ack.PurchaseID)
	}

	// Wrong token is rejected with the gateway's message.
	_, err = c.ConfirmPayment(ctx, 42, "000000")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *model.APIError", err)
	}

	msg, err := c.ConfirmPayment(ctx, 42, gatewaytest.OTP)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if msg != "Payment confirmed" {
		t.Errorf("message = %q", msg)
	}
	if got := gw.Purchase(42); got == nil || got.Status != model.PurchaseStatusFinished {
		t.Errorf("purchase after confirm = %+v, want FINISHED", got)
	}
}

func TestBearerInjection(t *testing.T) {
	var authHeaders []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.URL.Path+"|"+r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == endpointLogin {
			w.Write([]byte(`{"statusCode":200,"message":"","data":{"access_token":"tok1234567890","user":{"document":"1001","phone":"3000000000","email":"a@b.com","names":"Ana"}}}`))
			return
		}
		w.Write([]byte(`{"statusCode":200,"message":"","data":{"balance":100}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second, testLogger())
	c.SetTokenSource(TokenSourceFunc(func() string { return "tok1234567890" }))

	if _, _, err := c.Login(context.Background(), model.Credentials{Email: "a@b.com", Password: "x"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := c.Balance(context.Background(), "1001", "3000000000"); err != nil {
		t.Fatalf("Balance: %v", err)
	}

	want := []string{
		endpointLogin + "|",
		endpointBalance + "|Bearer tok1234567890",
	}
	if len(authHeaders) != len(want) {
		t.Fatalf("requests = %v", authHeaders)
	}
	for i := range want {
		if authHeaders[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, authHeaders[i], want[i])
		}
	}
}

func TestTransportErrorIsConnectionError(t *testing.T) {
	// Nothing listens here.
	c := NewClient("http://127.0.0.1:1", time.Second, testLogger())

	_, err := c.Purchases(context.Background(), "1001")
	var connErr *model.ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("error is %T, want *model.ConnectionError", err)
	}
}

func TestNonEnvelopeBodyIsConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream down</html>"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second, testLogger())
	_, err := c.Purchases(context.Background(), "1001")
	var connErr *model.ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("error is %T, want *model.ConnectionError", err)
	}
}

func TestFallbackMessageWhenGatewaySendsNone(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"statusCode":500,"message":"","data":null}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second, testLogger())
	_, err := c.Purchases(context.Background(), "1001")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *model.APIError", err)
	}
	if apiErr.Message != "could not fetch the purchase list" {
		t.Errorf("message = %q, want the operation fallback", apiErr.Message)
	}
}
