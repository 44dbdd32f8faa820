// Package gatewaytest provides an in-process fake of the wallet gateway for
// tests. It speaks the gateway's envelope protocol and keeps its state in
// memory; one-time payment tokens are deterministic so tests can submit them.
package gatewaytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/walletctl/pkg/model"
)

// OTP is the one-time token the fake gateway "dispatches" for every started
// payment.
const OTP = "999111"

type account struct {
	user     model.User
	password string
	balance  float64
}

// Server is the fake gateway. Seed it, mount Handler on an httptest server,
// and point the client at it.
type Server struct {
	mu        sync.Mutex
	accounts  map[string]*account // keyed by email
	tokens    map[string]string   // bearer token -> email
	purchases map[int64]*model.Purchase
	started   map[int64]string // purchaseID -> pending OTP

	// FailStartPayment makes every start-payment request fail with a 500
	// envelope, for exercising the caller's error path.
	FailStartPayment bool
}

// New creates an empty fake gateway.
func New() *Server {
	return &Server{
		accounts:  make(map[string]*account),
		tokens:    make(map[string]string),
		purchases: make(map[int64]*model.Purchase),
		started:   make(map[int64]string),
	}
}

// SeedUser registers an account with a starting balance.
func (s *Server) SeedUser(u model.User, password string, balance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[u.Email] = &account{user: u, password: password, balance: balance}
}

// SeedPurchase adds a purchase to the gateway's state.
func (s *Server) SeedPurchase(p model.Purchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.purchases[p.ID] = &cp
}

// Purchase returns the gateway's current view of a purchase, or nil.
func (s *Server) Purchase(id int64) *model.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.purchases[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

// Handler returns the gateway's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)
		r.Post("/users/balance", s.handleBalance)
		r.Post("/users/top-up", s.handleTopUp)
		r.Patch("/users/{document}/start-payment", s.handleStartPayment)
		r.Patch("/users/check-payment", s.handleConfirmPayment)
		r.Get("/purchases/{document}", s.handlePurchases)
	})

	return r
}

func writeEnvelope(w http.ResponseWriter, httpStatus, envStatus int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	} else {
		raw = json.RawMessage("null")
	}
	json.NewEncoder(w).Encode(model.Response{StatusCode: envStatus, Message: message, Data: raw})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.tokens[tok]
		s.mu.Unlock()
		if tok == "" || !ok {
			writeEnvelope(w, http.StatusUnauthorized, http.StatusUnauthorized, "missing or invalid token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "malformed request", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[creds.Email]
	if !ok || acc.password != creds.Password {
		writeEnvelope(w, http.StatusUnauthorized, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token := "tok-" + uuid.NewString()
	s.tokens[token] = creds.Email
	writeEnvelope(w, http.StatusOK, http.StatusOK, "Login successful",
		model.AuthData{AccessToken: token, User: acc.user})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "malformed request", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[reg.Email]; exists {
		writeEnvelope(w, http.StatusConflict, http.StatusConflict, "Email is already registered", nil)
		return
	}

	user := model.User{Document: reg.Document, Phone: reg.Phone, Email: reg.Email, Names: reg.Names}
	s.accounts[reg.Email] = &account{user: user, password: reg.Password}
	writeEnvelope(w, http.StatusCreated, http.StatusCreated, "User created", user)
}

func (s *Server) findByDocumentAndPhone(document, phone string) *account {
	for _, acc := range s.accounts {
		if acc.user.Document == document && acc.user.Phone == phone {
			return acc
		}
	}
	return nil
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Document string `json:"document"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "malformed request", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.findByDocumentAndPhone(req.Document, req.Phone)
	if acc == nil {
		// The real gateway answers 200 with null data for a bad pair.
		writeEnvelope(w, http.StatusOK, http.StatusOK, "", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, http.StatusOK, "", model.BalanceResult{Balance: acc.balance})
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   float64 `json:"amount"`
		Document string  `json:"document"`
		Phone    string  `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "malformed request", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.findByDocumentAndPhone(req.Document, req.Phone)
	if acc == nil {
		writeEnvelope(w, http.StatusNotFound, http.StatusNotFound, "Account not found", nil)
		return
	}
	if req.Amount <= 0 {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "Amount must be positive", nil)
		return
	}
	acc.balance += req.Amount
	writeEnvelope(w, http.StatusOK, http.StatusOK, "Top-up successful",
		model.TopUpResult{Document: acc.user.Document, NewBalance: acc.balance})
}

func (s *Server) handlePurchases(w http.ResponseWriter, r *http.Request) {
	document := chi.URLParam(r, "document")

	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]model.Purchase, 0)
	for _, p := range s.purchases {
		if p.UserDocument == document {
			list = append(list, *p)
		}
	}
	writeEnvelope(w, http.StatusOK, http.StatusOK, "", list)
}

func (s *Server) handleStartPayment(w http.ResponseWriter, r *http.Request) {
	document := chi.URLParam(r, "document")

	var req struct {
		PurchaseID int64 `json:"purchaseId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "malformed request", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailStartPayment {
		writeEnvelope(w, http.StatusInternalServerError, http.StatusInternalServerError, "could not dispatch the security token", nil)
		return
	}

	p, ok := s.purchases[req.PurchaseID]
	if !ok || p.UserDocument != document {
		writeEnvelope(w, http.StatusNotFound, http.StatusNotFound,
			fmt.Sprintf("Purchase %d not found", req.PurchaseID), nil)
		return
	}
	if !p.Status.IsPayable() {
		writeEnvelope(w, http.StatusConflict, http.StatusConflict, "Purchase is not active", nil)
		return
	}

	s.started[p.ID] = OTP
	writeEnvelope(w, http.StatusCreated, http.StatusCreated, "Token dispatched",
		model.StartPaymentAck{PurchaseID: p.ID, Document: document})
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PurchaseID int64  `json:"purchaseId"`
		Token      string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "malformed request", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.purchases[req.PurchaseID]
	if !ok {
		writeEnvelope(w, http.StatusNotFound, http.StatusNotFound, "Purchase not found", nil)
		return
	}
	otp, pending := s.started[req.PurchaseID]
	if !pending || req.Token != otp {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "Invalid or expired token", nil)
		return
	}

	delete(s.started, req.PurchaseID)
	p.Status = model.PurchaseStatusFinished
	writeEnvelope(w, http.StatusCreated, http.StatusCreated, "Payment confirmed",
		model.StartPaymentAck{PurchaseID: p.ID, Document: p.UserDocument})
}
