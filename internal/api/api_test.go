package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/metrics"
	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/internal/session"
	"github.com/pigeonworks-llc/campus-budget/internal/store"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/pigeonworks-llc/campus-budget/pkg/linkwizard"
	"github.com/pigeonworks-llc/campus-budget/pkg/pathutil"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

type testServer struct {
	handler http.Handler
	store   *store.Store
	tokens  *session.TokenManager
	paths   *pathutil.PathResolver
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "api.db"))
	if err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	profile, err := mockdata.DefaultProfile()
	if err != nil {
		t.Fatalf("DefaultProfile() error: %v", err)
	}
	gen := mockdata.NewGenerator(profile, 42)
	gen.SetClock(func() time.Time { return fixedNow })

	tokens := session.NewTokenManager(st, time.Hour)
	paths := pathutil.New(pathutil.Config{DataRoot: dir})

	h := NewRouter(Deps{
		Store:     st,
		Tokens:    tokens,
		Generator: gen,
		Metrics:   metrics.New(),
		Paths:     paths,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Auth:      AuthRules{EmailDomain: "bravemail.uncp.edu", MinPassword: 6},
	})
	return &testServer{handler: h, store: st, tokens: tokens, paths: paths}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

func TestLogin(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name     string
		body     any
		raw      string
		expected int
		code     string
	}{
		{"valid", models.LoginRequest{Email: "sam@bravemail.uncp.edu", Password: "secret"}, "", http.StatusOK, ""},
		{"domain is case insensitive", models.LoginRequest{Email: "sam@BraveMail.uncp.edu", Password: "secret"}, "", http.StatusOK, ""},
		{"wrong domain", models.LoginRequest{Email: "sam@gmail.com", Password: "secret"}, "", http.StatusUnauthorized, "invalid_credentials"},
		{"domain only", models.LoginRequest{Email: "@bravemail.uncp.edu", Password: "secret"}, "", http.StatusUnauthorized, "invalid_credentials"},
		{"short password", models.LoginRequest{Email: "sam@bravemail.uncp.edu", Password: "12345"}, "", http.StatusUnauthorized, "invalid_credentials"},
		{"malformed json", nil, "{not json", http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tt.raw != "" {
				req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.raw))
				rec = httptest.NewRecorder()
				srv.handler.ServeHTTP(rec, req)
			} else {
				rec = srv.do(t, http.MethodPost, "/api/auth/login", tt.body, nil)
			}

			if rec.Code != tt.expected {
				t.Fatalf("Expected status %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
			if tt.code != "" {
				if got := decodeBody[ErrorResponse](t, rec); got.Error != tt.code {
					t.Errorf("Expected error code %q, got %q", tt.code, got.Error)
				}
				return
			}

			resp := decodeBody[models.AuthResponse](t, rec)
			if resp.Token == "" || resp.User.Name != "sam" || resp.User.HasLinked {
				t.Errorf("unexpected auth response: %+v", resp)
			}
		})
	}
}

func TestSignup(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name     string
		req      models.SignupRequest
		expected int
	}{
		{"valid", models.SignupRequest{Name: "Sam Locklear", Email: "sam@bravemail.uncp.edu", Password: "secret"}, http.StatusOK},
		{"blank name", models.SignupRequest{Name: "   ", Email: "sam@bravemail.uncp.edu", Password: "secret"}, http.StatusBadRequest},
		{"missing name", models.SignupRequest{Email: "sam@bravemail.uncp.edu", Password: "secret"}, http.StatusBadRequest},
		{"wrong domain", models.SignupRequest{Name: "Sam", Email: "sam@example.com", Password: "secret"}, http.StatusBadRequest},
		{"short password", models.SignupRequest{Name: "Sam", Email: "sam@bravemail.uncp.edu", Password: "123"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/auth/signup", tt.req, nil)
			if rec.Code != tt.expected {
				t.Fatalf("Expected status %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
			if tt.expected == http.StatusOK {
				resp := decodeBody[models.AuthResponse](t, rec)
				if resp.User.Name != "Sam Locklear" || resp.User.Settings.MonthlyBudget.IsZero() {
					t.Errorf("unexpected user: %+v", resp.User)
				}
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := setupTestServer(t)

	for _, path := range []string{"/api/auth/login", "/api/auth/signup", "/api/link", "/api/receipts/scan"} {
		t.Run(path, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, path, nil, nil)
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected status 405, got %d", rec.Code)
			}
		})
	}

	rec := srv.do(t, http.MethodPatch, "/api/transactions", nil, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PATCH /api/transactions: expected 405, got %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	srv := setupTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", rec.Code)
	}

	login := srv.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "sam@bravemail.uncp.edu", Password: "secret"}, nil)
	token := decodeBody[models.AuthResponse](t, login).Token
	auth := http.Header{"Authorization": []string{"Bearer " + token}}

	rec = srv.do(t, http.MethodPost, "/api/auth/logout", nil, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !decodeBody[models.SuccessResponse](t, rec).Success {
		t.Error("Expected success: true")
	}

	rec = srv.do(t, http.MethodPost, "/api/auth/logout", nil, auth)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected revoked token to be rejected, got %d", rec.Code)
	}
}

func validLinkRequest() linkwizard.LinkRequest {
	return linkwizard.LinkRequest{
		Personal: linkwizard.PersonalInfo{FirstName: "Sam", LastName: "Locklear", DateOfBirth: "2004-05-01", SSN: "123-45-6789"},
		Bank:     linkwizard.BankAccount{BankName: "First Bank", RoutingNumber: "053000196", AccountNumber: "12345678", AccountType: "checking"},
		Card:     linkwizard.Card{CardNumber: "4111111111111111", ExpiryDate: "08/27", CVC: "123", CardholderName: "Sam Locklear"},
	}
}

func TestLink(t *testing.T) {
	srv := setupTestServer(t)

	t.Run("valid payload returns demo data", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/link", validLinkRequest(), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeBody[models.LinkResponse](t, rec)
		if !resp.Success || len(resp.Data.Accounts) == 0 || len(resp.Data.Transactions) == 0 ||
			len(resp.Data.SavingsGoals) == 0 || len(resp.Data.Notes) == 0 {
			t.Errorf("incomplete link data: %+v", resp)
		}
	})

	t.Run("luhn failure is rejected", func(t *testing.T) {
		req := validLinkRequest()
		req.Card.CardNumber = "4111111111111112"
		rec := srv.do(t, http.MethodPost, "/api/link", req, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", rec.Code)
		}
		resp := decodeBody[ErrorResponse](t, rec)
		if resp.Error != "validation_failed" || resp.Fields["card.cardNumber"] != "Invalid card number" {
			t.Errorf("unexpected error response: %+v", resp)
		}
	})
}

func TestTransactionsCRUD(t *testing.T) {
	srv := setupTestServer(t)

	create := models.CreateTransactionRequest{
		AccountID:   "acc1",
		Type:        budget.TxnDebit,
		Amount:      mustDecimal(t, "12.50"),
		Category:    budget.CategoryDining,
		Description: "Campus cafe",
	}
	rec := srv.do(t, http.MethodPost, "/api/transactions", create, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[budget.Transaction](t, rec)
	if !strings.HasPrefix(created.ID, "txn_") || !created.CreatedAt.Equal(fixedNow) {
		t.Errorf("unexpected created transaction: %+v", created)
	}

	rec = srv.do(t, http.MethodGet, "/api/transactions", nil, nil)
	list := decodeBody[[]budget.Transaction](t, rec)
	if len(list) < 2 || list[0].ID != created.ID {
		t.Fatalf("created transaction not listed first: %d items", len(list))
	}

	desc := "Campus cafe latte"
	rec = srv.do(t, http.MethodPut, "/api/transactions/"+created.ID, budget.TransactionPatch{Description: &desc}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Update: expected 200, got %d", rec.Code)
	}
	updated := decodeBody[models.TransactionUpdate](t, rec)
	if updated.ID != created.ID || updated.Description == nil || *updated.Description != desc {
		t.Errorf("unexpected update echo: %+v", updated)
	}
	stored, err := srv.store.GetTransaction(created.ID)
	if err != nil || stored.Description != desc || stored.Category != budget.CategoryDining {
		t.Errorf("stored record not merged: %+v, %v", stored, err)
	}

	negative := mustDecimal(t, "-50")
	rec = srv.do(t, http.MethodPut, "/api/transactions/"+created.ID, budget.TransactionPatch{Amount: &negative}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Update with negative amount: expected 400, got %d", rec.Code)
	}
	if stored, _ := srv.store.GetTransaction(created.ID); !stored.Amount.Equal(mustDecimal(t, "12.50")) {
		t.Errorf("rejected update changed the stored amount: %s", stored.Amount)
	}

	rec = srv.do(t, http.MethodDelete, "/api/transactions/"+created.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Delete: expected 200, got %d", rec.Code)
	}
	if _, err := srv.store.GetTransaction(created.ID); err == nil {
		t.Error("transaction still stored after delete")
	}

	rec = srv.do(t, http.MethodDelete, "/api/transactions/missing", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Delete of unknown id: expected 200, got %d", rec.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"unknown category", "/api/transactions", `{"accountId":"a","type":"debit","amount":5,"category":"Yachts","description":"x"}`},
		{"zero amount", "/api/transactions", `{"accountId":"a","type":"debit","amount":0,"category":"Dining","description":"x"}`},
		{"transfer without target", "/api/transactions", `{"accountId":"a","type":"transfer","amount":5,"category":"Other","description":"x"}`},
		{"note without title", "/api/notes", `{"content":"x"}`},
		{"note with blank tag", "/api/notes", `{"title":"t","tags":["ok",""]}`},
		{"goal without target", "/api/savings-goals", `{"name":"Laptop","priority":"high"}`},
		{"goal with bad priority", "/api/savings-goals", `{"name":"Laptop","targetAmount":100,"priority":"urgent"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestNotesAndGoals(t *testing.T) {
	srv := setupTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/notes", models.CreateNoteRequest{Title: "Rent", Tags: []string{"housing", "monthly"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Create note: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	note := decodeBody[budget.Note](t, rec)
	if len(note.Tags) != 2 || note.Tags[0] != "housing" {
		t.Errorf("tags not preserved in order: %v", note.Tags)
	}

	rec = srv.do(t, http.MethodPost, "/api/savings-goals", models.CreateSavingsGoalRequest{
		Name:          "Laptop",
		TargetAmount:  mustDecimal(t, "100"),
		CurrentAmount: mustDecimal(t, "150"),
		Priority:      budget.PriorityHigh,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Over-allocated goal: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	goal := decodeBody[budget.SavingsGoal](t, rec)

	rec = srv.do(t, http.MethodGet, "/api/savings-goals", nil, nil)
	goals := decodeBody[[]budget.SavingsGoal](t, rec)
	if goals[0].ID != goal.ID {
		t.Errorf("created goal not listed first: %+v", goals[0])
	}

	withdrawn := mustDecimal(t, "-1")
	rec = srv.do(t, http.MethodPut, "/api/savings-goals/"+goal.ID, budget.SavingsGoalPatch{CurrentAmount: &withdrawn}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Update with negative currentAmount: expected 400, got %d", rec.Code)
	}
	stored, err := srv.store.GetSavingsGoal(goal.ID)
	if err != nil || !stored.CurrentAmount.Equal(mustDecimal(t, "150")) {
		t.Errorf("rejected update changed the stored goal: %+v, %v", stored, err)
	}
}

func TestReceiptScan(t *testing.T) {
	srv := setupTestServer(t)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR fake image body")
	rec := srv.upload(t, "receipt.png", png, map[string]string{"accountId": "acc1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[models.ScanResponse](t, rec)
	if resp.Draft.Type != budget.TxnDebit || resp.Draft.AccountID != "acc1" || !resp.Draft.Amount.IsPositive() {
		t.Errorf("unexpected draft: %+v", resp.Draft)
	}
	if _, err := budget.ParseCategory(string(resp.Draft.Category)); err != nil {
		t.Errorf("draft category %q is not a budget category", resp.Draft.Category)
	}
	data, err := os.ReadFile(resp.Receipt.FilePath)
	if err != nil || !bytes.Equal(data, png) {
		t.Errorf("stored file mismatch: %v", err)
	}
	if !strings.HasPrefix(resp.Receipt.FilePath, srv.paths.ReceiptsDir()) {
		t.Errorf("receipt stored outside receipts dir: %s", resp.Receipt.FilePath)
	}

	rec = srv.do(t, http.MethodDelete, "/api/receipts/"+resp.Receipt.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Delete: expected 200, got %d", rec.Code)
	}
	if srv.paths.FileExists(resp.Receipt.FilePath) {
		t.Error("receipt file left behind after delete")
	}

	rec = srv.upload(t, "notes.txt", []byte("just some text"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("text upload: expected 400, got %d", rec.Code)
	}
}

func (s *testServer) upload(t *testing.T, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	part, err := mw.CreateFormFile("receipt", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write(content)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/receipts/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	srv := setupTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health: %d %q", rec.Code, rec.Body.String())
	}

	srv.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "x@gmail.com", Password: "secret"}, nil)

	rec = srv.do(t, http.MethodGet, "/metrics", nil, nil)
	body := rec.Body.String()
	if !strings.Contains(body, `campus_budget_auth_attempts_total{kind="login",result="rejected"} 1`) {
		t.Errorf("auth counter missing from metrics output")
	}
	if !strings.Contains(body, `route="/api/auth/login"`) {
		t.Errorf("request counter missing route label")
	}
}
