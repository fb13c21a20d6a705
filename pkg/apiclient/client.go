// Package apiclient is a typed client for the campus-budget mock backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/pigeonworks-llc/campus-budget/pkg/linkwizard"
)

// ClientConfig represents the configuration for the API client.
type ClientConfig struct {
	APIURL      string
	AccessToken string
	Timeout     time.Duration // Default: 30 seconds
}

// Client talks to the mock backend. Calls are never retried.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s - %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Code)
}

// NewClient creates a new API client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(config.APIURL, "/"),
		accessToken: config.AccessToken,
	}
}

// SetAccessToken sets the bearer token for later requests.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// AccessToken returns the current bearer token.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// Login authenticates and keeps the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.accessToken = resp.Token
	return &resp, nil
}

// Signup creates an account and keeps the returned token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	req := models.SignupRequest{Name: name, Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	c.accessToken = resp.Token
	return &resp, nil
}

// Logout revokes the current token.
func (c *Client) Logout(ctx context.Context) error {
	var resp models.SuccessResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, &resp); err != nil {
		return err
	}
	c.accessToken = ""
	return nil
}

// Link submits the reviewed wizard payload. The backend answers after a
// simulated delay.
func (c *Client) Link(ctx context.Context, req linkwizard.LinkRequest) (*models.LinkData, error) {
	var resp models.LinkResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/link", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ListTransactions lists transactions.
func (c *Client) ListTransactions(ctx context.Context) ([]budget.Transaction, error) {
	var txns []budget.Transaction
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions", nil, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// CreateTransaction creates a transaction.
func (c *Client) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*budget.Transaction, error) {
	var txn budget.Transaction
	if err := c.doJSON(ctx, http.MethodPost, "/api/transactions", req, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListNotes lists notes.
func (c *Client) ListNotes(ctx context.Context) ([]budget.Note, error) {
	var notes []budget.Note
	if err := c.doJSON(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*budget.Note, error) {
	var note budget.Note
	if err := c.doJSON(ctx, http.MethodPost, "/api/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ListSavingsGoals lists savings goals.
func (c *Client) ListSavingsGoals(ctx context.Context) ([]budget.SavingsGoal, error) {
	var goals []budget.SavingsGoal
	if err := c.doJSON(ctx, http.MethodGet, "/api/savings-goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateSavingsGoal creates a savings goal.
func (c *Client) CreateSavingsGoal(ctx context.Context, req models.CreateSavingsGoalRequest) (*budget.SavingsGoal, error) {
	var goal budget.SavingsGoal
	if err := c.doJSON(ctx, http.MethodPost, "/api/savings-goals", req, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// ScanReceipt uploads a receipt image and returns the draft transaction.
func (c *Client) ScanReceipt(ctx context.Context, filename string, content io.Reader, accountID string) (*models.ScanResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if accountID != "" {
		if err := mw.WriteField("accountId", accountID); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}
	part, err := mw.CreateFormFile("receipt", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/receipts/scan", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp models.ScanResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseError turns an error response into an *APIError.
func parseError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr.Message = "failed to read error response"
		return apiErr
	}

	var errResp struct {
		Error            string            `json:"error"`
		ErrorDescription string            `json:"error_description"`
		Fields           map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Code = errResp.Error
	apiErr.Message = errResp.ErrorDescription
	apiErr.Fields = errResp.Fields
	return apiErr
}
