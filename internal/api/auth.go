package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pigeonworks-llc/campus-budget/internal/metrics"
	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/internal/session"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
)

// AuthRules are the placeholder credential checks. They gate the demo and
// are not a security boundary.
type AuthRules struct {
	EmailDomain string
	MinPassword int
}

func (a AuthRules) emailOK(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(a.EmailDomain)) &&
		len(email) > len(a.EmailDomain)+1
}

func (a AuthRules) passwordOK(password string) bool {
	return len([]rune(password)) >= a.MinPassword
}

// AuthHandler handles login, signup and logout.
type AuthHandler struct {
	rules   AuthRules
	tokens  *session.TokenManager
	gen     *mockdata.Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(rules AuthRules, tokens *session.TokenManager, gen *mockdata.Generator, m *metrics.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{rules: rules, tokens: tokens, gen: gen, metrics: m, logger: logger}
}

// Login handles POST /api/auth/login.
// @Summary Log in
// @Description Accepts any password of the minimum length for an address on the campus domain
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.metrics.AuthAttempt("login", "invalid")
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if !h.rules.emailOK(req.Email) || !h.rules.passwordOK(req.Password) {
		h.metrics.AuthAttempt("login", "rejected")
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
		return
	}

	name := req.Email[:strings.Index(req.Email, "@")]
	h.respondWithSession(w, "login", h.gen.User(req.Email, name))
}

// Signup handles POST /api/auth/signup.
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "New account"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.metrics.AuthAttempt("signup", "invalid")
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if validateRequest(req) != nil || strings.TrimSpace(req.Name) == "" || !h.rules.emailOK(req.Email) || !h.rules.passwordOK(req.Password) {
		h.metrics.AuthAttempt("signup", "rejected")
		writeJSONError(w, http.StatusBadRequest, "invalid_signup", "Invalid signup data")
		return
	}

	h.respondWithSession(w, "signup", h.gen.User(req.Email, strings.TrimSpace(req.Name)))
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, kind string, user budget.User) {
	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to issue token")
		return
	}

	h.metrics.AuthAttempt(kind, "ok")
	h.logger.Info("session issued", "kind", kind, "email", user.Email)
	writeJSON(w, http.StatusOK, models.AuthResponse{User: user, Token: token})
}

// Logout handles POST /api/auth/logout. The route sits behind AuthMiddleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sc, ok := sessionFrom(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing session")
		return
	}
	if err := h.tokens.Revoke(sc.token); err != nil {
		h.logger.Error("failed to revoke token", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to revoke token")
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}
