package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pigeonworks-llc/campus-budget/internal/metrics"
	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/session"
	"github.com/pigeonworks-llc/campus-budget/internal/store"
	"github.com/pigeonworks-llc/campus-budget/pkg/pathutil"
)

// Deps are the collaborators the mock backend is built from.
type Deps struct {
	Store        *store.Store
	Tokens       *session.TokenManager
	Generator    *mockdata.Generator
	Metrics      *metrics.Metrics
	Paths        *pathutil.PathResolver
	Logger       *slog.Logger
	Auth         AuthRules
	LinkDelayMin time.Duration
	LinkDelayMax time.Duration
	// RequestLogging enables chi's request logger.
	RequestLogging bool
}

// NewRouter wires every handler onto a chi router.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}

	authHandler := NewAuthHandler(d.Auth, d.Tokens, d.Generator, m, logger)
	linkHandler := NewLinkHandler(d.Generator, d.LinkDelayMin, d.LinkDelayMax, m, logger)
	txnsHandler := NewTransactionsHandler(d.Store, d.Generator, logger)
	notesHandler := NewNotesHandler(d.Store, d.Generator, logger)
	goalsHandler := NewSavingsGoalsHandler(d.Store, d.Generator, logger)
	receiptsHandler := NewReceiptsHandler(d.Store, d.Generator, d.Paths, logger)

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if d.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(m.Middleware)

	r.MethodNotAllowed(methodNotAllowed)
	r.NotFound(notFound)

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/signup", authHandler.Signup)
			r.With(AuthMiddleware(d.Tokens)).Post("/logout", authHandler.Logout)
		})

		r.Post("/link", linkHandler.Link)

		// Transactions endpoints.
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", txnsHandler.List)
			r.Post("/", txnsHandler.Create)
			r.Put("/{id}", txnsHandler.Update)
			r.Delete("/{id}", txnsHandler.Delete)
		})

		// Notes endpoints.
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notesHandler.List)
			r.Post("/", notesHandler.Create)
			r.Put("/{id}", notesHandler.Update)
			r.Delete("/{id}", notesHandler.Delete)
		})

		// Savings goals endpoints.
		r.Route("/savings-goals", func(r chi.Router) {
			r.Get("/", goalsHandler.List)
			r.Post("/", goalsHandler.Create)
			r.Put("/{id}", goalsHandler.Update)
			r.Delete("/{id}", goalsHandler.Delete)
		})

		// Receipts endpoints.
		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", receiptsHandler.List)
			r.Post("/scan", receiptsHandler.Scan)
			r.Delete("/{id}", receiptsHandler.Delete)
		})
	})

	// Health check endpoint.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}
