package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/state"
	"github.com/pigeonworks-llc/campus-budget/internal/store"
	"github.com/pigeonworks-llc/campus-budget/pkg/apiclient"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/pigeonworks-llc/campus-budget/pkg/config"
	"github.com/pigeonworks-llc/campus-budget/pkg/db"
	"github.com/pigeonworks-llc/campus-budget/pkg/pathutil"
	"github.com/shopspring/decimal"
)

// app is what every command works against: configuration, the rehydrated
// client store and the storage it writes through to.
type app struct {
	cfg     *config.Config
	paths   *pathutil.PathResolver
	state   *state.Store
	sqlite  *db.SnapshotRepository
	closers []func() error
}

// openApp loads configuration, opens the configured storage backend and
// rehydrates the client store. It exits on failure.
func openApp() *app {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("storage.dataRoot"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	a := &app{
		cfg: cfg,
		paths: pathutil.New(pathutil.Config{
			DataRoot:    cfg.Storage.DataRoot,
			BoltPath:    cfg.Storage.BoltPath,
			SQLitePath:  cfg.Storage.DBPath,
			ReceiptsDir: cfg.Storage.ReceiptsDir,
			LedgerDir:   cfg.Storage.LedgerDir,
		}),
	}

	var persister state.Persister
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		slog.Debug("Opening database", "driver", "sqlite", "path", a.paths.SQLitePath())
		conn, err := db.Open(a.paths.SQLitePath())
		exitOnError(err, "failed to open database")
		a.closers = append(a.closers, conn.Close)
		a.sqlite = db.NewSnapshotRepository(conn)
		persister = a.sqlite
	default:
		slog.Debug("Opening database", "driver", "bolt", "path", a.paths.BoltPath())
		st, err := store.New(a.paths.BoltPath())
		exitOnError(err, "failed to open database")
		a.closers = append(a.closers, st.Close)
		persister = store.NewSnapshotStore(st)
	}

	a.state = state.New(persister, slog.Default())
	if err := a.state.Open(context.Background()); err != nil {
		a.Close()
		exitOnError(err, "failed to load saved state")
	}
	return a
}

// Close reports any write-through failure and closes storage.
func (a *app) Close() {
	if err := a.state.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: last change was not saved: %v\n", err)
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}
}

// client returns an API client carrying the saved bearer token, if any.
func (a *app) client() *apiclient.Client {
	token, err := os.ReadFile(a.paths.TokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read saved token", "error", err)
	}
	return apiclient.NewClient(apiclient.ClientConfig{
		APIURL:      a.cfg.API.URL,
		AccessToken: strings.TrimSpace(string(token)),
		Timeout:     a.cfg.API.Timeout + a.cfg.Link.DelayMax,
	})
}

func (a *app) saveToken(token string) error {
	if err := a.paths.EnsureParentDir(a.paths.TokenPath()); err != nil {
		return err
	}
	return os.WriteFile(a.paths.TokenPath(), []byte(token), 0o600)
}

func (a *app) clearToken() {
	if err := os.Remove(a.paths.TokenPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove saved token", "error", err)
	}
}

// requireLogin exits unless someone is logged in and returns a copy of
// that user.
func (a *app) requireLogin() budget.User {
	u, err := currentUser(a.state.Snapshot())
	exitOnError(err, "not logged in")
	return u
}

// currentUser treats a snapshot flagged as authenticated but carrying no
// user as logged out.
func currentUser(snap budget.Snapshot) (budget.User, error) {
	if !snap.IsAuthenticated || snap.User == nil {
		return budget.User{}, errors.New("run `budget-cli login` or `budget-cli demo` first")
	}
	return *snap.User, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d.Round(2), nil
}

// parseDate accepts YYYY-MM-DD in local time. An empty string yields the
// zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

func parseEnum[T ~string](s string, valid func(T) bool, what string) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if !valid(v) {
		return "", fmt.Errorf("invalid %s %q", what, s)
	}
	return v, nil
}

func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
