package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// demoCmd seeds local state without talking to the backend.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Log in as the demo student with generated data",
	Long: `Replace local state with the demo student, linked accounts, twelve weeks
of generated transactions, savings goals, notes and a few bill reminders.
No network access is needed.

Set DEMO_SEED for repeatable data and DEMO_PROFILE to use your own YAML
profile.`,
	Run: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	profile, err := mockdata.LoadProfile(a.cfg.Demo.ProfilePath)
	exitOnError(err, "failed to load demo profile")

	gen := mockdata.NewGenerator(profile, a.cfg.Demo.Seed)
	now := gen.Now()

	a.clearToken()
	a.state.Logout()
	a.state.Login(gen.DemoUser())
	a.state.SetAccounts(gen.Accounts())
	a.state.SetTransactions(gen.Transactions())
	a.state.SetSavingsGoals(gen.SavingsGoals())
	a.state.SetNotes(gen.Notes())
	a.state.SetBills(demoBills(now))

	snap := a.state.Snapshot()
	slog.Info("Demo data seeded", "transactions", len(snap.Transactions), "seed", a.cfg.Demo.Seed)
	fmt.Printf("Logged in as %s with %d accounts, %d transactions, %d goals, %d notes and %d bills.\n",
		snap.User.Name, len(snap.Accounts), len(snap.Transactions), len(snap.SavingsGoals), len(snap.Notes), len(snap.Bills))
}

func demoBills(now time.Time) []budget.Bill {
	day := func(offset int) time.Time {
		y, m, d := now.Date()
		return time.Date(y, m, d+offset, 0, 0, 0, 0, now.Location())
	}
	return []budget.Bill{
		budget.NewBill(mockdata.NewID("bill"), "Rent", decimal.NewFromInt(550), budget.CategoryRent, day(2), budget.FrequencyMonthly, 3, now),
		budget.NewBill(mockdata.NewID("bill"), "Phone", decimal.RequireFromString("45.99"), budget.CategorySubscriptions, day(9), budget.FrequencyMonthly, 3, now),
		budget.NewBill(mockdata.NewID("bill"), "Spotify Student", decimal.RequireFromString("5.99"), budget.CategorySubscriptions, day(-1), budget.FrequencyMonthly, 2, now),
		budget.NewBill(mockdata.NewID("bill"), "Lab Fee", decimal.NewFromInt(75), budget.CategorySchoolBooks, day(20), budget.FrequencyOneTime, 7, now),
	}
}
