package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/spf13/cobra"
)

var (
	settingsWeekly   string
	settingsMonthly  string
	settingsLock     bool
	settingsNoCard   bool
	settingsCurrency string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change budget settings",
	Long: `Show the current budget settings. Pass any flag to change it:

  budget-cli settings --monthly 900 --lock-savings`,
	Args: cobra.NoArgs,
	Run:  runSettings,
}

func init() {
	f := settingsCmd.Flags()
	f.StringVar(&settingsWeekly, "weekly", "", "Weekly budget")
	f.StringVar(&settingsMonthly, "monthly", "", "Monthly budget")
	f.BoolVar(&settingsLock, "lock-savings", false, "Lock savings goals against withdrawals")
	f.BoolVar(&settingsNoCard, "prevent-card-savings", false, "Do not fund savings from credit cards")
	f.StringVar(&settingsCurrency, "currency", "", "Three-letter currency code")
}

func runSettings(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()
	user := a.requireLogin()

	change := settingsChange{
		weekly:   changedString(cmd, "weekly", settingsWeekly),
		monthly:  changedString(cmd, "monthly", settingsMonthly),
		lock:     changedBool(cmd, "lock-savings", settingsLock),
		noCard:   changedBool(cmd, "prevent-card-savings", settingsNoCard),
		currency: changedString(cmd, "currency", settingsCurrency),
	}
	if !change.empty() {
		s, err := applySettings(user.Settings, change)
		exitOnError(err, "invalid settings")
		user.Settings = s
		a.state.SetUser(user)
		fmt.Println("Settings saved.")
	}

	s := user.Settings
	fmt.Printf("Weekly budget:         %s\n", money(s.WeeklyBudget))
	fmt.Printf("Monthly budget:        %s\n", money(s.MonthlyBudget))
	fmt.Printf("Lock savings:          %t\n", s.LockSavings)
	fmt.Printf("No savings from cards: %t\n", s.PreventSavingsForCard)
	fmt.Printf("Currency:              %s\n", s.Currency)
}

// settingsChange holds the flags that were set; nil means unchanged.
type settingsChange struct {
	weekly, monthly, currency *string
	lock, noCard              *bool
}

func (c settingsChange) empty() bool {
	return c.weekly == nil && c.monthly == nil && c.currency == nil && c.lock == nil && c.noCard == nil
}

func changedString(cmd *cobra.Command, name, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func changedBool(cmd *cobra.Command, name string, v bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func applySettings(s budget.Settings, c settingsChange) (budget.Settings, error) {
	if c.weekly != nil {
		d, err := parseMoney(*c.weekly)
		if err != nil {
			return s, err
		}
		if d.IsNegative() {
			return s, errors.New("weekly budget must not be negative")
		}
		s.WeeklyBudget = d
	}
	if c.monthly != nil {
		d, err := parseMoney(*c.monthly)
		if err != nil {
			return s, err
		}
		if d.IsNegative() {
			return s, errors.New("monthly budget must not be negative")
		}
		s.MonthlyBudget = d
	}
	if c.lock != nil {
		s.LockSavings = *c.lock
	}
	if c.noCard != nil {
		s.PreventSavingsForCard = *c.noCard
	}
	if c.currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*c.currency))
		if len(code) != 3 || strings.Trim(code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
			return s, fmt.Errorf("invalid currency %q", *c.currency)
		}
		s.Currency = budget.Currency(code)
	}
	return s, nil
}
