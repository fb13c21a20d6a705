// Package mockdata generates the demo user, accounts, transactions, goals
// and notes served by the mock backend.
package mockdata

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var defaultProfile []byte

// Range is a half-open integer range [Min, Max).
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// CategoryProfile drives the random debits for one category.
type CategoryProfile struct {
	Name      string   `yaml:"name"`
	Min       int      `yaml:"min"`
	Max       int      `yaml:"max"`
	Merchants []string `yaml:"merchants"`
}

// IncomeProfile describes the recurring pay deposits.
type IncomeProfile struct {
	Description string  `yaml:"description"`
	Account     string  `yaml:"account"`
	Amount      float64 `yaml:"amount"`
	Count       int     `yaml:"count"`
	EveryDays   int     `yaml:"every_days"`
	OffsetDays  int     `yaml:"offset_days"`
}

// TransferProfile is a fixed transfer between two accounts.
type TransferProfile struct {
	ID          string  `yaml:"id"`
	Description string  `yaml:"description"`
	From        string  `yaml:"from"`
	To          string  `yaml:"to"`
	Amount      float64 `yaml:"amount"`
	DaysAgo     int     `yaml:"days_ago"`
}

// AccountProfile is a fixed demo account.
type AccountProfile struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Type            string   `yaml:"type"`
	Last4           string   `yaml:"last4"`
	Balance         float64  `yaml:"balance"`
	CreditLimit     *float64 `yaml:"credit_limit"`
	AvailableCredit *float64 `yaml:"available_credit"`
}

// GoalProfile is a fixed savings goal. Deadline is YYYY-MM-DD.
type GoalProfile struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Target   float64 `yaml:"target"`
	Current  float64 `yaml:"current"`
	Deadline string  `yaml:"deadline"`
	Priority string  `yaml:"priority"`
}

// NoteProfile is a fixed note dated relative to now.
type NoteProfile struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Tags    []string `yaml:"tags"`
	DaysAgo int      `yaml:"days_ago"`
	Pinned  bool     `yaml:"pinned"`
}

// ReceiptProfile drives the fake receipt recognition.
type ReceiptProfile struct {
	Merchants []string `yaml:"merchants"`
	Labels    []string `yaml:"labels"`
	Min       int      `yaml:"min"`
	Max       int      `yaml:"max"`
}

// Profile is the complete demo data description.
type Profile struct {
	Weeks            int               `yaml:"weeks"`
	PerWeek          Range             `yaml:"per_week"`
	PrimaryAccount   string            `yaml:"primary_account"`
	SecondaryAccount string            `yaml:"secondary_account"`
	PrimaryShare     float64           `yaml:"primary_share"`
	Categories       []CategoryProfile `yaml:"categories"`
	Income           IncomeProfile     `yaml:"income"`
	Transfers        []TransferProfile `yaml:"transfers"`
	Accounts         []AccountProfile  `yaml:"accounts"`
	Goals            []GoalProfile     `yaml:"goals"`
	Notes            []NoteProfile     `yaml:"notes"`
	Receipt          ReceiptProfile    `yaml:"receipt"`
}

// DefaultProfile returns the embedded profile.
func DefaultProfile() (*Profile, error) {
	return ParseProfile(defaultProfile)
}

// LoadProfile reads a profile from path, or the embedded one when path is empty.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes and validates a YAML profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every range is non-empty and every enum value is known.
func (p *Profile) Validate() error {
	var errs []error

	if p.Weeks < 0 {
		errs = append(errs, fmt.Errorf("weeks must not be negative"))
	}
	if p.PerWeek.Min < 0 || p.PerWeek.Max < p.PerWeek.Min {
		errs = append(errs, fmt.Errorf("per_week range [%d, %d] is invalid", p.PerWeek.Min, p.PerWeek.Max))
	}
	if p.Weeks > 0 && len(p.Categories) == 0 {
		errs = append(errs, fmt.Errorf("at least one category is required"))
	}
	for _, c := range p.Categories {
		if !budget.Category(c.Name).Valid() {
			errs = append(errs, fmt.Errorf("category %q is not a budget category", c.Name))
		}
		if c.Min < 0 || c.Max <= c.Min {
			errs = append(errs, fmt.Errorf("category %q amount range [%d, %d) is empty", c.Name, c.Min, c.Max))
		}
		if len(c.Merchants) == 0 {
			errs = append(errs, fmt.Errorf("category %q has no merchants", c.Name))
		}
	}
	for _, a := range p.Accounts {
		if !budget.AccountType(a.Type).Valid() {
			errs = append(errs, fmt.Errorf("account %q has invalid type %q", a.ID, a.Type))
		}
	}
	for _, g := range p.Goals {
		if !budget.Priority(g.Priority).Valid() {
			errs = append(errs, fmt.Errorf("goal %q has invalid priority %q", g.ID, g.Priority))
		}
		if g.Deadline != "" {
			if _, err := time.Parse(time.DateOnly, g.Deadline); err != nil {
				errs = append(errs, fmt.Errorf("goal %q deadline: %w", g.ID, err))
			}
		}
	}
	if len(p.Receipt.Merchants) == 0 || len(p.Receipt.Labels) == 0 || p.Receipt.Max <= p.Receipt.Min {
		errs = append(errs, fmt.Errorf("receipt profile needs merchants, labels and a non-empty amount range"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid demo profile: %w", errors.Join(errs...))
	}
	return nil
}
