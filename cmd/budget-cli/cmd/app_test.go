package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/pigeonworks-llc/campus-budget/pkg/linkwizard"
	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"12.5", "12.5", false},
		{"$8.999", "9", false},
		{" 3 ", "3", false},
		{"abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMoney(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMoney(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("parseMoney(%q) = %s, expected %s", tt.in, got, tt.expected)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-02-29")
	if err != nil {
		t.Fatalf("parseDate() error: %v", err)
	}
	if got.Location() != time.Local || got.Day() != 29 || got.Month() != time.February {
		t.Errorf("parseDate() = %v", got)
	}

	if z, err := parseDate(""); err != nil || !z.IsZero() {
		t.Errorf("parseDate(\"\") = %v, %v", z, err)
	}
	if _, err := parseDate("02/29/2024"); err == nil {
		t.Error("expected error for US date format")
	}
}

func TestParseEnum(t *testing.T) {
	got, err := parseEnum(" Weekly", budget.Frequency.Valid, "frequency")
	if err != nil || got != budget.FrequencyWeekly {
		t.Errorf("parseEnum() = %q, %v", got, err)
	}
	if _, err := parseEnum("fortnightly", budget.Frequency.Valid, "frequency"); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

func TestMoney(t *testing.T) {
	if got := money(decimal.RequireFromString("-4.5")); got != "-$4.50" {
		t.Errorf("money(-4.5) = %s", got)
	}
	if got := money(decimal.NewFromInt(12)); got != "$12.00" {
		t.Errorf("money(12) = %s", got)
	}
}

func TestWalkWizard(t *testing.T) {
	personal := linkwizard.PersonalInfo{FirstName: "Sam", LastName: "Locklear", DateOfBirth: "2004-05-01", SSN: "123-45-6789"}
	bank := linkwizard.BankAccount{BankName: "First Bank", RoutingNumber: "053000196", AccountNumber: "12345678", AccountType: "checking"}
	card := linkwizard.Card{CardNumber: "4111111111111111", ExpiryDate: "08/30", CVC: "123", CardholderName: "Sam Locklear"}

	req, err := walkWizard(personal, bank, card)
	if err != nil {
		t.Fatalf("walkWizard() error: %v", err)
	}
	if req.Card.CardNumber != card.CardNumber || req.Personal.FirstName != "Sam" {
		t.Errorf("walkWizard() = %+v", req)
	}

	card.CardNumber = "4111111111111112"
	_, err = walkWizard(personal, bank, card)
	var fe linkwizard.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fe["cardNumber"]; !ok {
		t.Errorf("expected cardNumber error, got %v", fe)
	}
}

func TestDemoBillsCoverEveryUrgency(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.Local)
	seen := map[budget.Urgency]bool{}
	for _, b := range demoBills(now) {
		seen[budget.Classify(b, now)] = true
	}
	for _, u := range []budget.Urgency{budget.UrgencyOverdue, budget.UrgencyUrgent, budget.UrgencyNormal} {
		if !seen[u] {
			t.Errorf("demo bills have no %s bill", u)
		}
	}
}

func TestFundPatch(t *testing.T) {
	goal := budget.SavingsGoal{ID: "g1", Name: "Laptop", TargetAmount: decimal.NewFromInt(200), CurrentAmount: decimal.NewFromInt(100)}

	tests := []struct {
		amount   int64
		expected int64
		wantErr  bool
	}{
		{50, 150, false},
		{250, 350, false},
		{-100, 0, false},
		{-500, 0, true},
	}

	for _, tt := range tests {
		patch, err := fundPatch(goal, decimal.NewFromInt(tt.amount))
		if (err != nil) != tt.wantErr {
			t.Fatalf("fundPatch(%d) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
		}
		if tt.wantErr {
			continue
		}
		if got := *patch.CurrentAmount; !got.Equal(decimal.NewFromInt(tt.expected)) {
			t.Errorf("fundPatch(%d) = %s, expected %d", tt.amount, got, tt.expected)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	if _, err := currentUser(budget.Snapshot{IsAuthenticated: true}); err == nil {
		t.Error("expected error for an authenticated snapshot with no user")
	}
	if _, err := currentUser(budget.Snapshot{User: &budget.User{ID: "u1"}}); err == nil {
		t.Error("expected error when not authenticated")
	}

	snap := budget.Snapshot{IsAuthenticated: true, User: &budget.User{ID: "u1", Name: "Sam"}}
	u, err := currentUser(snap)
	if err != nil || u.ID != "u1" {
		t.Fatalf("currentUser() = %+v, %v", u, err)
	}
	u.HasLinked = true
	if snap.User.HasLinked {
		t.Error("currentUser() returned the snapshot's user instead of a copy")
	}
}

func TestApplySettings(t *testing.T) {
	str := func(s string) *string { return &s }
	yes := true
	base := budget.DefaultSettings()

	got, err := applySettings(base, settingsChange{monthly: str("950"), lock: &yes, currency: str(" eur")})
	if err != nil {
		t.Fatalf("applySettings() error: %v", err)
	}
	if !got.MonthlyBudget.Equal(decimal.NewFromInt(950)) || !got.LockSavings || got.Currency != "EUR" {
		t.Errorf("applySettings() = %+v", got)
	}
	if !got.WeeklyBudget.Equal(base.WeeklyBudget) || got.PreventSavingsForCard {
		t.Errorf("unchanged settings were touched: %+v", got)
	}

	for _, c := range []settingsChange{
		{weekly: str("-10")},
		{monthly: str("lots")},
		{currency: str("dollars")},
		{currency: str("U5D")},
	} {
		if _, err := applySettings(base, c); err == nil {
			t.Errorf("applySettings(%+v) expected error", c)
		}
	}
	if !(settingsChange{}).empty() {
		t.Error("zero settingsChange should be empty")
	}
}
