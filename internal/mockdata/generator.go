package mockdata

import (
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/shopspring/decimal"
)

// Demo user shown by `budget-cli demo`.
const (
	DemoUserID    = "demo-user"
	DemoUserName  = "Demo Student"
	DemoUserEmail = "demo@bravemail.uncp.edu"
)

// NewID returns a unique id with the given prefix, e.g. "txn_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Generator produces demo data from a Profile. It is safe for concurrent use.
type Generator struct {
	profile *Profile

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator. A zero seed seeds from the clock.
func NewGenerator(p *Profile, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		profile: p,
		rng:     rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1))),
		now:     time.Now,
	}
}

// SetClock overrides the time source.
func (g *Generator) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Now returns the generator's current time.
func (g *Generator) Now() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now()
}

// User builds a freshly signed-up student who has not linked yet.
func (g *Generator) User(email, name string) budget.User {
	return budget.User{
		ID:       "1",
		Name:     name,
		Email:    email,
		Settings: budget.DefaultSettings(),
	}
}

// DemoUser is the already-linked user used in demo mode.
func (g *Generator) DemoUser() budget.User {
	u := g.User(DemoUserEmail, DemoUserName)
	u.ID = DemoUserID
	u.HasLinked = true
	return u
}

// Accounts returns the fixed demo accounts.
func (g *Generator) Accounts() []budget.Account {
	out := make([]budget.Account, 0, len(g.profile.Accounts))
	for _, a := range g.profile.Accounts {
		acc := budget.Account{
			ID:      a.ID,
			Name:    a.Name,
			Type:    budget.AccountType(a.Type),
			Last4:   a.Last4,
			Balance: money(a.Balance),
		}
		if a.CreditLimit != nil {
			v := money(*a.CreditLimit)
			acc.CreditLimit = &v
		}
		if a.AvailableCredit != nil {
			v := money(*a.AvailableCredit)
			acc.AvailableCredit = &v
		}
		out = append(out, acc)
	}
	return out
}

// Transactions returns randomized weekly debits plus the fixed income and
// transfers, newest first.
func (g *Generator) Transactions() []budget.Transaction {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.profile
	now := g.now()
	var txns []budget.Transaction

	for week := 0; week < p.Weeks; week++ {
		weekStart := now.AddDate(0, 0, -week*7)
		count := p.PerWeek.Min + g.rng.IntN(p.PerWeek.Max-p.PerWeek.Min+1)

		for i := 0; i < count; i++ {
			at := weekStart.AddDate(0, 0, -g.rng.IntN(7))
			cat := p.Categories[g.rng.IntN(len(p.Categories))]
			merchant := cat.Merchants[g.rng.IntN(len(cat.Merchants))]
			amount := cat.Min + g.rng.IntN(cat.Max-cat.Min)

			account := p.PrimaryAccount
			if g.rng.Float64() >= p.PrimaryShare {
				account = p.SecondaryAccount
			}

			txns = append(txns, budget.Transaction{
				ID:          "txn_" + strconv.Itoa(week) + "_" + strconv.Itoa(i),
				AccountID:   account,
				Type:        budget.TxnDebit,
				Amount:      decimal.NewFromInt(int64(amount)),
				Category:    budget.Category(cat.Name),
				Description: merchant,
				CreatedAt:   at,
			})
		}
	}

	for month := 0; month < p.Income.Count; month++ {
		txns = append(txns, budget.Transaction{
			ID:          "income_" + strconv.Itoa(month),
			AccountID:   p.Income.Account,
			Type:        budget.TxnCredit,
			Amount:      money(p.Income.Amount),
			Category:    budget.CategoryOther,
			Description: p.Income.Description,
			CreatedAt:   now.AddDate(0, 0, -(month*p.Income.EveryDays + p.Income.OffsetDays)),
		})
	}

	for _, t := range p.Transfers {
		txns = append(txns, budget.Transaction{
			ID:                  t.ID,
			AccountID:           t.From,
			Type:                budget.TxnTransfer,
			Amount:              money(t.Amount),
			Category:            budget.CategoryOther,
			Description:         t.Description,
			CreatedAt:           now.AddDate(0, 0, -t.DaysAgo),
			TransferToAccountID: t.To,
		})
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
	return txns
}

// SavingsGoals returns the fixed demo goals.
func (g *Generator) SavingsGoals() []budget.SavingsGoal {
	out := make([]budget.SavingsGoal, 0, len(g.profile.Goals))
	for _, gp := range g.profile.Goals {
		goal := budget.SavingsGoal{
			ID:            gp.ID,
			Name:          gp.Name,
			TargetAmount:  money(gp.Target),
			CurrentAmount: money(gp.Current),
			Priority:      budget.Priority(gp.Priority),
		}
		if gp.Deadline != "" {
			// Validated when the profile was parsed.
			d, _ := time.Parse(time.DateOnly, gp.Deadline)
			goal.Deadline = &d
		}
		out = append(out, goal)
	}
	return out
}

// Notes returns the fixed demo notes dated relative to now.
func (g *Generator) Notes() []budget.Note {
	now := g.Now()
	out := make([]budget.Note, 0, len(g.profile.Notes))
	for _, n := range g.profile.Notes {
		out = append(out, budget.Note{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Tags:      append([]string{}, n.Tags...),
			CreatedAt: now.AddDate(0, 0, -n.DaysAgo),
			Pinned:    n.Pinned,
		})
	}
	return out
}

// ScanResult is what the fake receipt recognition "read".
type ScanResult struct {
	Merchant string
	Amount   decimal.Decimal
	Label    string
	Date     time.Time
}

// ScanReceipt pretends to recognise a receipt. Label may fall outside the
// budget categories.
func (g *Generator) ScanReceipt() ScanResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.profile.Receipt
	cents := int64(r.Min*100 + g.rng.IntN((r.Max-r.Min)*100))
	return ScanResult{
		Merchant: r.Merchants[g.rng.IntN(len(r.Merchants))],
		Amount:   decimal.New(cents, -2),
		Label:    r.Labels[g.rng.IntN(len(r.Labels))],
		Date:     g.now(),
	}
}

// Duration returns a random duration in [min, max].
func (g *Generator) Duration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return min + time.Duration(g.rng.Int64N(int64(max-min)+1))
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
