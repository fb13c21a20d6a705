package budget

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	insightWindow    = 30 * 24 * time.Hour
	insightWindowDay = 30
	trendWeeks       = 4
)

// CategorySpend is one row of the category breakdown.
type CategorySpend struct {
	Category   Category        `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Average    decimal.Decimal `json:"avgPerTransaction"`
	Percentage float64         `json:"percentage"` // share of transaction count, 0..100
}

// DaySpend buckets spending by weekday regardless of which week it fell in.
type DaySpend struct {
	Day     time.Weekday    `json:"dayIndex"`
	Name    string          `json:"day"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"avg"`
}

// WeekSpend is one Sunday-aligned calendar week of the trend.
type WeekSpend struct {
	Label string          `json:"week"`
	Start time.Time       `json:"weekStart"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// RecommendationKind classifies a recommendation for display.
type RecommendationKind string

const (
	RecommendWarning RecommendationKind = "warning"
	RecommendAlert   RecommendationKind = "alert"
	RecommendSuccess RecommendationKind = "success"
	RecommendInfo    RecommendationKind = "info"
)

// Recommendation is a rule-based tip produced by Insights.
type Recommendation struct {
	Kind        RecommendationKind `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
}

// Insights summarises the last 30 days of debit spending.
type Insights struct {
	TotalSpent        decimal.Decimal  `json:"totalSpent"`
	AverageDaily      decimal.Decimal  `json:"avgDailySpend"`
	TransactionCount  int              `json:"transactionCount"`
	TopCategory       *CategorySpend   `json:"topCategory,omitempty"`
	MostExpensiveDay  DaySpend         `json:"mostExpensiveDay"`
	LeastExpensiveDay DaySpend         `json:"leastExpensiveDay"`
	Categories        []CategorySpend  `json:"categorySpending"`
	Weekdays          []DaySpend       `json:"dayOfWeekSpending"`
	Weeks             []WeekSpend      `json:"weeklyTrend"`
	Trend             decimal.Decimal  `json:"spendingTrend"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// RecentDebits returns debit transactions created at or after now-30 days.
func RecentDebits(txns []Transaction, now time.Time) []Transaction {
	cutoff := now.Add(-insightWindow)
	out := []Transaction{}
	for _, t := range txns {
		if t.Type == TxnDebit && !t.CreatedAt.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// ComputeInsights builds the 30-day insight report at now.
func ComputeInsights(txns []Transaction, now time.Time) Insights {
	recent := RecentDebits(txns, now)

	in := Insights{
		TotalSpent:       sumAmounts(recent),
		TransactionCount: len(recent),
		Categories:       CategoryBreakdown(recent),
		Weekdays:         WeekdayBreakdown(recent, now.Location()),
		Weeks:            WeeklyTrend(recent, now),
	}
	in.AverageDaily = in.TotalSpent.Div(decimal.NewFromInt(insightWindowDay))
	if len(in.Categories) > 0 {
		top := in.Categories[0]
		in.TopCategory = &top
	}

	in.MostExpensiveDay = in.Weekdays[0]
	in.LeastExpensiveDay = in.Weekdays[0]
	for _, d := range in.Weekdays[1:] {
		if d.Total.GreaterThan(in.MostExpensiveDay.Total) {
			in.MostExpensiveDay = d
		}
		if d.Total.LessThan(in.LeastExpensiveDay.Total) {
			in.LeastExpensiveDay = d
		}
	}

	last := len(in.Weeks) - 1
	in.Trend = in.Weeks[last].Total.Sub(in.Weeks[last-1].Total)
	in.Recommendations = recommend(in)
	return in
}

// CategoryBreakdown groups txns by category. Categories with no spending are
// dropped; the rest are ordered by total, largest first.
func CategoryBreakdown(txns []Transaction) []CategorySpend {
	out := []CategorySpend{}
	for _, c := range Categories {
		row := CategorySpend{Category: c, Total: decimal.Zero, Average: decimal.Zero}
		for _, t := range txns {
			if t.Category == c {
				row.Total = row.Total.Add(t.Amount)
				row.Count++
			}
		}
		if !row.Total.IsPositive() {
			continue
		}
		row.Average = average(row.Total, row.Count)
		row.Percentage = percentage(row.Count, len(txns))
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// WeekdayBreakdown returns seven buckets, Sunday first.
func WeekdayBreakdown(txns []Transaction, loc *time.Location) []DaySpend {
	days := make([]DaySpend, 7)
	for i := range days {
		wd := time.Weekday(i)
		days[i] = DaySpend{Day: wd, Name: wd.String(), Total: decimal.Zero, Average: decimal.Zero}
	}
	for _, t := range txns {
		d := &days[t.CreatedAt.In(loc).Weekday()]
		d.Total = d.Total.Add(t.Amount)
		d.Count++
	}
	for i := range days {
		days[i].Average = average(days[i].Total, days[i].Count)
	}
	return days
}

// WeeklyTrend buckets txns into the four most recent Sunday-aligned weeks,
// oldest first.
func WeeklyTrend(txns []Transaction, now time.Time) []WeekSpend {
	weeks := make([]WeekSpend, trendWeeks)
	for i := 0; i < trendWeeks; i++ {
		start := startOfWeek(now.AddDate(0, 0, -7*i))
		end := start.AddDate(0, 0, 7)
		w := WeekSpend{
			Label: fmt.Sprintf("Week %d", trendWeeks-i),
			Start: start,
			Total: decimal.Zero,
		}
		for _, t := range txns {
			at := t.CreatedAt.In(now.Location())
			if !at.Before(start) && at.Before(end) {
				w.Total = w.Total.Add(t.Amount)
				w.Count++
			}
		}
		weeks[trendWeeks-1-i] = w
	}
	return weeks
}

func recommend(in Insights) []Recommendation {
	recs := []Recommendation{}

	if top := in.TopCategory; top != nil && top.Percentage > 40 {
		recs = append(recs, Recommendation{
			Kind:  RecommendWarning,
			Title: fmt.Sprintf("High %s Spending", top.Category),
			Description: fmt.Sprintf("%.1f%% of your transactions are %s. Consider setting a specific budget for this category.",
				top.Percentage, strings.ToLower(string(top.Category))),
		})
	}

	switch {
	case in.Trend.IsPositive():
		recs = append(recs, Recommendation{
			Kind:        RecommendAlert,
			Title:       "Increasing Spending Trend",
			Description: fmt.Sprintf("Your spending increased by $%s this week. Review your recent purchases to stay on track.", in.Trend.StringFixed(2)),
		})
	case in.Trend.LessThan(decimal.NewFromInt(-10)):
		recs = append(recs, Recommendation{
			Kind:        RecommendSuccess,
			Title:       "Great Spending Control!",
			Description: fmt.Sprintf("You reduced spending by $%s this week. Keep up the good work!", in.Trend.Abs().StringFixed(2)),
		})
	}

	if day := in.MostExpensiveDay; day.Total.GreaterThan(in.AverageDaily.Mul(decimal.NewFromInt(2))) {
		recs = append(recs, Recommendation{
			Kind:        RecommendInfo,
			Title:       fmt.Sprintf("%s Spending Pattern", day.Name),
			Description: fmt.Sprintf("You tend to spend more on %ss ($%s avg). Plan ahead to avoid overspending.", day.Name, day.Average.StringFixed(2)),
		})
	}

	return recs
}

func sumAmounts(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}
