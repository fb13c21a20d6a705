package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/spf13/cobra"
)

var reportJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show this month's budget, spending and what is left",
	Args:  cobra.NoArgs,
	Run:   runStats,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Analyse the last 30 days of spending",
	Args:  cobra.NoArgs,
	Run:   runInsights,
}

func init() {
	statsCmd.Flags().BoolVar(&reportJSON, "json", false, "Print JSON")
	insightsCmd.Flags().BoolVar(&reportJSON, "json", false, "Print JSON")
}

func runStats(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	snap := a.state.Snapshot()
	now := time.Now()
	m := budget.MonthlyStats(snap.Transactions, snap.User, now)
	bills := budget.UrgentBills(snap.Bills, now)
	overdue := budget.OverdueBills(snap.Bills, now)

	if reportJSON {
		printJSON(struct {
			budget.Monthly
			UrgentBills  int `json:"urgentBills"`
			OverdueBills int `json:"overdueBills"`
		}{m, len(bills), len(overdue)})
		return
	}

	fmt.Printf("\n=== %s ===\n", now.Format("January 2006"))
	fmt.Printf("Budget:     %s\n", money(m.Budget))
	fmt.Printf("Spent:      %s\n", money(m.Spent))
	fmt.Printf("Remaining:  %s\n", money(m.Remaining))
	if m.OverBudget() {
		fmt.Println("You are over budget this month.")
	}
	if len(overdue)+len(bills) > 0 {
		fmt.Printf("Bills:      %d overdue, %d due soon\n", len(overdue), len(bills))
	}
	fmt.Println()
}

func runInsights(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	in := budget.ComputeInsights(a.state.Snapshot().Transactions, time.Now())
	if reportJSON {
		printJSON(in)
		return
	}

	fmt.Println("\n=== Last 30 Days ===")
	fmt.Printf("Total spent:       %s\n", money(in.TotalSpent))
	fmt.Printf("Daily average:     %s\n", money(in.AverageDaily))
	fmt.Printf("Transactions:      %d\n", in.TransactionCount)
	if in.TransactionCount == 0 {
		fmt.Println()
		return
	}
	if in.TopCategory != nil {
		fmt.Printf("Top category:      %s (%s)\n", in.TopCategory.Category, money(in.TopCategory.Total))
	}
	fmt.Printf("Most expensive:    %s (%s)\n", in.MostExpensiveDay.Name, money(in.MostExpensiveDay.Total))
	fmt.Printf("Least expensive:   %s (%s)\n", in.LeastExpensiveDay.Name, money(in.LeastExpensiveDay.Total))
	fmt.Printf("Week over week:    %s\n", money(in.Trend))

	fmt.Println("\n=== Categories ===")
	for _, c := range in.Categories {
		fmt.Printf("%-16s %10s  %3d txns  %5.1f%%\n", c.Category, money(c.Total), c.Count, c.Percentage)
	}

	fmt.Println("\n=== Weekdays ===")
	for _, d := range in.Weekdays {
		fmt.Printf("%-10s %10s  avg %s\n", d.Name, money(d.Total), money(d.Average))
	}

	fmt.Println("\n=== Weeks ===")
	for _, w := range in.Weeks {
		fmt.Printf("%-8s %10s  %3d txns\n", w.Label, money(w.Total), w.Count)
	}

	if len(in.Recommendations) > 0 {
		fmt.Println("\n=== Recommendations ===")
		for _, r := range in.Recommendations {
			fmt.Printf("[%s] %s: %s\n", r.Kind, r.Title, r.Description)
		}
	}
	fmt.Println()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	exitOnError(enc.Encode(v), "failed to encode output")
}
