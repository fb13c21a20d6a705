package cmd

import (
	"context"
	"fmt"

	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	goalName     string
	goalTarget   string
	goalCurrent  string
	goalDeadline string
	goalPriority string
	goalRemote   bool
	goalAmount   string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage savings goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a savings goal",
	Long: `Add a savings goal.

Example:
  budget-cli goal add --name "New Laptop" --target 1200 --priority low --deadline 2025-08-01`,
	Args: cobra.NoArgs,
	Run:  runGoalAdd,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List savings goals with progress",
	Args:  cobra.NoArgs,
	Run:   runGoalList,
}

var goalFundCmd = &cobra.Command{
	Use:   "fund <id>",
	Short: "Move money into a goal",
	Long: `Add to a goal's current amount. Going past the target is allowed and
shown as overfunded.`,
	Args: cobra.ExactArgs(1),
	Run:  runGoalFund,
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a savings goal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()
		a.state.DeleteSavingsGoal(args[0])
		fmt.Printf("Deleted goal %s\n", args[0])
	},
}

func init() {
	goalAddCmd.Flags().StringVar(&goalName, "name", "", "Goal name (required)")
	goalAddCmd.Flags().StringVar(&goalTarget, "target", "", "Target amount (required)")
	goalAddCmd.Flags().StringVar(&goalCurrent, "current", "0", "Amount already saved")
	goalAddCmd.Flags().StringVar(&goalDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	goalAddCmd.Flags().StringVar(&goalPriority, "priority", "medium", "low, medium or high")
	goalAddCmd.Flags().BoolVar(&goalRemote, "remote", false, "Create through the API instead of only locally")
	goalAddCmd.MarkFlagRequired("name")
	goalAddCmd.MarkFlagRequired("target")

	goalFundCmd.Flags().StringVar(&goalAmount, "amount", "", "Amount to add (required)")
	goalFundCmd.MarkFlagRequired("amount")

	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalFundCmd, goalDeleteCmd)
}

func runGoalAdd(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()
	a.requireLogin()

	req := models.CreateSavingsGoalRequest{Name: goalName}
	var err error
	req.TargetAmount, err = parseMoney(goalTarget)
	exitOnError(err, "invalid --target")
	req.CurrentAmount, err = parseMoney(goalCurrent)
	exitOnError(err, "invalid --current")
	req.Priority, err = parseEnum(goalPriority, budget.Priority.Valid, "priority")
	exitOnError(err, "invalid --priority")
	if goalDeadline != "" {
		d, err := parseDate(goalDeadline)
		exitOnError(err, "invalid --deadline")
		req.Deadline = &d
	}
	exitOnError(req.Check(), "invalid goal")

	var goal budget.SavingsGoal
	if goalRemote {
		created, err := a.client().CreateSavingsGoal(context.Background(), req)
		exitOnError(err, "failed to create goal")
		goal = *created
	} else {
		goal = req.SavingsGoal(mockdata.NewID("goal"))
	}
	a.state.AddSavingsGoal(goal)

	fmt.Printf("Added goal %q: %s of %s (%s)\n", goal.Name, money(goal.CurrentAmount), money(goal.TargetAmount), goal.ID)
}

func runGoalList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	goals := a.state.Snapshot().SavingsGoals
	if len(goals) == 0 {
		fmt.Println("No savings goals.")
		return
	}

	for _, g := range goals {
		status := fmt.Sprintf("%s to go", money(g.Remaining()))
		if g.Overfunded() {
			status = fmt.Sprintf("overfunded by %s", money(g.CurrentAmount.Sub(g.TargetAmount)))
		}
		deadline := ""
		if g.Deadline != nil {
			deadline = " by " + g.Deadline.Local().Format("2006-01-02")
		}
		fmt.Printf("%-20s %-6s %5.1f%%  %s / %s  %s%s  [%s]\n",
			g.Name, g.Priority, g.Progress(), money(g.CurrentAmount), money(g.TargetAmount), status, deadline, g.ID)
	}
}

func runGoalFund(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	amount, err := parseMoney(goalAmount)
	exitOnError(err, "invalid --amount")

	for _, g := range a.state.Snapshot().SavingsGoals {
		if g.ID != args[0] {
			continue
		}
		patch, err := fundPatch(g, amount)
		exitOnError(err, "cannot fund goal")
		a.state.UpdateSavingsGoal(g.ID, patch)
		fmt.Printf("%s: %s of %s\n", g.Name, money(*patch.CurrentAmount), money(g.TargetAmount))
		return
	}
	exitOnError(fmt.Errorf("no goal with id %q", args[0]), "goal not found")
}

// fundPatch adds amount to the goal's balance. A negative amount withdraws,
// but never below zero. Going over the target is fine.
func fundPatch(g budget.SavingsGoal, amount decimal.Decimal) (budget.SavingsGoalPatch, error) {
	current := g.CurrentAmount.Add(amount)
	patch := budget.SavingsGoalPatch{CurrentAmount: &current}
	if err := patch.Check(); err != nil {
		return budget.SavingsGoalPatch{}, fmt.Errorf("withdrawing %s leaves %s: %w", money(amount.Neg()), money(current), err)
	}
	return patch, nil
}
