package cmd

import (
	"fmt"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/spf13/cobra"
)

var (
	billName      string
	billAmount    string
	billCategory  string
	billDue       string
	billFrequency string
	billReminder  int
	billOnlyFlag  bool
	billWithin    int
)

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Manage bill reminders",
}

var billAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a bill reminder",
	Long: `Add a bill reminder. Weekly, monthly and yearly bills come back unpaid
at their next due date once paid.

Example:
  budget-cli bill add --name Rent --amount 550 --category Rent --due 2024-02-01 --frequency monthly`,
	Args: cobra.NoArgs,
	Run:  runBillAdd,
}

var billListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bills with their urgency",
	Args:  cobra.NoArgs,
	Run:   runBillList,
}

var billPayCmd = &cobra.Command{
	Use:   "pay <id>",
	Short: "Mark a bill as paid",
	Long: `Mark a bill as paid. Recurring bills roll forward to their next due
date in the same step; use --only-flag to just set the paid flag.`,
	Args: cobra.ExactArgs(1),
	Run:  runBillPay,
}

var billDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a bill",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()
		a.state.DeleteBill(args[0])
		fmt.Printf("Deleted bill %s\n", args[0])
	},
}

func init() {
	billAddCmd.Flags().StringVar(&billName, "name", "", "Bill name (required)")
	billAddCmd.Flags().StringVar(&billAmount, "amount", "", "Amount (required)")
	billAddCmd.Flags().StringVar(&billCategory, "category", "Other", "Spending category")
	billAddCmd.Flags().StringVar(&billDue, "due", "", "Due date (YYYY-MM-DD) (required)")
	billAddCmd.Flags().StringVar(&billFrequency, "frequency", "monthly", "weekly, monthly, yearly or one-time")
	billAddCmd.Flags().IntVar(&billReminder, "reminder-days", 3, "Days before the due date to start reminding")
	billAddCmd.MarkFlagRequired("name")
	billAddCmd.MarkFlagRequired("amount")
	billAddCmd.MarkFlagRequired("due")

	billListCmd.Flags().IntVar(&billWithin, "within", 0, "Only unpaid bills due in the next N days")

	billPayCmd.Flags().BoolVar(&billOnlyFlag, "only-flag", false, "Only set the paid flag, do not roll forward")

	billCmd.AddCommand(billAddCmd, billListCmd, billPayCmd, billDeleteCmd)
}

func runBillAdd(cmd *cobra.Command, args []string) {
	amount, err := parseMoney(billAmount)
	exitOnError(err, "invalid --amount")
	category, err := budget.ParseCategory(billCategory)
	exitOnError(err, "invalid --category")
	due, err := parseDate(billDue)
	exitOnError(err, "invalid --due")
	freq, err := parseEnum(billFrequency, budget.Frequency.Valid, "frequency")
	exitOnError(err, "invalid --frequency")
	if billReminder < 0 {
		exitOnError(fmt.Errorf("must not be negative"), "invalid --reminder-days")
	}

	a := openApp()
	defer a.Close()
	a.requireLogin()

	bill := budget.NewBill(mockdata.NewID("bill"), billName, amount, category, due, freq, billReminder, time.Now())
	a.state.AddBill(bill)

	fmt.Printf("Added bill %q due %s (%s)\n", bill.Name, bill.NextDueDate.Format("2006-01-02"), bill.ID)
}

func runBillList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	bills := a.state.Snapshot().Bills
	if len(bills) == 0 {
		fmt.Println("No bills.")
		return
	}

	now := time.Now()
	if billWithin > 0 {
		bills = budget.UpcomingBills(bills, now, time.Duration(billWithin)*24*time.Hour)
		if len(bills) == 0 {
			fmt.Printf("Nothing due in the next %d days.\n", billWithin)
			return
		}
	}
	for _, b := range bills {
		urgency := budget.Classify(b, now)
		when := ""
		switch urgency {
		case budget.UrgencyOverdue:
			when = fmt.Sprintf("%d days overdue", -budget.DaysUntilDue(b, now))
		case budget.UrgencyUrgent, budget.UrgencyNormal:
			when = fmt.Sprintf("due in %d days", budget.DaysUntilDue(b, now))
		}
		fmt.Printf("%-8s %-18s %-9s %-10s %s  %s  [%s]\n",
			urgency, b.Name, money(b.Amount), b.Frequency, b.NextDueDate.Local().Format("2006-01-02"), when, b.ID)
	}

	if overdue := budget.OverdueBills(bills, now); len(overdue) > 0 {
		fmt.Printf("\n%d bill(s) overdue.\n", len(overdue))
	}
}

func runBillPay(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	if billOnlyFlag {
		a.state.MarkBillAsPaid(args[0])
		fmt.Printf("Marked bill %s as paid\n", args[0])
		return
	}

	if !a.state.PayBill(args[0]) {
		exitOnError(fmt.Errorf("no bill with id %q", args[0]), "bill not found")
	}
	for _, b := range a.state.Snapshot().Bills {
		if b.ID == args[0] && !b.IsPaid {
			fmt.Printf("Paid %s. Next due %s.\n", b.Name, b.NextDueDate.Format("2006-01-02"))
			return
		}
	}
	fmt.Printf("Paid bill %s.\n", args[0])
}
