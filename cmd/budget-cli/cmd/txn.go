package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/spf13/cobra"
)

var (
	txnAccount     string
	txnType        string
	txnAmount      string
	txnCategory    string
	txnDescription string
	txnNotes       string
	txnTransferTo  string
	txnDate        string
	txnRemote      bool
	txnSearch      string
	txnFilter      string
	txnLimit       int
)

var txnCmd = &cobra.Command{
	Use:   "txn",
	Short: "Manage transactions",
}

var txnAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	Long: `Add a transaction to the front of the list.

Example:
  budget-cli txn add --amount 12.50 --category Dining --description "Campus cafe"
  budget-cli txn add --type transfer --amount 100 --to acc2 --description "To savings"`,
	Args: cobra.NoArgs,
	Run:  runTxnAdd,
}

var txnListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	Args:  cobra.NoArgs,
	Run:   runTxnList,
}

var txnUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a transaction",
	Args:  cobra.ExactArgs(1),
	Run:   runTxnUpdate,
}

var txnDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()
		a.state.DeleteTransaction(args[0])
		fmt.Printf("Deleted transaction %s\n", args[0])
	},
}

func init() {
	for _, c := range []*cobra.Command{txnAddCmd, txnUpdateCmd} {
		c.Flags().StringVar(&txnAccount, "account", "", "Account id (default: first linked account)")
		c.Flags().StringVar(&txnType, "type", "debit", "debit, credit or transfer")
		c.Flags().StringVar(&txnAmount, "amount", "", "Amount, always positive")
		c.Flags().StringVar(&txnCategory, "category", "Other", "Spending category")
		c.Flags().StringVar(&txnDescription, "description", "", "Description")
		c.Flags().StringVar(&txnNotes, "notes", "", "Free-form notes")
		c.Flags().StringVar(&txnTransferTo, "to", "", "Target account for transfers")
		c.Flags().StringVar(&txnDate, "date", "", "Date (YYYY-MM-DD, default now)")
	}
	txnAddCmd.Flags().BoolVar(&txnRemote, "remote", false, "Create through the API instead of only locally")
	txnAddCmd.MarkFlagRequired("amount")
	txnAddCmd.MarkFlagRequired("description")

	txnListCmd.Flags().StringVar(&txnSearch, "search", "", "Filter by description or category")
	txnListCmd.Flags().StringVar(&txnFilter, "category", "", "Filter by category")
	txnListCmd.Flags().IntVar(&txnLimit, "limit", 20, "Maximum rows (0 for all)")

	txnCmd.AddCommand(txnAddCmd, txnListCmd, txnUpdateCmd, txnDeleteCmd)
}

func runTxnAdd(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()
	a.requireLogin()

	req := models.CreateTransactionRequest{
		AccountID:           txnAccount,
		Description:         txnDescription,
		Notes:               txnNotes,
		TransferToAccountID: txnTransferTo,
	}
	var err error
	req.Amount, err = parseMoney(txnAmount)
	exitOnError(err, "invalid --amount")
	exitOnError(req.Check(), "invalid --amount")
	req.Type, err = parseEnum(txnType, budget.TransactionType.Valid, "transaction type")
	exitOnError(err, "invalid --type")
	req.Category, err = budget.ParseCategory(txnCategory)
	exitOnError(err, "invalid --category")
	if req.Type == budget.TxnTransfer && req.TransferToAccountID == "" {
		exitOnError(fmt.Errorf("--to is required for transfers"), "invalid transfer")
	}
	if txnDate != "" {
		at, err := parseDate(txnDate)
		exitOnError(err, "invalid --date")
		req.CreatedAt = &at
	}
	if req.AccountID == "" {
		if accounts := a.state.Snapshot().Accounts; len(accounts) > 0 {
			req.AccountID = accounts[0].ID
		}
	}

	var txn budget.Transaction
	if txnRemote {
		created, err := a.client().CreateTransaction(context.Background(), req)
		exitOnError(err, "failed to create transaction")
		txn = *created
	} else {
		txn = req.Transaction(mockdata.NewID("txn"), time.Now())
	}
	a.state.AddTransaction(txn)

	fmt.Printf("Added %s %s %s (%s)\n", txn.Type, money(txn.Amount), txn.Description, txn.ID)
}

func runTxnList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	var category budget.Category
	if txnFilter != "" {
		var err error
		category, err = budget.ParseCategory(txnFilter)
		exitOnError(err, "invalid --category")
	}

	txns := budget.SearchTransactions(a.state.Snapshot().Transactions, txnSearch, category)
	if len(txns) == 0 {
		fmt.Println("No transactions.")
		return
	}
	if txnLimit > 0 && len(txns) > txnLimit {
		txns = txns[:txnLimit]
	}

	for _, t := range txns {
		sign := "-"
		if t.Type == budget.TxnCredit {
			sign = "+"
		}
		fmt.Printf("%s  %-10s %s%-9s %-14s %s  [%s]\n",
			t.CreatedAt.Local().Format("2006-01-02"), t.Type, sign, money(t.Amount), t.Category, t.Description, t.ID)
	}
}

func runTxnUpdate(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	var patch budget.TransactionPatch
	flags := cmd.Flags()
	if flags.Changed("account") {
		patch.AccountID = &txnAccount
	}
	if flags.Changed("type") {
		t, err := parseEnum(txnType, budget.TransactionType.Valid, "transaction type")
		exitOnError(err, "invalid --type")
		patch.Type = &t
	}
	if flags.Changed("amount") {
		amount, err := parseMoney(txnAmount)
		exitOnError(err, "invalid --amount")
		patch.Amount = &amount
	}
	if flags.Changed("category") {
		c, err := budget.ParseCategory(txnCategory)
		exitOnError(err, "invalid --category")
		patch.Category = &c
	}
	if flags.Changed("description") {
		patch.Description = &txnDescription
	}
	if flags.Changed("notes") {
		patch.Notes = &txnNotes
	}
	if flags.Changed("to") {
		patch.TransferToAccountID = &txnTransferTo
	}
	if flags.Changed("date") {
		at, err := parseDate(txnDate)
		exitOnError(err, "invalid --date")
		patch.CreatedAt = &at
	}

	exitOnError(patch.Check(), "invalid update")
	a.state.UpdateTransaction(args[0], patch)
	fmt.Printf("Updated transaction %s\n", args[0])
}
