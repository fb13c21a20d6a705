package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	receiptAccount string
	receiptAdd     bool
)

var receiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Scan receipts",
}

var receiptScanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Upload a receipt image and show the recognised transaction",
	Long: `Upload a receipt image or PDF to the API. The scanner returns a draft
debit; pass --add to record it locally.

Example:
  budget-cli receipt scan ~/Downloads/lunch.jpg --add`,
	Args: cobra.ExactArgs(1),
	Run:  runReceiptScan,
}

func init() {
	receiptScanCmd.Flags().StringVar(&receiptAccount, "account", "", "Account for the draft (default: first account)")
	receiptScanCmd.Flags().BoolVar(&receiptAdd, "add", false, "Add the draft transaction to local state")

	receiptCmd.AddCommand(receiptScanCmd)
}

func runReceiptScan(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()
	a.requireLogin()

	f, err := os.Open(args[0])
	exitOnError(err, "failed to open receipt")
	defer f.Close()

	account := receiptAccount
	if account == "" {
		if accounts := a.state.Snapshot().Accounts; len(accounts) > 0 {
			account = accounts[0].ID
		}
	}

	resp, err := a.client().ScanReceipt(context.Background(), filepath.Base(args[0]), f, account)
	exitOnError(err, "failed to scan receipt")

	draft := resp.Draft
	fmt.Printf("Merchant: %s\n", resp.Receipt.Merchant)
	fmt.Printf("Amount:   %s\n", money(draft.Amount))
	fmt.Printf("Category: %s\n", draft.Category)
	fmt.Printf("Date:     %s\n", resp.Receipt.Date)

	if !receiptAdd {
		return
	}
	a.state.AddTransaction(draft)
	fmt.Printf("Added transaction %s\n", draft.ID)
}
