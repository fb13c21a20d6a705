package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace local transactions, notes and goals with the API's",
	Long: `Fetch transactions, notes and savings goals from the API and replace
the local copies. Accounts, bills and the user are left alone.`,
	Args: cobra.NoArgs,
	Run:  runPull,
}

func runPull(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()
	a.requireLogin()

	ctx := context.Background()
	client := a.client()

	txns, err := client.ListTransactions(ctx)
	exitOnError(err, "failed to fetch transactions")
	notes, err := client.ListNotes(ctx)
	exitOnError(err, "failed to fetch notes")
	goals, err := client.ListSavingsGoals(ctx)
	exitOnError(err, "failed to fetch savings goals")

	a.state.SetTransactions(txns)
	a.state.SetNotes(notes)
	a.state.SetSavingsGoals(goals)

	fmt.Printf("Pulled %d transactions, %d notes, %d savings goals\n", len(txns), len(notes), len(goals))
}
