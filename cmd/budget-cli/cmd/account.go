package cmd

import (
	"fmt"

	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/spf13/cobra"
)

var (
	accountName    string
	accountBalance string
	accountLimit   string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show and edit linked accounts",
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List linked accounts and balances",
	Args:  cobra.NoArgs,
	Run:   runAccountList,
}

var accountUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename an account or correct its balance",
	Long: `Update an account. Balances are not derived from transactions, so
use this to bring a balance in line with the bank.`,
	Args: cobra.ExactArgs(1),
	Run:  runAccountUpdate,
}

func init() {
	accountUpdateCmd.Flags().StringVar(&accountName, "name", "", "New name")
	accountUpdateCmd.Flags().StringVar(&accountBalance, "balance", "", "New balance")
	accountUpdateCmd.Flags().StringVar(&accountLimit, "credit-limit", "", "New credit limit")

	accountCmd.AddCommand(accountListCmd, accountUpdateCmd)
}

func runAccountList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	accounts := a.state.Snapshot().Accounts
	if len(accounts) == 0 {
		fmt.Println("No linked accounts. Run `budget-cli link` or `budget-cli demo`.")
		return
	}

	for _, acc := range accounts {
		line := fmt.Sprintf("%-22s %-9s %12s", acc.Name, acc.Type, money(acc.Balance))
		if acc.Last4 != "" {
			line += "  ****" + acc.Last4
		}
		if acc.CreditLimit != nil {
			line += "  limit " + money(*acc.CreditLimit)
		}
		if acc.AvailableCredit != nil {
			line += "  available " + money(*acc.AvailableCredit)
		}
		fmt.Printf("%s  [%s]\n", line, acc.ID)
	}
}

func runAccountUpdate(cmd *cobra.Command, args []string) {
	var patch budget.AccountPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		patch.Name = &accountName
	}
	if flags.Changed("balance") {
		v, err := parseMoney(accountBalance)
		exitOnError(err, "invalid --balance")
		patch.Balance = &v
	}
	if flags.Changed("credit-limit") {
		v, err := parseMoney(accountLimit)
		exitOnError(err, "invalid --credit-limit")
		patch.CreditLimit = &v
	}
	if patch == (budget.AccountPatch{}) {
		exitOnError(fmt.Errorf("nothing to change"), "pass --name, --balance or --credit-limit")
	}

	a := openApp()
	defer a.Close()

	for _, acc := range a.state.Snapshot().Accounts {
		if acc.ID == args[0] {
			a.state.UpdateAccount(acc.ID, patch)
			fmt.Printf("Updated account %s\n", acc.ID)
			return
		}
	}
	exitOnError(fmt.Errorf("no account with id %q", args[0]), "account not found")
}
