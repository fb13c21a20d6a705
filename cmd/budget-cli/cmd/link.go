package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pigeonworks-llc/campus-budget/pkg/linkwizard"
	"github.com/spf13/cobra"
)

var (
	linkPersonal linkwizard.PersonalInfo
	linkBank     linkwizard.BankAccount
	linkCard     linkwizard.Card
)

// linkCmd represents the link command.
var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link a bank account and card",
	Long: `Walk the linking wizard: personal details, bank account, credit card,
then review. Each stage is validated before moving on, including a Luhn check
on the card number. Nothing is sent until every stage passes.

Example:
  budget-cli link --first-name Sam --last-name Locklear --dob 2004-05-01 \
    --ssn 123-45-6789 --bank "First Bank" --routing 053000196 \
    --account-number 12345678 --account-type checking \
    --card 4111111111111111 --expiry 08/27 --cvc 123 --cardholder "Sam Locklear"`,
	Run: runLink,
}

func init() {
	f := linkCmd.Flags()
	f.StringVar(&linkPersonal.FirstName, "first-name", "", "First name")
	f.StringVar(&linkPersonal.LastName, "last-name", "", "Last name")
	f.StringVar(&linkPersonal.DateOfBirth, "dob", "", "Date of birth")
	f.StringVar(&linkPersonal.SSN, "ssn", "", "Social security number")
	f.StringVar(&linkBank.BankName, "bank", "", "Bank name")
	f.StringVar(&linkBank.RoutingNumber, "routing", "", "9-digit routing number")
	f.StringVar(&linkBank.AccountNumber, "account-number", "", "Account number")
	f.StringVar(&linkBank.AccountType, "account-type", "checking", "checking or savings")
	f.StringVar(&linkCard.CardNumber, "card", "", "Card number")
	f.StringVar(&linkCard.ExpiryDate, "expiry", "", "Expiry date (MM/YY)")
	f.StringVar(&linkCard.CVC, "cvc", "", "Card security code")
	f.StringVar(&linkCard.CardholderName, "cardholder", "", "Name on card")
}

func runLink(cmd *cobra.Command, args []string) {
	req, err := walkWizard(linkPersonal, linkBank, linkCard)
	if err != nil {
		printFieldErrors(err)
		os.Exit(1)
	}

	a := openApp()
	defer a.Close()
	user := a.requireLogin()

	fmt.Println("Linking accounts...")
	client := a.client()
	data, err := client.Link(context.Background(), req)
	exitOnError(err, "linking failed")

	user.HasLinked = true
	a.state.SetUser(user)
	a.state.SetAccounts(data.Accounts)
	a.state.SetTransactions(data.Transactions)
	// Each Add prepends, so walk backwards to keep the server's order.
	for i := len(data.SavingsGoals) - 1; i >= 0; i-- {
		a.state.AddSavingsGoal(data.SavingsGoals[i])
	}
	for i := len(data.Notes) - 1; i >= 0; i-- {
		a.state.AddNote(data.Notes[i])
	}

	fmt.Printf("Linked %d accounts, imported %d transactions.\n", len(data.Accounts), len(data.Transactions))
}

// walkWizard submits each stage in order and returns the reviewed request.
func walkWizard(p linkwizard.PersonalInfo, b linkwizard.BankAccount, c linkwizard.Card) (linkwizard.LinkRequest, error) {
	w := linkwizard.NewWizard()
	if err := w.SubmitPersonal(p); err != nil {
		return linkwizard.LinkRequest{}, fmt.Errorf("%s: %w", linkwizard.StepPersonal, err)
	}
	if err := w.SubmitBank(b); err != nil {
		return linkwizard.LinkRequest{}, fmt.Errorf("%s: %w", linkwizard.StepBank, err)
	}
	if err := w.SubmitCard(c); err != nil {
		return linkwizard.LinkRequest{}, fmt.Errorf("%s: %w", linkwizard.StepCard, err)
	}
	return w.Review()
}

func printFieldErrors(err error) {
	var fe linkwizard.FieldErrors
	if !errors.As(err, &fe) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(os.Stderr, "Please fix the following:")
	for _, k := range keys {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", k, fe[k])
	}
}
