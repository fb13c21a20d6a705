package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pigeonworks-llc/campus-budget/pkg/ledger"
	"github.com/spf13/cobra"
)

var exportAccounts string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export transactions as Beancount ledger files",
	Long: `Write every transaction to monthly Beancount files under the ledger
directory (LEDGER_DIR, default <DATA_ROOT>/ledger). Each run replaces the
files of the months it writes.

Categories and accounts map to Beancount accounts through an embedded
mapping; --accounts (or LEDGER_ACCOUNTS) points at a YAML file whose keys
override it:

  income: Income:Job
  categories:
    Dining: Expenses:EatingOut`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportAccounts, "accounts", "", "Account mapping YAML (default: LEDGER_ACCOUNTS)")
}

func runExport(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	mappingPath := exportAccounts
	if mappingPath == "" {
		mappingPath = a.cfg.Ledger.AccountsPath
	}
	mapper, err := ledger.NewMapper(mappingPath)
	exitOnError(err, "failed to load account mapping")

	snap := a.state.Snapshot()
	if len(snap.Transactions) == 0 {
		fmt.Println("No transactions to export.")
		return
	}

	repo := ledger.NewFileSystemRepository(a.paths)
	result, err := ledger.Export(repo, ledger.NewConverter(mapper, snap.Accounts), snap.Transactions)
	exitOnError(err, "failed to export ledger")

	slog.Info("Ledger exported", "dir", a.paths.LedgerDir(), "months", len(result.Months), "entries", result.Entries)

	fmt.Println("\n=== Ledger Export ===")
	for _, m := range result.Months {
		path, _ := a.paths.MonthFilePath(m)
		fmt.Printf("%s  %s\n", m, path)
	}
	fmt.Printf("\nWrote %d entries to %d files.\n\n", result.Entries, len(result.Months))
}
