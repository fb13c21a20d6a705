// Package cmd provides CLI commands for budget-cli.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "budget-cli",
	Short: "Student budgeting from the terminal",
	Long: `budget-cli keeps a local copy of your accounts, transactions, notes,
savings goals and bill reminders, and talks to the campus-budget mock API
for login, account linking and receipt scanning.

State is written to local storage after every change (bbolt by default,
SQLite with STORAGE_DRIVER=sqlite).

Example:
  budget-cli login --email sam@bravemail.uncp.edu --password secret
  budget-cli demo
  budget-cli stats
  budget-cli bill list`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd)
	rootCmd.AddCommand(linkCmd, demoCmd, pullCmd)
	rootCmd.AddCommand(accountCmd, txnCmd, noteCmd, goalCmd, billCmd, receiptCmd)
	rootCmd.AddCommand(statsCmd, insightsCmd, exportCmd)
	rootCmd.AddCommand(settingsCmd, resetCmd, storageCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	return cfgFile
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
