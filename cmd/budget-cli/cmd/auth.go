package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	authName     string
	authEmail    string
	authPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with your campus email",
	Long: `Log in against the mock API and keep the session locally.

Example:
  budget-cli login --email sam@bravemail.uncp.edu --password secret`,
	Run: runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Sign up against the mock API and keep the session locally.

Example:
  budget-cli signup --name "Sam Locklear" --email sam@bravemail.uncp.edu --password secret`,
	Run: runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear all local data",
	Run:   runLogout,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Campus email address (required)")
		c.Flags().StringVar(&authPassword, "password", "", "Password (required)")
		c.MarkFlagRequired("email")
		c.MarkFlagRequired("password")
	}
	signupCmd.Flags().StringVar(&authName, "name", "", "Full name (required)")
	signupCmd.MarkFlagRequired("name")
}

func runLogin(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	client := a.client()
	resp, err := client.Login(context.Background(), authEmail, authPassword)
	exitOnError(err, "login failed")

	exitOnError(a.saveToken(resp.Token), "failed to save session")
	a.state.Login(resp.User)

	slog.Info("Logged in", "email", resp.User.Email)
	fmt.Printf("Logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
	if !resp.User.HasLinked {
		fmt.Println("Next: link a bank account with `budget-cli link`.")
	}
}

func runSignup(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	client := a.client()
	resp, err := client.Signup(context.Background(), authName, authEmail, authPassword)
	exitOnError(err, "signup failed")

	exitOnError(a.saveToken(resp.Token), "failed to save session")
	a.state.Login(resp.User)

	fmt.Printf("Welcome, %s! Link a bank account with `budget-cli link`.\n", resp.User.Name)
}

func runLogout(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	client := a.client()
	if client.AccessToken() != "" {
		if err := client.Logout(context.Background()); err != nil {
			// Local state is cleared regardless.
			slog.Warn("server logout failed", "error", err)
		}
	}
	a.clearToken()
	a.state.Logout()

	fmt.Println("Logged out. Local data cleared.")
}
