package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var storagePrune int

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Show where local state is kept",
	Long: `Show the storage backend, its location and how often state has been
saved. With the SQLite driver the recent save history is listed too, and
--prune N drops all but the newest N history rows.`,
	Args: cobra.NoArgs,
	Run:  runStorage,
}

func init() {
	storageCmd.Flags().IntVar(&storagePrune, "prune", 0, "Keep only the newest N save history rows (sqlite only)")
}

func runStorage(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	ctx := context.Background()
	stats, err := a.state.Stats(ctx)
	exitOnError(err, "failed to get storage statistics")

	fmt.Println("\n=== Storage ===")
	fmt.Printf("Backend:    %s\n", stats.Backend)
	fmt.Printf("Location:   %s\n", stats.Location)
	fmt.Printf("Size:       %d bytes\n", stats.SizeBytes)
	fmt.Printf("Saves:      %d\n", stats.SaveCount)
	if stats.LastSavedAt != nil {
		fmt.Printf("Last save:  %s\n", stats.LastSavedAt.Local().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Printf("Last save:  (never)\n")
	}

	if a.sqlite == nil {
		fmt.Println()
		return
	}

	if storagePrune > 0 {
		n, err := a.sqlite.PruneHistory(ctx, storagePrune)
		exitOnError(err, "failed to prune history")
		slog.Info("Pruned save history", "removed", n, "kept", storagePrune)
	}

	history, err := a.sqlite.History(ctx, 10)
	exitOnError(err, "failed to get save history")

	fmt.Println("\n=== Recent Saves ===")
	for _, h := range history {
		fmt.Printf("%s  %6d bytes  %4d txns  %3d bills\n",
			h.SavedAt.Local().Format("2006-01-02 15:04:05"), h.SizeBytes, h.TransactionCount, h.BillCount)
	}
	fmt.Println()
}
