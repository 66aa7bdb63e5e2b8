package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index",
	Long: `Re-derives the search index from the stored chunks. Normally
this happens automatically after uploads and deletes; rebuild exists
for recovery after an interrupted run.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	if err := indexService.Rebuild(context.Background(), currentOwner()); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	cmd.Println("Index rebuilt.")
	return nil
}
