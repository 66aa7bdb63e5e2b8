package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

var (
	askTopK     int
	askJSON     bool
	askNoDedupe bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against your documents",
	Long: `Answers a natural-language question using passages extracted
from your uploaded documents. When no passage supports the question
strongly enough, the answer is withheld rather than guessed.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of citations to return (default 5, max 20)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askNoDedupe, "no-dedupe", false, "keep near-duplicate citations")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	opts := domain.DefaultQueryOptions()
	opts.TopK = askTopK
	opts.Dedupe = !askNoDedupe

	answer, err := queryService.Ask(context.Background(), currentOwner(), args[0], opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)

	if len(answer.Citations) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println("Citations:")
	for i, c := range answer.Citations {
		cmd.Printf("  [%d] %.4f  %s\n", i+1, c.Score, c.Snippet)
		cmd.Printf("      document: %s\n", c.DocumentID)
	}
	return nil
}
