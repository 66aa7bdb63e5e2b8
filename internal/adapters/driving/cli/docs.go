package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
)

var (
	docsListLimit  int
	docsListOffset int
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage uploaded documents",
	Long:  `List, inspect, or delete your uploaded documents.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsShow,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its chunks",
	Long: `Removes a document, its indexed chunks, and rebuilds the index
so future answers no longer cite it. Documents still being ingested
cannot be deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsDelete,
}

func init() {
	docsListCmd.Flags().IntVarP(&docsListLimit, "limit", "n", 20, "maximum number of documents")
	docsListCmd.Flags().IntVar(&docsListOffset, "offset", 0, "number of documents to skip")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsShowCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(context.Background(), currentOwner(), docsListLimit, docsListOffset)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded yet.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:   %s\n", docs[i].Filename)
		cmd.Printf("    Status: %s\n", docs[i].Status)
		if docs[i].NumChunks != nil {
			cmd.Printf("    Chunks: %d\n", *docs[i].NumChunks)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(context.Background(), currentOwner(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  File:     %s\n", doc.Filename)
	cmd.Printf("  Type:     %s\n", doc.ContentType)
	cmd.Printf("  Status:   %s\n", doc.Status)
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	if doc.ProcessedAt != nil {
		cmd.Printf("  Processed: %s\n", doc.ProcessedAt.Format("2006-01-02 15:04:05"))
	}
	if doc.NumChunks != nil {
		cmd.Printf("  Chunks:   %d\n", *doc.NumChunks)
	}
	if doc.IngestError != "" {
		cmd.Printf("  Error:    %s\n", doc.IngestError)
	}
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	err := documentService.Delete(context.Background(), currentOwner(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrDocumentProcessing) {
			return errors.New("document is still processing; try again once ingestion finishes")
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
