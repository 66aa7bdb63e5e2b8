package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/quarry-cli/internal/core/domain"
	"github.com/quarrylabs/quarry-cli/internal/core/ports/driving"
)

var (
	uploadContentType string
	uploadWait        bool
	uploadTimeout     time.Duration
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a document for indexing",
	Long: `Uploads a plain-text or markdown file. Ingestion runs in the
background; use --wait to block until the document is ready.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadContentType, "content-type", "", "override the inferred content type")
	uploadCmd.Flags().BoolVarP(&uploadWait, "wait", "w", false, "wait for ingestion to finish")
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", 30*time.Second, "maximum time to wait with --wait")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	contentType := uploadContentType
	if contentType == "" {
		contentType = inferContentType(path)
	}

	ctx := context.Background()
	doc, err := ingestService.Upload(ctx, driving.UploadParams{
		OwnerID:     currentOwner(),
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Content:     content,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %s as document %s\n", doc.Filename, doc.ID)

	if !uploadWait {
		cmd.Println("Ingestion is running in the background.")
		return nil
	}

	return waitForDocument(cmd, ctx, doc.ID)
}

// waitForDocument polls until the document reaches a terminal state.
func waitForDocument(cmd *cobra.Command, ctx context.Context, docID string) error {
	deadline := time.Now().Add(uploadTimeout)

	for {
		doc, err := documentService.Get(ctx, currentOwner(), docID)
		if err != nil {
			return fmt.Errorf("checking document: %w", err)
		}

		if doc.Status.Terminal() {
			if doc.Status == domain.StatusFailed {
				return fmt.Errorf("ingestion failed: %s", doc.IngestError)
			}
			cmd.Printf("Ready: %d chunks indexed\n", *doc.NumChunks)
			return nil
		}

		if time.Now().After(deadline) {
			return errors.New("timed out waiting for ingestion")
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// inferContentType maps a filename extension to an upload content type.
func inferContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt", ".text":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
