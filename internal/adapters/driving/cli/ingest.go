package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

var (
	ingestReader string
	ingestType   string
	ingestDryRun bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Fetch, chunk, embed and store documents",
	Long: `Fetches documents with a reader, splits them into word chunks, embeds the
chunks with the local MiniLM model and imports them into the document store.

Documents with the same name replace earlier imports. With --dry-run the
documents go to an in-memory store and nothing is written to disk.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{annotationModel: "true"},
	RunE:        runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestReader, "reader", DefaultReader, "reader to load with")
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", domain.DefaultDocumentType, "document type label")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "embed without writing to the database")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	req := domain.LoadRequest{Paths: args, DocumentType: ingestType}
	result, err := ingestService.Ingest(context.Background(), ingestReader, req)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d documents, %d chunks", result.Documents, result.Chunks)
	if result.Unembedded > 0 {
		cmd.Printf(" (%d without vector)", result.Unembedded)
	}
	cmd.Println()
	if ingestDryRun {
		cmd.Println("Dry run: nothing was written.")
	}
	return nil
}
