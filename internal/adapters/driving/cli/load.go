package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragkit/internal/core/domain"
)

// DefaultReader is the reader used when --reader is not given.
const DefaultReader = "GithubReader"

var (
	loadReader string
	loadType   string
	loadJSON   bool
)

var loadCmd = &cobra.Command{
	Use:   "load [path...]",
	Short: "Fetch documents and print them",
	Long: `Fetches documents with a reader without storing them.

For the GitHub reader each path is owner/repo or owner/repo/sub/folder.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadReader, "reader", DefaultReader, "reader to load with")
	loadCmd.Flags().StringVarP(&loadType, "type", "t", domain.DefaultDocumentType, "document type label")
	loadCmd.Flags().BoolVar(&loadJSON, "json", false, "output documents as JSON")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	req := domain.LoadRequest{Paths: args, DocumentType: loadType}
	docs, err := ingestService.Load(context.Background(), loadReader, req)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	if loadJSON {
		return outputJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("  %s\n", doc.Name)
		cmd.Printf("    Type: %s\n", doc.Type)
		if doc.Link != "" {
			cmd.Printf("    Link: %s\n", doc.Link)
		}
		cmd.Printf("    Size: %d bytes\n", len(doc.Text))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
