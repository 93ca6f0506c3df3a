package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search imported chunks by meaning",
	Long: `Embeds the query text with the local MiniLM model and returns the stored
chunks with the highest cosine similarity.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{annotationModel: "true"},
	RunE:        runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 5, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	text := strings.Join(args, " ")
	chunks, err := ingestService.Query(context.Background(), text, queryLimit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputJSON(cmd, chunks)
	}

	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i := range chunks {
		c := &chunks[i]
		cmd.Printf("%d. %s #%d (score %.4f)\n", i+1, c.DocName, c.ChunkID, c.Score)
		cmd.Printf("   %s\n\n", preview(c.Text, 200))
	}
	return nil
}

// preview collapses whitespace and cuts text to at most n runes.
func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
