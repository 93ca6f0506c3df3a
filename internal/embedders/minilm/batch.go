package minilm

import "strings"

// continuationPrefix marks a word piece that continues the previous token.
const continuationPrefix = "##"

// splitBatches groups consecutive tokens so that the ids of each batch fit budget.
// A token's cost is its own encoded length. A token is added to the current
// batch while count+cost <= budget; otherwise the batch is closed and the token
// starts a new one. A single token over budget forms its own batch.
func splitBatches(tokens []string, budget int, cost func(string) (int, error)) ([][]string, error) {
	var (
		batches [][]string
		batch   []string
		count   int
	)

	for _, token := range tokens {
		n, err := cost(token)
		if err != nil {
			return nil, err
		}

		if count+n <= budget || len(batch) == 0 {
			batch = append(batch, token)
			count += n
			continue
		}

		batches = append(batches, batch)
		batch = []string{token}
		count = n
	}

	if len(batch) > 0 {
		batches = append(batches, batch)
	}
	return batches, nil
}

// joinTokens rebuilds text from word pieces, gluing "##" continuations to
// the preceding piece.
func joinTokens(tokens []string) string {
	var b strings.Builder
	for i, token := range tokens {
		if rest, ok := strings.CutPrefix(token, continuationPrefix); ok && i > 0 {
			b.WriteString(rest)
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(token)
	}
	return b.String()
}
