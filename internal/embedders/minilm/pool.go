package minilm

import (
	"errors"
	"fmt"
)

var errNoPositions = errors.New("no attended positions")

// meanPool averages hidden states over the positions the mask attends to.
func meanPool(hidden [][]float32, mask []int) ([]float32, error) {
	if len(hidden) != len(mask) {
		return nil, fmt.Errorf("hidden states have %d positions, mask has %d", len(hidden), len(mask))
	}

	var (
		sum   []float32
		count int
	)
	for i, row := range hidden {
		if mask[i] == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float32, len(row))
		} else if len(row) != len(sum) {
			return nil, fmt.Errorf("position %d has %d dimensions, want %d", i, len(row), len(sum))
		}
		for j, v := range row {
			sum[j] += v
		}
		count++
	}

	if count == 0 {
		return nil, errNoPositions
	}

	for j := range sum {
		sum[j] /= float32(count)
	}
	return sum, nil
}

// average returns the element-wise mean of equally sized vectors.
func average(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to average")
	}

	dims := len(vectors[0])
	out := make([]float32, dims)
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d", i, len(v), dims)
		}
		for j, x := range v {
			out[j] += x
		}
	}

	n := float32(len(vectors))
	for j := range out {
		out[j] /= n
	}
	return out, nil
}
