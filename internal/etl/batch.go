package etl

import (
	"errors"
	"fmt"
)

var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Chunk splits seq into order-preserving chunks of at most size elements.
// The final chunk may be shorter. A size of zero or less is rejected
// rather than looping forever.
func Chunk[T any](seq []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}

	if len(seq) == 0 {
		return nil, nil
	}

	chunks := make([][]T, 0, (len(seq)+size-1)/size)
	for start := 0; start < len(seq); start += size {
		end := start + size
		if end > len(seq) {
			end = len(seq)
		}
		chunks = append(chunks, seq[start:end])
	}
	return chunks, nil
}
