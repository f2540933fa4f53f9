package chunker

import (
	"fmt"
	"strings"

	"recipechef/internal/domain"
)

// DefaultTargetSize is the number of tokens per chunk when the caller does
// not choose one.
const DefaultTargetSize = 200

// Words splits text on whitespace-delimited tokens and groups them into
// contiguous runs of up to targetSize tokens, preserving original order.
// Each group is rebuilt by re-joining its tokens with single spaces; groups
// whose trimmed content is empty are dropped. Consecutive chunks do not
// overlap, so a recipe step may straddle a chunk boundary.
//
// The output is deterministic for a given text and targetSize, which keeps
// re-ingestion idempotent.
func Words(text string, targetSize int) ([]string, error) {
	if targetSize <= 0 {
		return nil, fmt.Errorf("%w: target size must be positive, got %d", domain.ErrInvalidInput, targetSize)
	}
	words := strings.Fields(text)
	var chunks []string
	for i := 0; i < len(words); i += targetSize {
		end := i + targetSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}
