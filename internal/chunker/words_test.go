package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechef/internal/domain"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		targetSize int
		want       []string
	}{
		{
			name:       "single group under target",
			text:       "melt butter in a pan",
			targetSize: 10,
			want:       []string{"melt butter in a pan"},
		},
		{
			name:       "splits into equal groups",
			text:       "one two three four five six",
			targetSize: 2,
			want:       []string{"one two", "three four", "five six"},
		},
		{
			name:       "uneven trailing group kept",
			text:       "one two three four five",
			targetSize: 2,
			want:       []string{"one two", "three four", "five"},
		},
		{
			name:       "whitespace normalized to single spaces",
			text:       "  one \t two\n\nthree  ",
			targetSize: 3,
			want:       []string{"one two three"},
		},
		{
			name:       "empty text yields no chunks",
			text:       "",
			targetSize: 5,
			want:       nil,
		},
		{
			name:       "whitespace-only text yields no chunks",
			text:       "   \n\t  ",
			targetSize: 5,
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Words(tt.text, tt.targetSize)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWordsInvalidTargetSize(t *testing.T) {
	for _, size := range []int{0, -1, -200} {
		_, err := Words("some text", size)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// Re-joining the output with single spaces must reconstruct the whitespace
// split of the input.
func TestWordsRoundTrip(t *testing.T) {
	texts := []string{
		"Preheat the oven to 180C.\nCream the butter and sugar,\tthen fold in the flour.",
		"a b c d e f g h i j k l m n o p",
		"single",
	}
	for _, text := range texts {
		for _, size := range []int{1, 3, 7, DefaultTargetSize} {
			chunks, err := Words(text, size)
			require.NoError(t, err)
			rejoined := strings.Join(chunks, " ")
			assert.Equal(t, strings.Fields(text), strings.Fields(rejoined))
		}
	}
}

func TestWordsDeterministic(t *testing.T) {
	text := "spiced lentil soup with garlic and cumin served with flatbread"
	first, err := Words(text, 4)
	require.NoError(t, err)
	second, err := Words(text, 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Chunking an already produced chunk with the same target size is a no-op
// when the chunk fits the target.
func TestWordsIdempotent(t *testing.T) {
	text := strings.Repeat("word ", 450)
	chunks, err := Words(text, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for _, c := range chunks {
		again, err := Words(c, 200)
		require.NoError(t, err)
		assert.Equal(t, []string{c}, again)
	}
}
