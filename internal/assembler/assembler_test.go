package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recipechef/internal/domain"
)

func result(doc, text string, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{DocumentName: doc, Text: text},
		Score: score,
	}
}

func TestAssembleEmptyResults(t *testing.T) {
	ctx := Assemble(nil)
	assert.True(t, ctx.Empty())
	assert.Equal(t, "", ctx.Text)
	assert.Empty(t, ctx.SourceDocuments)

	ctx = Assemble(domain.RetrievalResult{})
	assert.True(t, ctx.Empty())
}

func TestAssemblePreservesRankingOrder(t *testing.T) {
	ctx := Assemble(domain.RetrievalResult{
		result("italian.pdf", "carbonara with guanciale", 0.93),
		result("weeknight.pdf", "quick tomato pasta", 0.71),
	})
	assert.False(t, ctx.Empty())
	assert.Equal(t,
		"[From: italian.pdf]\ncarbonara with guanciale\n\n[From: weeknight.pdf]\nquick tomato pasta",
		ctx.Text)
}

func TestAssembleProvenanceIsDistinctAndOrdered(t *testing.T) {
	ctx := Assemble(domain.RetrievalResult{
		result("italian.pdf", "a", 0.9),
		result("weeknight.pdf", "b", 0.8),
		result("italian.pdf", "c", 0.7),
	})
	assert.Equal(t, []string{"italian.pdf", "weeknight.pdf"}, ctx.SourceDocuments)
}

func TestAssembleSingleChunk(t *testing.T) {
	ctx := Assemble(domain.RetrievalResult{result("book.pdf", "slow roast lamb", 0.5)})
	assert.Equal(t, "[From: book.pdf]\nslow roast lamb", ctx.Text)
	assert.Equal(t, []string{"book.pdf"}, ctx.SourceDocuments)
}
