// Package assembler merges retrieved chunks into a single bounded context
// block with recoverable provenance.
package assembler

import (
	"fmt"
	"strings"

	"recipechef/internal/domain"
)

// Context is the assembled block handed to the prompt policy engine.
// An empty Text is the explicit "nothing found" signal.
type Context struct {
	Text            string
	SourceDocuments []string
}

// Empty reports whether no chunk contributed to the context.
func (c Context) Empty() bool { return c.Text == "" }

// Assemble concatenates chunk texts in the given (similarity-ranked) order.
// Each segment is prefixed with its source document name so a human reader
// of the context can recover provenance; segments are joined with a blank
// line. SourceDocuments lists distinct document names in first-seen order.
func Assemble(results domain.RetrievalResult) Context {
	if len(results) == 0 {
		return Context{}
	}
	segments := make([]string, 0, len(results))
	var sources []string
	seen := make(map[string]struct{})
	for _, r := range results {
		name := r.Chunk.DocumentName
		segments = append(segments, fmt.Sprintf("[From: %s]\n%s", name, r.Chunk.Text))
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			sources = append(sources, name)
		}
	}
	return Context{
		Text:            strings.Join(segments, "\n\n"),
		SourceDocuments: sources,
	}
}
