// Package extract turns uploaded document bytes into plain text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"rsc.io/pdf"

	"recipechef/internal/domain"
)

// Service extracts text from PDF and plain-text uploads, preserving reading
// order. Output is sanitized: NUL bytes removed, whitespace collapsed.
type Service struct{}

func New() *Service { return &Service{} }

// Extract dispatches on the file extension. Unknown binary formats fail
// with the extraction error; .txt and .md pass through sanitized.
func (s *Service) Extract(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file %q", domain.ErrInvalidInput, name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return s.extractPDF(ctx, name, data)
	case ".txt", ".md":
		return Sanitize(string(data)), nil
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", domain.ErrExtraction, filepath.Ext(name))
	}
}

func (s *Service) extractPDF(ctx context.Context, name string, data []byte) (text string, err error) {
	// The pdf parser panics on malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed pdf %q: %v", domain.ErrExtraction, name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", domain.ErrExtraction, name, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", domain.ErrExtraction, ctx.Err())
		default:
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, t := range page.Content().Text {
			sb.WriteString(strings.ReplaceAll(t.S, "\x00", ""))
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	out := Sanitize(sb.String())
	if out == "" {
		return "", fmt.Errorf("%w: no text extracted from %q", domain.ErrExtraction, name)
	}
	return out, nil
}

// Sanitize normalizes extracted text: carriage returns and tabs become
// spaces and runs of whitespace collapse to single spaces.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.Join(strings.Fields(s), " ")
}
