package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

type DOCXParser struct{}

func (p *DOCXParser) Parse(ctx context.Context, r *bytes.Reader) (string, error) {
	doc, err := docx.Parse(r, r.Size())
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}

	parts := make([]string, 0, len(doc.Document.Body.Items))
	for _, it := range doc.Document.Body.Items {
		var content string
		switch t := it.(type) {
		case *docx.Paragraph:
			content = t.String()
		case *docx.Table:
			content = t.String()
		}
		if strings.TrimSpace(content) != "" {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
