package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

var ErrEmptyText = errors.New("document has no extractable text")

// Parser extracts plain text from one file.
type Parser interface {
	Parse(ctx context.Context, r *bytes.Reader) (string, error)
}

// Loader reads every supported file in a directory. Failures are per file: a bad
// file is logged and skipped, never aborting the batch.
type Loader struct {
	dir     string
	parsers map[string]Parser
}

func NewLoader(dir string) *Loader {
	return &Loader{
		dir: dir,
		parsers: map[string]Parser{
			".pdf":  &PDFParser{},
			".docx": &DOCXParser{},
		},
	}
}

// Register adds or replaces the parser for an extension such as ".pdf".
func (l *Loader) Register(ext string, p Parser) {
	l.parsers[strings.ToLower(ext)] = p
}

func (l *Loader) Supported() []string {
	exts := make([]string, 0, len(l.parsers))
	for ext := range l.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (l *Loader) Load(ctx context.Context) ([]core.Document, error) {
	logger := log.FromCtx(ctx)

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Error().Str("path", l.dir).Msg("documents directory does not exist")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	var docs []core.Document
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return docs, err
		}

		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		ext := strings.ToLower(filepath.Ext(name))
		parser, ok := l.parsers[ext]
		if !ok {
			logger.Warn().Str("file", name).Str("ext", ext).Msg("unsupported file type, skipping")
			continue
		}

		path := filepath.Join(l.dir, name)
		text, err := l.parseFile(ctx, parser, path)
		if err != nil {
			logger.Error().Err(err).Str("file", name).Msg("failed to load document")
			continue
		}

		docs = append(docs, core.Document{
			ID:      name,
			Source:  name,
			Content: text,
			Meta: map[string]string{
				"source": name,
				"type":   strings.TrimPrefix(ext, "."),
			},
		})
		logger.Info().Str("file", name).Int("chars", len([]rune(text))).Msg("loaded document")
	}

	logger.Info().Int("count", len(docs)).Str("path", l.dir).Msg("documents loaded")
	return docs, nil
}

func (l *Loader) parseFile(ctx context.Context, p Parser, path string) (text string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// Both parsers index into untrusted archives and may panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	text, err = p.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
