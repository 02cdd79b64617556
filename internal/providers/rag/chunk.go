package rag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/tuskswarm/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

// chunkNamespace keeps chunk IDs stable across rebuilds of the same corpus.
var chunkNamespace = uuid.MustParse("6f1d7c52-4a55-4c1e-9a8e-2b0f3c9e7d10")

var ErrInvalidChunking = errors.New("invalid chunking config")

type TokenCounter func(text string) int

type ChunkerConfig struct {
	// Size and Overlap are measured in characters (runes).
	Size    int
	Overlap int
}

func (c ChunkerConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidChunking, c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidChunking, c.Overlap, c.Size)
	}
	return nil
}

// Chunker cuts text into fixed-length windows; consecutive windows share Overlap characters.
type Chunker struct {
	cfg   ChunkerConfig
	count TokenCounter
}

func NewChunker(cfg ChunkerConfig, count TokenCounter) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if count == nil {
		count = CountTokens
	}
	return &Chunker{cfg: cfg, count: count}, nil
}

func (c *Chunker) Split(doc core.Document) []core.Chunk {
	windows := Windows(doc.Content, c.cfg)
	if len(windows) == 0 {
		return nil
	}

	chunks := make([]core.Chunk, 0, len(windows))
	for i, w := range windows {
		chunks = append(chunks, core.Chunk{
			ID:        chunkID(doc.Source, i),
			Source:    doc.Source,
			Index:     i,
			Content:   w,
			TokenSize: c.count(w),
		})
	}
	return chunks
}

func (c *Chunker) SplitAll(docs []core.Document) []core.Chunk {
	var out []core.Chunk
	for _, d := range docs {
		out = append(out, c.Split(d)...)
	}
	return out
}

// Windows returns the raw character windows for text. Boundaries ignore words and sentences.
func Windows(text string, cfg ChunkerConfig) []string {
	if strings.TrimSpace(text) == "" || cfg.Validate() != nil {
		return nil
	}

	runes := []rune(text)
	step := cfg.Size - cfg.Overlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := min(start+cfg.Size, len(runes))
		if w := string(runes[start:end]); strings.TrimSpace(w) != "" {
			out = append(out, w)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

func chunkID(source string, index int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(source+"#"+strconv.Itoa(index))).String()
}

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}

// CountTokens counts cl100k_base tokens, falling back to a rune estimate
// when the encoding cannot be loaded.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	enc, err := getTokenizer()
	if err != nil {
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
