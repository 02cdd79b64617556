package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/tuskswarm/pkg/log"
)

const sqlSystemPrompt = "You are a SQLite expert. Create only the SQL query without explanation. " +
	"The query must be simple and direct, avoiding complex joins unless necessary. " +
	"Table info: %s\nReturn only the top %d results if the query returns multiple rows."

var ErrEmptyQuery = errors.New("model returned no SQL")

// SQL turns a question into a query over the relational database and runs it.
type SQL struct {
	db   Source[Database]
	llm  Completer
	topK int
}

func NewSQL(db Source[Database], llm Completer, topK int) *SQL {
	return &SQL{db: db, llm: llm, topK: topK}
}

// Answer never fails: problems come back as a readable error string.
func (s *SQL) Answer(ctx context.Context, question string) string {
	out, err := s.Run(ctx, question)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("question", question).Msg("sql response failed")
		return fmt.Sprintf("Error generating SQL response: %v", err)
	}
	return out
}

func (s *SQL) Run(ctx context.Context, question string) (string, error) {
	logger := log.FromCtx(ctx)

	db, err := s.db(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}

	query, err := s.Generate(ctx, db, question)
	if err != nil {
		return "", err
	}
	logger.Info().Str("sql", query).Msg("executing generated query")

	res, err := db.Execute(ctx, query)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Query executed:\n%s\n\nResults:\n%s", query, res.Markdown()), nil
}

// Generate asks the model for one cleaned SQLite statement.
func (s *SQL) Generate(ctx context.Context, db Database, question string) (string, error) {
	info, err := db.TableInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read schema: %w", err)
	}

	raw, err := s.llm.Complete(ctx, fmt.Sprintf(sqlSystemPrompt, info, s.topK), question)
	if err != nil {
		return "", fmt.Errorf("failed to generate query: %w", err)
	}

	query := CleanQuery(raw)
	if query == "" {
		return "", ErrEmptyQuery
	}
	return query, nil
}

// CleanQuery strips markdown fences, a bare "sql" language tag and backticks,
// joins the remaining lines and guarantees a trailing semicolon.
func CleanQuery(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") || strings.EqualFold(line, "sql") {
			continue
		}
		kept = append(kept, line)
	}

	query := strings.ReplaceAll(strings.Join(kept, " "), "`", "")
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	if !strings.HasSuffix(query, ";") {
		query += ";"
	}
	return query
}
