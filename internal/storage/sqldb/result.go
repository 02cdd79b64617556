package sqldb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const NoRows = "(no rows)"

type Result struct {
	Columns []string
	Rows    [][]string
}

func (r *Result) Empty() bool {
	return len(r.Rows) == 0
}

// Markdown renders the rows as a pipe table.
func (r *Result) Markdown() string {
	if len(r.Columns) == 0 || r.Empty() {
		return NoRows
	}

	t := table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(r.Columns...).
		Rows(r.Rows...)
	return t.String()
}

// TSV renders header and rows tab-separated, one line each.
func (r *Result) TSV() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(r.Columns, "\t"))
	sb.WriteByte('\n')
	for _, row := range r.Rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", t)
	}
}
