package conv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTerminal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{
			name:     "empty input",
			input:    "   ",
			contains: []string{},
		},
		{
			name:     "plain paragraph",
			input:    "There are 347 tracks.",
			contains: []string{"There are 347 tracks."},
		},
		{
			name:     "list items kept",
			input:    "1. first\n2. second",
			contains: []string{"first", "second"},
		},
		{
			name:     "script removed",
			input:    "hello <script>alert('x')</script>",
			contains: []string{"hello"},
			absent:   []string{"<script>", "alert"},
		},
		{
			name:     "table cells kept",
			input:    "| Name | Count |\n|---|---|\n| Rock | 1297 |",
			contains: []string{"Name", "Count", "Rock", "1297"},
			absent:   []string{"|---|"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToTerminal(tt.input)
			for _, want := range tt.contains {
				assert.Contains(t, strings.ToLower(got), strings.ToLower(want))
			}
			for _, bad := range tt.absent {
				assert.NotContains(t, got, bad)
			}
			assert.Equal(t, strings.TrimSpace(got), got)
		})
	}
}
