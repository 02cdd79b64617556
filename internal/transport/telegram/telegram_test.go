package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   []string
	}{
		{
			name:   "short text untouched",
			text:   "hello",
			maxLen: 10,
			want:   []string{"hello"},
		},
		{
			name:   "split at newline",
			text:   "first line\nsecond line",
			maxLen: 15,
			want:   []string{"first line", "second line"},
		},
		{
			name:   "hard split without newline",
			text:   "abcdefghij",
			maxLen: 4,
			want:   []string{"abcd", "efgh", "ij"},
		},
		{
			name:   "entity kept whole",
			text:   "abcd&amp;efgh",
			maxLen: 6,
			want:   []string{"abcd", "&amp;e", "fgh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitText(tt.text, tt.maxLen))
		})
	}
}

func TestSplitText_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("ж", 10) // 2 bytes each
	chunks := splitText(text, 5)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %q is not valid UTF-8", c)
		assert.LessOrEqual(t, len(c), 5)
	}
}

func TestSplitBlocks(t *testing.T) {
	md := "Intro\n\n```sql\nSELECT 1;\n\nSELECT 2;\n```\n\nOutro"

	blocks := splitBlocks(md)

	require.Len(t, blocks, 3)
	assert.Equal(t, "Intro", blocks[0])
	assert.Contains(t, blocks[1], "SELECT 1;\n\nSELECT 2;")
	assert.Equal(t, "Outro", blocks[2])
}

func TestRenderMessages(t *testing.T) {
	para := strings.Repeat("a", 30)

	t.Run("fits in one message", func(t *testing.T) {
		msgs := renderMessages("**bold** answer", 100)
		assert.Equal(t, []string{"<strong>bold</strong> answer"}, msgs)
	})

	t.Run("packs blocks up to the limit", func(t *testing.T) {
		msgs := renderMessages(strings.Join([]string{para, para, para}, "\n\n"), 80)

		require.Len(t, msgs, 2)
		for _, m := range msgs {
			assert.LessOrEqual(t, len(m), 80)
		}
		assert.Equal(t, 3, strings.Count(strings.Join(msgs, ""), para))
	})

	t.Run("oversized block becomes escaped text", func(t *testing.T) {
		msgs := renderMessages(strings.Repeat("x<y ", 30), 50)

		require.Greater(t, len(msgs), 1)
		for _, m := range msgs {
			assert.LessOrEqual(t, len(m), 50)
			assert.NotContains(t, m, "<y")
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, renderMessages("   ", 50))
	})
}

func TestFormatAgentMessage(t *testing.T) {
	got := formatAgentMessage(core.AgentMessage(core.AgentSQL, "347 tracks"))
	assert.Equal(t, "**💾 SQL Agent**\n\n347 tracks", got)
}
