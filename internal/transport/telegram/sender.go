package telegram

import (
	"context"
	stdhtml "html"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/tuskswarm/pkg/conv"
	"github.com/sandevgo/tuskswarm/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in as many messages as needed.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool) error {
	logger := log.FromCtx(ctx)

	for i, msg := range renderMessages(md, maxTelegramMsgLen) {
		opts := []interface{}{tele.ModeHTML}
		if silent && i == 0 {
			opts = append(opts, tele.Silent)
		}

		if _, err := s.bot.Send(to, msg, opts...); err != nil {
			logger.Error().Err(err).Int("part", i).Int("len", len(msg)).Msg("failed to send telegram message")
			return err
		}
	}
	return nil
}

// renderMessages cuts markdown between blocks and renders each piece on its own,
// so an HTML tag never spans two messages. A block that alone exceeds maxLen
// is sent as escaped plain text.
func renderMessages(md string, maxLen int) []string {
	var (
		out     []string
		pending string
	)
	flush := func() {
		if html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(pending))); html != "" {
			out = append(out, html)
		}
		pending = ""
	}

	for _, block := range splitBlocks(md) {
		candidate := block
		if pending != "" {
			candidate = pending + "\n\n" + block
		}
		if len(conv.MarkdownToTelegramHTML([]byte(candidate))) <= maxLen {
			pending = candidate
			continue
		}

		if pending != "" {
			flush()
		}
		if len(conv.MarkdownToTelegramHTML([]byte(block))) <= maxLen {
			pending = block
			continue
		}
		out = append(out, splitText(stdhtml.EscapeString(block), maxLen)...)
	}
	if pending != "" {
		flush()
	}
	return out
}

// splitBlocks splits markdown on blank lines, keeping fenced code blocks whole.
func splitBlocks(md string) []string {
	var (
		blocks []string
		open   string
	)
	for _, part := range strings.Split(strings.TrimSpace(md), "\n\n") {
		if open != "" {
			open += "\n\n" + part
		} else {
			open = part
		}
		if strings.Count(open, "```")%2 == 1 {
			continue
		}
		if strings.TrimSpace(open) != "" {
			blocks = append(blocks, open)
		}
		open = ""
	}
	if strings.TrimSpace(open) != "" {
		blocks = append(blocks, open)
	}
	return blocks
}

// splitText splits text into chunks of at most maxLen bytes, preferring newlines.
// Cuts never land inside a multi-byte rune or an HTML entity.
func splitText(text string, maxLen int) []string {
	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if amp := strings.LastIndexByte(text[:cut], '&'); amp > 0 && !strings.Contains(text[amp:cut], ";") {
			cut = amp
		}
		if cut == 0 {
			cut = maxLen
		}
		// Prefer a newline in the last two thirds of the chunk
		if idx := strings.LastIndex(text[:cut], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
