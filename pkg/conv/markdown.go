package conv

import (
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

const extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock

var (
	tgPolicy   = telegramPolicy()
	termPolicy = bluemonday.UGCPolicy()

	tableRe = regexp.MustCompile(`(?s)<table>.*?</table>`)
)

// telegramPolicy allows the tags listed at https://core.telegram.org/bots/api#html-style
func telegramPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	return p
}

func toHTML(md []byte, flags html.Flags) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: flags})
	return markdown.Render(p.Parse(md), renderer)
}

// tableText draws an HTML table with box characters.
func tableText(table string) (string, error) {
	text, err := html2text.FromString(table, html2text.Options{PrettyTables: true})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(text, "\n"), nil
}

// MarkdownToTelegramHTML renders markdown into the HTML subset Telegram accepts.
// Telegram has no tables, so SQL results are sent as preformatted text.
func MarkdownToTelegramHTML(md []byte) string {
	unsafeHTML := toHTML(md, html.CommonFlags|html.HrefTargetBlank)

	unsafeHTML = tableRe.ReplaceAllFunc(unsafeHTML, func(table []byte) []byte {
		text, err := tableText(string(table))
		if err != nil {
			return table
		}
		return []byte("<pre>" + stdhtml.EscapeString(text) + "</pre>\n")
	})

	return string(tgPolicy.SanitizeBytes(unsafeHTML))
}

// MarkdownToTerminal renders agent markdown as plain text suitable for a terminal.
// Tables are drawn with box characters, links keep their target in brackets.
func MarkdownToTerminal(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}

	sanitized := termPolicy.SanitizeBytes(toHTML([]byte(md), html.CommonFlags))

	text, err := html2text.FromString(string(sanitized), html2text.Options{PrettyTables: true})
	if err != nil {
		return md
	}
	return strings.TrimSpace(text)
}
