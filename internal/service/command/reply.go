package command

import (
	"fmt"
	"strings"
)

// Replies are markdown; transports render them (Telegram HTML, terminal text).

func heading(title string) string {
	return fmt.Sprintf("⚙️ **%s**\n", title)
}

func success(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

func failure(name string, err error) string {
	return fmt.Sprintf("❌ **/%s failed**\n\n%s\n", name, err)
}

func label(key, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", key, value)
}

func bullets(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("› " + item + "\n")
	}
	return sb.String()
}

func tip(text string) string {
	return fmt.Sprintf("_Tip_: %s\n", text)
}

func join(parts ...string) string {
	return strings.Join(parts, "\n")
}
