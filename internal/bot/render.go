package bot

import (
	"fmt"
	"html"
	"path"
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
)

// MarkdownToHTML converts the markdown subset the model actually emits
// (bold and italic asterisks) into Telegram HTML. Everything else is
// escaped so stray angle brackets cannot break the message.
func MarkdownToHTML(text string) string {
	escaped := html.EscapeString(text)
	escaped = boldRe.ReplaceAllString(escaped, "<b>$1</b>")
	escaped = italicRe.ReplaceAllString(escaped, "<i>$1</i>")
	return escaped
}

// DedupeSources removes duplicate sources while preserving first-seen order.
func DedupeSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// FormatAnswer renders a reply message: the answer followed by a source
// listing. URLs stay as is, file paths are shortened to their base name.
func FormatAnswer(answer string, sources []string) string {
	var b strings.Builder
	b.WriteString(MarkdownToHTML(answer))

	deduped := DedupeSources(sources)
	if len(deduped) > 0 {
		b.WriteString("\n\n📚 <b>Источники:</b>")
		for _, s := range deduped {
			name := s
			if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
				name = path.Base(s)
			}
			b.WriteString(fmt.Sprintf("\n• %s", html.EscapeString(name)))
		}
	}
	return b.String()
}
