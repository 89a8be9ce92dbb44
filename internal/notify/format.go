package notify

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// markdownV2Reserved is the set of characters Telegram's MarkdownV2 parser
// requires to be escaped in plain text.
const markdownV2Reserved = "_*[]()~`>#+-=|{}.!\\"

// EscapeMarkdownV2 escapes reserved MarkdownV2 characters.
func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownV2Reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// quoteLines renders text as a MarkdownV2 block quote, escaping each line.
func quoteLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + EscapeMarkdownV2(line)
	}
	return strings.Join(lines, "\n")
}

// formatPublishDate renders an RFC3339 UTC timestamp shifted by the
// configured offset. A timestamp that fails to parse is passed through
// verbatim rather than dropped.
func formatPublishDate(isoDate string, utcOffsetHours int, logger *log.Logger) string {
	t, err := time.Parse(time.RFC3339, isoDate)
	if err != nil {
		logger.Printf("[Notify] Cannot parse publish date %q: %v", isoDate, err)
		return isoDate
	}
	return t.Add(time.Duration(utcOffsetHours) * time.Hour).Format("2006-01-02 15:04:05")
}

// formatParentQuote renders the quoted parent comment for a reply
// notification. A parent that was never stored (a prior fetch may have
// failed) renders as a placeholder instead of breaking the message.
func formatParentQuote(parentText string, parentKnown bool) string {
	quoted := "_Parent comment not found_"
	if parentKnown {
		quoted = quoteLines(parentText)
	}
	return fmt.Sprintf("\n\nIn reply to:\n%s", quoted)
}
