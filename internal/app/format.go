package app

import (
	"regexp"
	"strings"
	"time"

	"github.com/deusflow/newsbot/internal/news"
)

var (
	nonAlphaNumRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

	// Message timestamps are always shown at UTC+1.
	messageZone = time.FixedZone("UTC+1", 60*60)

	titleEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
	)
)

// FormatOptions toggles the optional parts of a message.
type FormatOptions struct {
	AddSourceHashtag bool
	AddTime          bool
}

// FormatHashtag turns a category label into a hashtag: runs of
// non-alphanumerics become one underscore, edge underscores are trimmed.
func FormatHashtag(s string) string {
	return "#" + strings.Trim(nonAlphaNumRe.ReplaceAllString(s, "_"), "_")
}

// SourceHashtag strips every non-alphanumeric character from the source name.
func SourceHashtag(name string) string {
	return "#" + nonAlphaNumRe.ReplaceAllString(name, "")
}

// FormatMessage renders an item as
//
//	<b>title</b>
//	link
//	#cat1 #cat2 #Source
//	🕒 2006-01-02 15:04
//
// The hashtag line is kept even when empty.
func FormatMessage(it news.Item, source string, opts FormatOptions) string {
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(titleEscaper.Replace(it.Title))
	b.WriteString("</b>\n")
	b.WriteString(it.Link)
	b.WriteString("\n")

	tags := make([]string, 0, len(it.Categories))
	for _, c := range it.Categories {
		tags = append(tags, FormatHashtag(c))
	}
	b.WriteString(strings.Join(tags, " "))

	if opts.AddSourceHashtag {
		b.WriteString(" ")
		b.WriteString(SourceHashtag(source))
	}
	if opts.AddTime && !it.Published.IsZero() {
		b.WriteString("\n🕒 ")
		b.WriteString(it.Published.In(messageZone).Format("2006-01-02 15:04"))
	}
	return b.String()
}
