package news

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanHTML strips markup and returns plain text with single spaces.
func CleanHTML(text string) string {
	if text == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return collapse(text)
	}

	var parts []string
	doc.Contents().Each(func(_ int, s *goquery.Selection) {
		collectText(s, &parts)
	})
	return collapse(strings.Join(parts, " "))
}

// collectText walks the node tree in document order, keeping text nodes
// separate so adjacent block elements do not run together.
func collectText(s *goquery.Selection, parts *[]string) {
	if goquery.NodeName(s) == "#text" {
		if t := strings.TrimSpace(s.Text()); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		collectText(c, parts)
	})
}

// Normalize is the canonical form used for all keyword matching.
func Normalize(s string) string {
	return strings.ToLower(collapse(s))
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ID returns the hex SHA-256 of s.
func ID(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// EntryID is the dedup identity: the link when present, else the title.
func EntryID(link, title string) string {
	if link != "" {
		return ID(link)
	}
	return ID(title)
}
