package rss

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is one feed item with the raw fields the pipeline needs.
type Entry struct {
	Title   string
	Summary string
	Link    string

	Published       string
	PublishedParsed *time.Time
	Updated         string
	UpdatedParsed   *time.Time
	Created         string
}

// Fetcher downloads and parses feeds.
type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewFetcher builds a Fetcher. A zero timeout leaves requests bounded only by ctx.
func NewFetcher(client *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	p := gofeed.NewParser()
	if client != nil {
		p.Client = client
	}
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &Fetcher{parser: p, timeout: timeout}
}

// Fetch retrieves url and returns its entries in feed order.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, FromItem(item))
	}
	return entries, nil
}

// FromItem converts a gofeed item into an Entry.
func FromItem(item *gofeed.Item) Entry {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	return Entry{
		Title:           item.Title,
		Summary:         summary,
		Link:            item.Link,
		Published:       item.Published,
		PublishedParsed: item.PublishedParsed,
		Updated:         item.Updated,
		UpdatedParsed:   item.UpdatedParsed,
		Created:         createdField(item),
	}
}

// createdField looks for a "created" element in the item's extensions,
// e.g. dcterms:created or Atom 0.3 <created>.
func createdField(item *gofeed.Item) string {
	for _, byName := range item.Extensions {
		for _, ext := range byName["created"] {
			if ext.Value != "" {
				return ext.Value
			}
		}
	}
	if item.Custom != nil {
		return item.Custom["created"]
	}
	return ""
}
