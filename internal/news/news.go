// Package news turns feed entries into scored, categorized items.
package news

import (
	"time"

	"github.com/deusflow/newsbot/internal/config"
	"github.com/deusflow/newsbot/internal/rss"
)

// Item is an entry after cleaning, scoring and categorization.
type Item struct {
	ID        string
	Title     string
	Summary   string
	Link      string
	Published time.Time

	KeywordScore int
	Boost        int
	Score        int
	Categories   []string
	Companies    []string
}

// Rules carries everything Evaluate needs from the configuration.
type Rules struct {
	Include    []string
	Exclude    []string
	MinScore   int
	Companies  []config.Company
	Categories map[string][]string
	Matcher    *Matcher
}

// RulesFromConfig builds Rules from a loaded configuration.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		Include:    cfg.Filters.IncludeKeywords,
		Exclude:    cfg.Filters.ExcludeKeywords,
		MinScore:   cfg.Filters.MinScore,
		Companies:  cfg.Companies,
		Categories: cfg.Categories,
		Matcher:    NewMatcher(cfg.Filters.WordBoundary),
	}
}

// Evaluate cleans and scores e. Categories are left empty; call Categorize
// only for items that will be delivered.
func (r Rules) Evaluate(e rss.Entry, now time.Time) Item {
	title := CleanHTML(e.Title)
	summary := CleanHTML(e.Summary)
	text := title + " " + summary

	kw := KeywordScore(r.Matcher, text, r.Include, r.Exclude)
	boost, hits := CompanyBoost(r.Matcher, text, r.Companies)

	return Item{
		ID:           EntryID(e.Link, title),
		Title:        title,
		Summary:      summary,
		Link:         e.Link,
		Published:    PublishedAt(e, now),
		KeywordScore: kw,
		Boost:        boost,
		Score:        kw + boost,
		Companies:    hits,
	}
}

// Eligible reports whether it clears the delivery threshold.
func (r Rules) Eligible(it Item) bool {
	return it.Score >= r.MinScore
}

// Categorize fills it.Categories.
func (r Rules) Categorize(it *Item) {
	it.Categories = Categorize(r.Matcher, it.Title+" "+it.Summary, r.Categories)
}
