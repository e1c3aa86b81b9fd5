package news

import "sort"

// MaxCategories is the most labels attached to one item.
const MaxCategories = 3

// Categorize returns the labels whose keywords occur in text, sorted and
// truncated to MaxCategories.
func Categorize(m *Matcher, text string, categories map[string][]string) []string {
	t := Normalize(text)
	var labels []string
	for label, keywords := range categories {
		if m.Any(t, keywords) {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	if len(labels) > MaxCategories {
		labels = labels[:MaxCategories]
	}
	return labels
}
