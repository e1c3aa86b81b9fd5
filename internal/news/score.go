package news

import "github.com/deusflow/newsbot/internal/config"

// KeywordScore adds 1 per include keyword and subtracts 1 per exclude
// keyword found in text. There is no weighting and no cap.
func KeywordScore(m *Matcher, text string, include, exclude []string) int {
	t := Normalize(text)
	score := 0
	for _, w := range include {
		if m.Contains(t, w) {
			score++
		}
	}
	for _, w := range exclude {
		if m.Contains(t, w) {
			score--
		}
	}
	return score
}

// CompanyBoost adds each company's boost at most once, on its first matching
// ticker, and returns the boost with the names of the companies that matched.
func CompanyBoost(m *Matcher, text string, companies []config.Company) (int, []string) {
	t := Normalize(text)
	boost := 0
	var hits []string
	seen := map[string]bool{}
	for _, c := range companies {
		for _, ticker := range c.Tickers {
			if !m.Contains(t, ticker) {
				continue
			}
			boost += c.Boost
			if !seen[c.Name] {
				seen[c.Name] = true
				hits = append(hits, c.Name)
			}
			break
		}
	}
	return boost, hits
}
