package news

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/deusflow/newsbot/internal/config"
	"github.com/deusflow/newsbot/internal/rss"
)

func TestCleanHTML(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"empty":      {in: "", want: ""},
		"plain":      {in: "just   text\n here", want: "just text here"},
		"tags":       {in: "<p>Strong <b>quarter</b></p>", want: "Strong quarter"},
		"blocks":     {in: "<div>one</div><div>two</div>", want: "one two"},
		"entities":   {in: "AT&amp;T &lt;rises&gt;", want: "AT&T <rises>"},
		"nested":     {in: "<ul><li>a</li>\n<li> b </li></ul>", want: "a b"},
		"only tags":  {in: "<br/><hr>", want: ""},
		"whitespace": {in: " \t\n ", want: ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := CleanHTML(tc.in); got != tc.want {
				t.Errorf("CleanHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Hello   World",
		"\tTabs\tand\nnewlines\r\n",
		"  MiXeD  Case  ",
		"a b",
		strings.Repeat(" x ", 50),
	}
	for _, in := range inputs {
		got := Normalize(in)
		if got != strings.TrimSpace(got) {
			t.Errorf("Normalize(%q) = %q has leading/trailing whitespace", in, got)
		}
		if strings.Contains(got, "  ") || strings.ContainsAny(got, "\t\n\r") {
			t.Errorf("Normalize(%q) = %q has a whitespace run", in, got)
		}
		if got != strings.ToLower(got) {
			t.Errorf("Normalize(%q) = %q is not lowercase", in, got)
		}
	}
	if got := Normalize("  Hello \n World "); got != "hello world" {
		t.Errorf("Normalize = %q, want %q", got, "hello world")
	}
}

func TestID(t *testing.T) {
	if ID("https://example.com/a") != ID("https://example.com/a") {
		t.Error("ID is not deterministic")
	}
	seen := map[string]string{}
	for i := 0; i < 1000; i++ {
		in := fmt.Sprintf("https://example.com/%d", i)
		id := ID(in)
		if prev, ok := seen[id]; ok {
			t.Fatalf("collision between %q and %q", prev, in)
		}
		seen[id] = in
	}
	// sha256("abc")
	if got := ID("abc"); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("ID(abc) = %s", got)
	}
}

func TestEntryID(t *testing.T) {
	if got, want := EntryID("https://x", "title"), ID("https://x"); got != want {
		t.Errorf("EntryID with link = %s, want %s", got, want)
	}
	if got, want := EntryID("", "title"), ID("title"); got != want {
		t.Errorf("EntryID without link = %s, want %s", got, want)
	}
}

func TestMatcher(t *testing.T) {
	cases := map[string]struct {
		wordBoundary bool
		text         string
		keyword      string
		want         bool
	}{
		"substring loose":      {text: "he said so", keyword: "ai", want: true},
		"word boundary strict": {wordBoundary: true, text: "he said so", keyword: "ai", want: false},
		"word boundary hit":    {wordBoundary: true, text: "new ai model", keyword: "AI", want: true},
		"long token substring": {wordBoundary: true, text: "robotics firm", keyword: "robot", want: true},
		"phrase substring":     {wordBoundary: true, text: "big machine learning deal", keyword: "machine learning", want: true},
		"case insensitive":     {text: "abc rallies", keyword: "ABC", want: true},
		"empty keyword":        {text: "anything", keyword: "", want: false},
		"blank keyword":        {text: "anything", keyword: "  ", want: false},
		"dotted ticker":        {wordBoundary: true, text: "brk.b rises", keyword: "BRK.B", want: true},
		"symbol prefix":        {wordBoundary: true, text: "buy $ai now", keyword: "$ai", want: true},
		"symbol prefix at end": {wordBoundary: true, text: "long $ai", keyword: "$ai", want: true},
		"symbol inside word":   {wordBoundary: true, text: "x$aib", keyword: "$ai", want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m := NewMatcher(tc.wordBoundary)
			if got := m.Contains(tc.text, tc.keyword); got != tc.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tc.text, tc.keyword, got, tc.want)
			}
		})
	}
}

func TestKeywordScore(t *testing.T) {
	m := NewMatcher(false)
	cases := map[string]struct {
		text    string
		include []string
		exclude []string
		want    int
	}{
		"none":               {text: "nothing here", include: []string{"beats"}, want: 0},
		"one include":        {text: "Company beats forecast", include: []string{"beats", "misses"}, want: 1},
		"two include":        {text: "Beats and EARNINGS", include: []string{"beats", "earnings"}, want: 2},
		"include exclude":    {text: "beats rumor", include: []string{"beats"}, exclude: []string{"rumor"}, want: 0},
		"negative":           {text: "rumor gossip", exclude: []string{"rumor", "gossip"}, want: -2},
		"substring counts":   {text: "he said", include: []string{"ai"}, want: 1},
		"repeat counts once": {text: "beats beats beats", include: []string{"beats"}, want: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := KeywordScore(m, tc.text, tc.include, tc.exclude); got != tc.want {
				t.Errorf("KeywordScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCompanyBoost(t *testing.T) {
	companies := []config.Company{
		{Name: "X Corp", Tickers: []string{"ABC", "XCO"}, Boost: 2},
		{Name: "Y Inc", Tickers: []string{"YYY"}, Boost: 5},
		{Name: "X Corp", Tickers: []string{"XCO"}, Boost: 1},
	}
	m := NewMatcher(false)

	boost, hits := CompanyBoost(m, "ABC and XCO both up", companies)
	// X Corp once for its first entry (ABC), then the second X Corp entry matches XCO.
	if boost != 3 {
		t.Errorf("boost = %d, want 3", boost)
	}
	if diff := cmp.Diff([]string{"X Corp"}, hits); diff != "" {
		t.Errorf("hits mismatch (-want +got):\n%s", diff)
	}

	boost, hits = CompanyBoost(m, "yyy soars", companies)
	if boost != 5 || len(hits) != 1 || hits[0] != "Y Inc" {
		t.Errorf("got boost=%d hits=%v", boost, hits)
	}

	boost, hits = CompanyBoost(m, "quiet day", companies)
	if boost != 0 || len(hits) != 0 {
		t.Errorf("got boost=%d hits=%v, want none", boost, hits)
	}
}

func TestCategorize(t *testing.T) {
	categories := map[string][]string{
		"Tech":          {"software"},
		"AI & Robotics": {"robot"},
		"Markets":       {"stock"},
		"Energy":        {"oil"},
		"Zeta":          {"zzz"},
	}
	m := NewMatcher(false)

	got := Categorize(m, "Robot software stock oil", categories)
	want := []string{"AI & Robotics", "Energy", "Markets"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Categorize mismatch (-want +got):\n%s", diff)
	}

	if got := Categorize(m, "nothing", categories); len(got) != 0 {
		t.Errorf("Categorize(nothing) = %v", got)
	}

	for _, text := range []string{"robot", "software stock", "zzz oil robot software stock", ""} {
		got := Categorize(m, text, categories)
		if len(got) > MaxCategories {
			t.Errorf("Categorize(%q) returned %d labels", text, len(got))
		}
		if !sort.StringsAreSorted(got) {
			t.Errorf("Categorize(%q) = %v is not sorted", text, got)
		}
	}
}

func TestPublishedAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	parsed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := map[string]struct {
		entry rss.Entry
		want  time.Time
	}{
		"published parsed": {
			entry: rss.Entry{PublishedParsed: &parsed, Updated: "2020-01-01T00:00:00Z"},
			want:  parsed,
		},
		"published raw": {
			entry: rss.Entry{Published: "Tue, 02 Jan 2024 03:04:05 +0000"},
			want:  parsed,
		},
		"updated when published broken": {
			entry: rss.Entry{Published: "not a date", Updated: "2024-01-02T03:04:05Z"},
			want:  parsed,
		},
		"updated parsed": {
			entry: rss.Entry{UpdatedParsed: &parsed},
			want:  parsed,
		},
		"created": {
			entry: rss.Entry{Created: "2024-01-02 03:04:05"},
			want:  parsed,
		},
		"created minutes Z": {
			entry: rss.Entry{Created: "2024-03-01T10:00Z"},
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		"created minutes offset": {
			entry: rss.Entry{Created: "2024-03-01T10:00+01:00"},
			want:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		"published without seconds": {
			entry: rss.Entry{Published: "Fri, 01 Mar 2024 10:00 +0000"},
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		"created year month": {
			entry: rss.Entry{Created: "2024-03"},
			want:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		"named US zone": {
			entry: rss.Entry{Published: "Fri, 01 Mar 2024 05:00:00 EST"},
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		"named EU zone": {
			entry: rss.Entry{Published: "Fri, 01 Mar 2024 11:00:00 CET"},
			want:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		"nothing parseable": {
			entry: rss.Entry{Published: "yesterday", Updated: "", Created: "soon"},
			want:  now.UTC(),
		},
		"no fields": {
			entry: rss.Entry{},
			want:  now.UTC(),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := PublishedAt(tc.entry, now)
			if !got.Equal(tc.want) {
				t.Errorf("PublishedAt = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	cfg := config.Default()
	cfg.Filters.IncludeKeywords = []string{"beats"}
	cfg.Filters.MinScore = 1
	cfg.Companies = []config.Company{{Name: "X Corp", Tickers: []string{"ABC"}, Boost: 2}}
	cfg.Categories = map[string][]string{"Earnings": {"forecast"}}
	rules := RulesFromConfig(cfg)

	now := time.Now()
	entry := rss.Entry{
		Title: "Company X beats ticker ABC forecast",
		Link:  "https://example.com/a",
	}
	it := rules.Evaluate(entry, now)

	if it.KeywordScore != 1 || it.Boost != 2 || it.Score != 3 {
		t.Errorf("scores = %d+%d=%d, want 1+2=3", it.KeywordScore, it.Boost, it.Score)
	}
	if !rules.Eligible(it) {
		t.Error("item should be eligible")
	}
	if it.ID != ID("https://example.com/a") {
		t.Errorf("ID = %s", it.ID)
	}
	if !it.Published.Equal(now.UTC()) {
		t.Errorf("Published = %v, want run time %v", it.Published, now.UTC())
	}
	if diff := cmp.Diff([]string{"X Corp"}, it.Companies); diff != "" {
		t.Errorf("Companies mismatch (-want +got):\n%s", diff)
	}
	if it.Categories != nil {
		t.Errorf("Categories set before Categorize: %v", it.Categories)
	}
	rules.Categorize(&it)
	if diff := cmp.Diff([]string{"Earnings"}, it.Categories); diff != "" {
		t.Errorf("Categories mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateBelowThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Filters.IncludeKeywords = []string{"beats"}
	cfg.Filters.ExcludeKeywords = []string{"rumor"}
	cfg.Filters.MinScore = 1
	rules := RulesFromConfig(cfg)

	it := rules.Evaluate(rss.Entry{Title: "Rumor: company beats"}, time.Now())
	if it.Score != 0 || rules.Eligible(it) {
		t.Errorf("score %d should be below threshold %d", it.Score, rules.MinScore)
	}
	if it.ID != ID("Rumor: company beats") {
		t.Error("ID should fall back to the cleaned title")
	}
}
