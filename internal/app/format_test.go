package app

import (
	"testing"
	"time"

	"github.com/deusflow/newsbot/internal/news"
)

func TestFormatHashtag(t *testing.T) {
	cases := map[string]string{
		"AI & Robotics":   "#AI_Robotics",
		"Markets":         "#Markets",
		"  Space  Tech! ": "#Space_Tech",
		"M&A / Deals":     "#M_A_Deals",
		"5G":              "#5G",
		"Énergie":         "#nergie",
		"!!!":             "#",
	}
	for in, want := range cases {
		if got := FormatHashtag(in); got != want {
			t.Errorf("FormatHashtag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSourceHashtag(t *testing.T) {
	cases := map[string]string{
		"Example Feed":   "#ExampleFeed",
		"Reuters - Tech": "#ReutersTech",
		"il_sole_24_ore": "#ilsole24ore",
		"CNBC":           "#CNBC",
	}
	for in, want := range cases {
		if got := SourceHashtag(in); got != want {
			t.Errorf("SourceHashtag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	published := time.Date(2025, 3, 4, 23, 30, 0, 0, time.UTC)
	item := news.Item{
		Title:      `Q&A: "X" <beats> it's`,
		Link:       "https://example.com/a?x=1&y=2",
		Published:  published,
		Categories: []string{"AI & Robotics", "Markets"},
	}

	cases := map[string]struct {
		item news.Item
		opts FormatOptions
		want string
	}{
		"full": {
			item: item,
			opts: FormatOptions{AddSourceHashtag: true, AddTime: true},
			want: "<b>Q&amp;A: &quot;X&quot; &lt;beats&gt; it&#x27;s</b>\n" +
				"https://example.com/a?x=1&y=2\n" +
				"#AI_Robotics #Markets #ExampleFeed\n" +
				"🕒 2025-03-05 00:30",
		},
		"no source no time": {
			item: item,
			opts: FormatOptions{},
			want: "<b>Q&amp;A: &quot;X&quot; &lt;beats&gt; it&#x27;s</b>\n" +
				"https://example.com/a?x=1&y=2\n" +
				"#AI_Robotics #Markets",
		},
		"no categories keeps the line": {
			item: news.Item{Title: "Plain", Link: "https://e.com", Published: published},
			opts: FormatOptions{AddSourceHashtag: true, AddTime: true},
			want: "<b>Plain</b>\nhttps://e.com\n #ExampleFeed\n🕒 2025-03-05 00:30",
		},
		"no categories no source": {
			item: news.Item{Title: "Plain", Link: "https://e.com"},
			opts: FormatOptions{AddTime: true},
			want: "<b>Plain</b>\nhttps://e.com\n",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := FormatMessage(tc.item, "Example Feed", tc.opts); got != tc.want {
				t.Errorf("FormatMessage =\n%q\nwant\n%q", got, tc.want)
			}
		})
	}
}
