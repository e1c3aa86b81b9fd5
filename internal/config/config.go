// Package config loads the YAML document that drives a newsbot run and the
// credentials that come from the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath   = "config.yml"
	DefaultDBPath       = "data/seen.db"
	DefaultAPIURL       = "https://api.telegram.org"
	DefaultUserAgent    = "newsbot/1.0"
	DefaultIndexTitle   = "<b>News index by category</b>\nPick a category to filter news by hashtag."
	defaultMinScore     = 2
	defaultCompanyBoost = 1
	defaultSendInterval = 800 * time.Millisecond
)

var (
	ErrMissingToken  = errors.New("BOT_TOKEN is required")
	ErrMissingChatID = errors.New("telegram.channel_chat_id is required")
)

// Config is the whole run configuration: the YAML document plus environment.
type Config struct {
	Filters    Filters             `yaml:"filters"`
	Companies  []Company           `yaml:"companies"`
	Categories map[string][]string `yaml:"categories"`
	Telegram   Telegram            `yaml:"telegram"`
	Fetch      Fetch               `yaml:"fetch"`
	Sources    []Source            `yaml:"sources"`

	Env Env `yaml:"-"`
}

// Filters holds the keyword lists and the delivery threshold.
type Filters struct {
	IncludeKeywords []string `yaml:"include_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
	MinScore        int      `yaml:"min_score"`
	// WordBoundary switches short keywords to whole-word matching.
	WordBoundary bool `yaml:"word_boundary"`
}

// Company adds Boost to an item's score when any of its tickers is found.
type Company struct {
	Name    string   `yaml:"name"`
	Tickers []string `yaml:"tickers"`
	Boost   int      `yaml:"boost"`
}

// UnmarshalYAML defaults Boost to 1 when the key is absent.
func (c *Company) UnmarshalYAML(n *yaml.Node) error {
	type plain Company
	p := plain{Boost: defaultCompanyBoost}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*c = Company(p)
	return nil
}

// Telegram configures message rendering and delivery.
type Telegram struct {
	ChannelChatID         ChatID        `yaml:"channel_chat_id"`
	ParseMode             string        `yaml:"parse_mode"`
	AddSourceHashtag      bool          `yaml:"add_source_hashtag"`
	AddTime               bool          `yaml:"add_time"`
	DisableWebPagePreview bool          `yaml:"disable_web_page_preview"`
	SendInterval          time.Duration `yaml:"send_interval"`
	APIURL                string        `yaml:"api_url"`
	IndexMessage          IndexMessage  `yaml:"index_message"`
}

// IndexMessage describes the optional per-category navigation message.
type IndexMessage struct {
	Enabled bool          `yaml:"enabled"`
	Title   string        `yaml:"title"`
	Buttons []IndexButton `yaml:"buttons"`
}

// IndexButton is one navigation button. URLQuery is appended verbatim.
type IndexButton struct {
	Text     string `yaml:"text"`
	URLQuery string `yaml:"url_query"`
}

// Fetch tunes feed retrieval. A zero Timeout means no explicit timeout.
type Fetch struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// Source is one feed to poll.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ChatID accepts both numeric ids and @channel handles.
type ChatID string

// UnmarshalYAML keeps the scalar text as-is, so -1001234 stays exact.
func (c *ChatID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("channel_chat_id: expected scalar, got %v", n.Tag)
	}
	*c = ChatID(strings.TrimSpace(n.Value))
	return nil
}

// Env holds the settings that come from the process environment.
type Env struct {
	BotToken        string
	ChannelUsername string
	ConfigPath      string
	DBPath          string
	DatabaseURL     string
	LogLevel        string
}

// FromEnv reads the environment part of the configuration.
func FromEnv() Env {
	level := getEnvOrDefault("LOG_LEVEL", "info")
	if os.Getenv("DEBUG") == "true" {
		level = "debug"
	}
	return Env{
		BotToken:        os.Getenv("BOT_TOKEN"),
		ChannelUsername: strings.TrimPrefix(os.Getenv("CHANNEL_USERNAME"), "@"),
		ConfigPath:      getEnvOrDefault("NEWSBOT_CONFIG", DefaultConfigPath),
		DBPath:          getEnvOrDefault("NEWSBOT_DB", DefaultDBPath),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LogLevel:        level,
	}
}

// Default returns a Config carrying every default value.
func Default() *Config {
	return &Config{
		Filters: Filters{MinScore: defaultMinScore},
		Telegram: Telegram{
			ParseMode:        "HTML",
			AddSourceHashtag: true,
			AddTime:          true,
			SendInterval:     defaultSendInterval,
			APIURL:           DefaultAPIURL,
			IndexMessage:     IndexMessage{Title: DefaultIndexTitle},
		},
		Fetch: Fetch{UserAgent: DefaultUserAgent},
	}
}

// Load reads the YAML document at path over the defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML document over the defaults.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Telegram.ParseMode == "" {
		cfg.Telegram.ParseMode = "HTML"
	}
	if cfg.Telegram.APIURL == "" {
		cfg.Telegram.APIURL = DefaultAPIURL
	}
	if cfg.Telegram.IndexMessage.Title == "" {
		cfg.Telegram.IndexMessage.Title = DefaultIndexTitle
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = DefaultUserAgent
	}
	return cfg, nil
}

// Validate reports missing credentials. Both are fatal before any processing.
func (c *Config) Validate() error {
	if c.Env.BotToken == "" {
		return ErrMissingToken
	}
	if c.Telegram.ChannelChatID == "" {
		return ErrMissingChatID
	}
	for i, s := range c.Sources {
		if s.URL == "" {
			return fmt.Errorf("sources[%d] (%s): url is required", i, s.Name)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
