// Package telegram posts messages through the Telegram Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	DefaultTimeout = 15 * time.Second

	maxErrorBody = 4 << 10
)

// Button is an inline keyboard button opening a URL.
type Button struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Message is one sendMessage call.
type Message struct {
	ChatID                string
	Text                  string
	ParseMode             string
	DisableWebPagePreview bool
	// Buttons are rows of inline keyboard buttons; nil sends no keyboard.
	Buttons [][]Button
}

// APIError is a non-200 answer from the Bot API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error: status %d: %s", e.StatusCode, e.Body)
}

// Client sends messages for one bot token.
type Client struct {
	token  string
	apiURL string
	httpc  *http.Client
}

// NewClient returns a Client. An empty apiURL means the public Bot API; a nil
// httpc gets a client with DefaultTimeout.
func NewClient(token, apiURL string, httpc *http.Client) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		token:  token,
		apiURL: strings.TrimRight(apiURL, "/"),
		httpc:  httpc,
	}
}

// SendMessage makes a single attempt to deliver m. There is no retry.
func (c *Client) SendMessage(ctx context.Context, m Message) error {
	form, err := encodeMessage(m)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of logs.
		return fmt.Errorf("send message: %w", redact(err, c.token))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func encodeMessage(m Message) (url.Values, error) {
	form := url.Values{}
	form.Set("chat_id", m.ChatID)
	form.Set("text", m.Text)
	if m.ParseMode != "" {
		form.Set("parse_mode", m.ParseMode)
	}
	form.Set("disable_web_page_preview", strconv.FormatBool(m.DisableWebPagePreview))
	if len(m.Buttons) > 0 {
		markup, err := json.Marshal(struct {
			InlineKeyboard [][]Button `json:"inline_keyboard"`
		}{m.Buttons})
		if err != nil {
			return nil, fmt.Errorf("encode reply_markup: %w", err)
		}
		form.Set("reply_markup", string(markup))
	}
	return form, nil
}

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), token, "<token>")
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}
