package app

import (
	"context"

	"github.com/deusflow/newsbot/internal/config"
	"github.com/deusflow/newsbot/internal/telegram"
)

const buttonsPerRow = 3

// BuildIndexButtons lays out one button per configured category search,
// three per row, each opening the channel's public web view filtered by its query.
func BuildIndexButtons(channel string, buttons []config.IndexButton) [][]telegram.Button {
	base := "https://t.me/s/" + channel
	var rows [][]telegram.Button
	var row []telegram.Button
	for _, b := range buttons {
		row = append(row, telegram.Button{Text: b.Text, URL: base + "?q=" + b.URLQuery})
		if len(row) == buttonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// sendIndex posts the navigation message when it is enabled and a channel
// handle is known. Failures are logged only.
func (a *App) sendIndex(ctx context.Context) error {
	idx := a.cfg.Telegram.IndexMessage
	if !idx.Enabled {
		return nil
	}
	channel := a.cfg.Env.ChannelUsername
	if channel == "" {
		a.log.Warn("index message enabled but CHANNEL_USERNAME is not set, skipping")
		return nil
	}

	if err := a.pacer.Wait(ctx); err != nil {
		return err
	}
	msg := telegram.Message{
		ChatID:                string(a.cfg.Telegram.ChannelChatID),
		Text:                  idx.Title,
		ParseMode:             a.cfg.Telegram.ParseMode,
		DisableWebPagePreview: a.cfg.Telegram.DisableWebPagePreview,
		Buttons:               BuildIndexButtons(channel, idx.Buttons),
	}
	if err := a.sender.SendMessage(ctx, msg); err != nil {
		a.log.Error("failed to send index message", "error", err)
		a.metrics.IncrementDeliveryFailures()
		return nil
	}
	a.metrics.IncrementIndexMessages()
	a.log.Info("index message sent", "buttons", len(idx.Buttons))
	return nil
}
