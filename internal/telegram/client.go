package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/config"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

// ReadyFunc runs once the bot is authorized, before updates are handled.
type ReadyFunc func(ctx context.Context, api *tg.Client, me *tg.User) error

type Client struct {
	client *telegram.Client
	api    *tg.Client
	me     *tg.User
}

func NewClient(cfg *config.Config, handler telegram.UpdateHandler) (*Client, error) {
	if err := os.MkdirAll(cfg.SessionDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	client := telegram.NewClient(cfg.AppID, cfg.AppHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: filepath.Join(cfg.SessionDir, "session.json")},
		UpdateHandler:  handler,
	})

	return &Client{
		client: client,
		api:    client.API(),
	}, nil
}

// Run connects, logs in as a bot and blocks until ctx is done.
func (c *Client) Run(ctx context.Context, botToken string, ready ReadyFunc) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		status, err := c.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status failed: %w", err)
		}

		if !status.Authorized {
			if _, err := c.client.Auth().Bot(ctx, botToken); err != nil {
				return fmt.Errorf("bot login failed: %w", err)
			}
		}

		me, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self failed: %w", err)
		}
		c.me = me
		logger.Info("Telegram client connected", "username", me.Username, "id", me.ID)

		if ready != nil {
			if err := ready(ctx, c.api, me); err != nil {
				return err
			}
		}

		<-ctx.Done()
		return nil
	})
}

func (c *Client) API() *tg.Client {
	return c.api
}

func (c *Client) Me() *tg.User {
	return c.me
}
