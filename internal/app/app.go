package app

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/config"
	"github.com/pavelc4/terabox-tg-bot/internal/bot"
	"github.com/pavelc4/terabox-tg-bot/internal/cache"
	"github.com/pavelc4/terabox-tg-bot/internal/download"
	"github.com/pavelc4/terabox-tg-bot/internal/gate"
	"github.com/pavelc4/terabox-tg-bot/internal/handler"
	"github.com/pavelc4/terabox-tg-bot/internal/provider"
	"github.com/pavelc4/terabox-tg-bot/internal/stats"
	"github.com/pavelc4/terabox-tg-bot/internal/streaming"
	"github.com/pavelc4/terabox-tg-bot/internal/telegram"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

type App struct {
	Bot *bot.Bot
	Cfg *config.Config

	client    *telegram.Client
	providers *provider.Registry
	streams   *streaming.Manager
	stats     *stats.BotStats
	cache     *cache.Cache
}

func New(cfg *config.Config) (*App, error) {
	providers := provider.NewRegistry(provider.NewTerabox(cfg.TeraboxAPI, &http.Client{}))

	streams := streaming.NewManager(streaming.Config{
		MaxConcurrentStreams: cfg.MaxConcurrentTransfers,
	})
	logger.Info("Transfer concurrency configured", "limit", streams.MaxStreams())

	b := bot.New()
	client, err := telegram.NewClient(cfg, b.Dispatcher())
	if err != nil {
		return nil, errors.Wrap(err, "create telegram client")
	}

	logger.Info("Application initialized successfully")
	return &App{
		Bot:       b,
		Cfg:       cfg,
		client:    client,
		providers: providers,
		streams:   streams,
		stats:     stats.New(),
		cache:     cache.New(),
	}, nil
}

// Start blocks until ctx is done or the client fails.
func (a *App) Start(ctx context.Context) error {
	return a.client.Run(ctx, a.Cfg.BotToken, a.ready)
}

// ready resolves the configured chats and installs the router.
func (a *App) ready(ctx context.Context, api *tg.Client, me *tg.User) error {
	dump, err := telegram.ResolvePeer(ctx, api, a.Cfg.DumpChannel)
	if err != nil {
		return errors.Wrapf(err, "resolve dump channel %q", a.Cfg.DumpChannel)
	}

	msgr := telegram.NewMessenger(api)
	sender := telegram.NewMediaSender(api)
	g := gate.New(telegram.NewMembership(api, a.Cfg.ChannelUsername))

	engine := download.NewEngine(download.Options{
		DownloadDir:    a.Cfg.DownloadDir,
		Channel:        a.Cfg.ChannelUsername,
		Dump:           dump,
		UploadProgress: a.Cfg.UploadProgress,
	}, a.providers, a.streams, sender, a.cache, a.stats)

	router := bot.NewRouter(
		handler.NewDownloadHandler(msgr, g, engine, a.providers, a.Cfg),
		handler.NewAdminHandler(msgr, a.stats, engine, a.Cfg.OwnerID, a.Cfg.DownloadDir),
		handler.NewBasicHandler(msgr, g, a.Cfg),
		msgr,
	)
	a.Bot.SetRouter(router)

	logger.Info("Bot is ready", "username", me.Username, "dump", a.Cfg.DumpChannel, "channel", a.Cfg.ChannelUsername)
	return nil
}
