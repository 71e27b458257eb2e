package bot

import (
	"context"
	"sync/atomic"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/middleware"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

// Bot owns the update dispatcher. Updates that arrive before a router is
// installed are dropped.
type Bot struct {
	dispatcher tg.UpdateDispatcher
	router     atomic.Pointer[Router]
}

func New() *Bot {
	b := &Bot{dispatcher: tg.NewUpdateDispatcher()}

	b.dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
		go b.run("OnNewMessage", func(r *Router) error { return r.OnMessage(ctx, e, update) })()
		return nil
	})
	b.dispatcher.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, update *tg.UpdateNewChannelMessage) error {
		go b.run("OnNewChannelMessage", func(r *Router) error { return r.OnChannelMessage(ctx, e, update) })()
		return nil
	})
	b.dispatcher.OnBotCallbackQuery(func(ctx context.Context, e tg.Entities, update *tg.UpdateBotCallbackQuery) error {
		go b.run("OnBotCallbackQuery", func(r *Router) error { return r.OnCallback(ctx, e, update) })()
		return nil
	})
	return b
}

// Dispatcher is the update handler to hand to the telegram client.
func (b *Bot) Dispatcher() tg.UpdateDispatcher {
	return b.dispatcher
}

func (b *Bot) SetRouter(r *Router) {
	b.router.Store(r)
}

func (b *Bot) Ready() bool {
	return b.router.Load() != nil
}

func (b *Bot) run(name string, fn func(r *Router) error) func() {
	handler := func() {
		r := b.router.Load()
		if r == nil {
			logger.Debug("Update dropped before bot is ready", "handler", name)
			return
		}
		if err := fn(r); err != nil {
			logger.Debug("Handler returned error", "handler", name, "error", err)
		}
	}
	return middleware.Chain(handler, middleware.Recover, middleware.Named(name))
}
