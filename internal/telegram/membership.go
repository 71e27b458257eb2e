package telegram

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"
)

// Membership looks users up in the required channel. The channel is
// resolved on first use and remembered.
type Membership struct {
	api *tg.Client
	ref string

	mu      sync.Mutex
	channel *tg.InputChannel
}

func NewMembership(api *tg.Client, channelRef string) *Membership {
	return &Membership{api: api, ref: channelRef}
}

func (m *Membership) Participant(ctx context.Context, user *tg.InputPeerUser) (tg.ChannelParticipantClass, error) {
	channel, err := m.resolve(ctx)
	if err != nil {
		return nil, err
	}

	res, err := m.api.ChannelsGetParticipant(ctx, &tg.ChannelsGetParticipantRequest{
		Channel:     channel,
		Participant: user,
	})
	if err != nil {
		return nil, errors.Wrap(err, "get participant")
	}
	return res.Participant, nil
}

func (m *Membership) resolve(ctx context.Context) (*tg.InputChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.channel != nil {
		return m.channel, nil
	}
	channel, err := ResolveChannel(ctx, m.api, m.ref)
	if err != nil {
		return nil, err
	}
	m.channel = channel
	return channel, nil
}
