package telegram

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/tg"
)

// InputPeer converts a PeerClass to InputPeerClass using the update's
// entities.
func InputPeer(peer tg.PeerClass, entities tg.Entities) (tg.InputPeerClass, error) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		user, ok := entities.Users[p.UserID]
		if !ok {
			return nil, errors.Errorf("user %d not found in entities", p.UserID)
		}
		return &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: p.ChatID}, nil
	case *tg.PeerChannel:
		channel, ok := entities.Channels[p.ChannelID]
		if !ok {
			return nil, errors.Errorf("channel %d not found in entities", p.ChannelID)
		}
		return &tg.InputPeerChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}, nil
	default:
		return nil, errors.Errorf("unknown peer type: %T", peer)
	}
}

// InputUser returns the input peer of a user seen in entities.
func InputUser(userID int64, entities tg.Entities) (*tg.InputPeerUser, error) {
	user, ok := entities.Users[userID]
	if !ok {
		return nil, errors.Errorf("user %d not found in entities", userID)
	}
	return &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
}

// ResolvePeer resolves a configured chat reference: @username, a bare
// username or a numeric -100... channel identifier.
func ResolvePeer(ctx context.Context, api *tg.Client, ref string) (tg.InputPeerClass, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("empty chat reference")
	}

	if id, ok := channelID(ref); ok {
		chats, err := api.ChannelsGetChannels(ctx, []tg.InputChannelClass{
			&tg.InputChannel{ChannelID: id},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "get channel %d", id)
		}
		for _, chat := range chats.GetChats() {
			if ch, ok := chat.(*tg.Channel); ok && ch.ID == id {
				return &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}, nil
			}
		}
		return nil, errors.Errorf("channel %d not found", id)
	}

	peer, err := message.NewSender(api).Resolve("@" + strings.TrimPrefix(ref, "@")).AsInputPeer(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", ref)
	}
	return peer, nil
}

// ResolveChannel is ResolvePeer restricted to channels.
func ResolveChannel(ctx context.Context, api *tg.Client, ref string) (*tg.InputChannel, error) {
	peer, err := ResolvePeer(ctx, api, ref)
	if err != nil {
		return nil, err
	}
	ch, ok := peer.(*tg.InputPeerChannel)
	if !ok {
		return nil, errors.Errorf("%s is not a channel", ref)
	}
	return &tg.InputChannel{ChannelID: ch.ChannelID, AccessHash: ch.AccessHash}, nil
}

// channelID parses the Bot API style -100<id> channel identifier.
func channelID(ref string) (int64, bool) {
	rest, ok := strings.CutPrefix(ref, "-100")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
