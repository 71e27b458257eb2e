package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"
)

type checkerFunc func(ctx context.Context, user *tg.InputPeerUser) (tg.ChannelParticipantClass, error)

func (f checkerFunc) Participant(ctx context.Context, user *tg.InputPeerUser) (tg.ChannelParticipantClass, error) {
	return f(ctx, user)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		p    tg.ChannelParticipantClass
		want bool
	}{
		{"creator", &tg.ChannelParticipantCreator{UserID: 1}, true},
		{"admin", &tg.ChannelParticipantAdmin{UserID: 1}, true},
		{"member", &tg.ChannelParticipant{UserID: 1}, true},
		{"self", &tg.ChannelParticipantSelf{UserID: 1}, true},
		{"left", &tg.ChannelParticipantLeft{Peer: &tg.PeerUser{UserID: 1}}, false},
		{"banned", &tg.ChannelParticipantBanned{Peer: &tg.PeerUser{UserID: 1}}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.p))
		})
	}
}

func TestAllowed(t *testing.T) {
	user := &tg.InputPeerUser{UserID: 7, AccessHash: 9}

	tests := []struct {
		name string
		p    tg.ChannelParticipantClass
		err  error
		want bool
	}{
		{"member", &tg.ChannelParticipant{UserID: 7}, nil, true},
		{"admin", &tg.ChannelParticipantAdmin{UserID: 7}, nil, true},
		{"left", &tg.ChannelParticipantLeft{Peer: &tg.PeerUser{UserID: 7}}, nil, false},
		{"not participant", nil, tgerr.New(400, "USER_NOT_PARTICIPANT"), false},
		{"lookup error", nil, errors.New("CHANNEL_PRIVATE"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(checkerFunc(func(_ context.Context, u *tg.InputPeerUser) (tg.ChannelParticipantClass, error) {
				assert.Equal(t, user, u)
				return tt.p, tt.err
			}))
			assert.Equal(t, tt.want, g.Allowed(context.Background(), user))
		})
	}
}
