package gate

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

// MembershipChecker looks up a user in the required channel.
type MembershipChecker interface {
	Participant(ctx context.Context, user *tg.InputPeerUser) (tg.ChannelParticipantClass, error)
}

// Classify reports whether p counts as a member: creator, admin or plain
// member. Users who left or were banned do not.
func Classify(p tg.ChannelParticipantClass) bool {
	switch p.(type) {
	case *tg.ChannelParticipantCreator,
		*tg.ChannelParticipantAdmin,
		*tg.ChannelParticipant,
		*tg.ChannelParticipantSelf:
		return true
	default:
		return false
	}
}

type Gate struct {
	checker MembershipChecker
}

func New(checker MembershipChecker) *Gate {
	return &Gate{checker: checker}
}

// Allowed reports whether user may use the bot. Lookup failures deny
// access.
func (g *Gate) Allowed(ctx context.Context, user *tg.InputPeerUser) bool {
	log := logger.Log.With("user", user.UserID)

	p, err := g.checker.Participant(ctx, user)
	if err != nil {
		if tgerr.Is(err, "USER_NOT_PARTICIPANT") {
			log.Info("User is not a participant")
			return false
		}
		log.Error("Subscription check failed", "error", err)
		return false
	}

	ok := Classify(p)
	log.Debug("Subscription checked", "participant", fmt.Sprintf("%T", p), "allowed", ok)
	return ok
}
