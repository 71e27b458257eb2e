package download

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
	"github.com/pavelc4/terabox-tg-bot/internal/streaming"
)

// Kind tags how a transfer ended unsuccessfully.
type Kind int

const (
	KindUnexpected Kind = iota
	KindCancelled
	KindUpstream
	KindUploadFailed
	KindRelayFailed
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindCancelled:
		return "cancelled"
	case KindUpstream:
		return "upstream"
	case KindUploadFailed:
		return "upload_failed"
	case KindRelayFailed:
		return "relay_failed"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unexpected"
	}
}

// Error is the terminal error of a transfer. Code is the resolver's HTTP
// status for KindUpstream.
type Error struct {
	Kind Kind
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Untagged errors are unexpected, except
// cancellation which is recognized anywhere in the chain.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	if isCancelled(err) {
		return KindCancelled
	}
	return KindUnexpected
}

func isCancelled(err error) bool {
	return errors.Is(err, streaming.ErrCancelled) || errors.Is(err, context.Canceled)
}

// classify tags err, keeping an existing tag.
func classify(err error, fallback Kind) error {
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	if isCancelled(err) {
		return &Error{Kind: KindCancelled, Err: err}
	}
	return &Error{Kind: fallback, Err: err}
}

// StatusText maps a terminal error to the single status line shown to the
// user.
func StatusText(err error) string {
	var te *Error
	if !errors.As(err, &te) {
		if isCancelled(err) {
			return messaging.StatusCancelled
		}
		return messaging.StatusFailed(err)
	}

	switch te.Kind {
	case KindCancelled:
		return messaging.StatusCancelled
	case KindUpstream:
		return messaging.StatusUpstream(te.Code)
	case KindUploadFailed:
		return messaging.StatusUploadFailed
	case KindRelayFailed:
		return messaging.StatusRelayFailed
	case KindUnsupported:
		return messaging.StatusUnsupported
	default:
		if te.Err == nil {
			return messaging.StatusFailed(te)
		}
		return messaging.StatusFailed(te.Err)
	}
}
