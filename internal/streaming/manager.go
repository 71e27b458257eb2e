package streaming

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

const DefaultMaxConcurrentStreams = 4

type Manager struct {
	config Config
	state  *StateManager
	sem    *semaphore.Weighted
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxConcurrentStreams <= 0 {
		cfg.MaxConcurrentStreams = DefaultMaxConcurrentStreams
	}
	return &Manager{
		config: cfg,
		state:  NewStateManager(),
		sem:    semaphore.NewWeighted(int64(cfg.MaxConcurrentStreams)),
	}
}

// Begin waits for a free transfer slot and registers a new transfer for
// requesterID. finish releases the slot and forgets the state; it is safe
// to call more than once.
func (m *Manager) Begin(ctx context.Context, requesterID int64) (state *StreamState, finish func(), err error) {
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("resource acquire failed: %w", err)
	}

	state = m.state.NewState(requesterID)
	logger.Debug("Transfer registered", "transfer", state.ID, "user", requesterID)

	var once sync.Once
	finish = func() {
		once.Do(func() {
			m.state.DeleteState(state.ID)
			m.sem.Release(1)
		})
	}
	return state, finish, nil
}

func (m *Manager) Cancel(streamID string, requesterID int64) bool {
	ok := m.state.Cancel(streamID, requesterID)
	if ok {
		logger.Info("Transfer cancel requested", "transfer", streamID, "user", requesterID)
	}
	return ok
}

func (m *Manager) GetState(streamID string) (*StreamState, bool) {
	return m.state.GetState(streamID)
}

func (m *Manager) GetActiveStreams() int {
	return m.state.Count()
}

func (m *Manager) MaxStreams() int {
	return m.config.MaxConcurrentStreams
}
