package streaming

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type StateManager struct {
	states sync.Map
	now    func() time.Time
}

func NewStateManager() *StateManager {
	return &StateManager{now: time.Now}
}

func (sm *StateManager) NewState(requesterID int64) *StreamState {
	state := &StreamState{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		StartedAt:   sm.now(),
	}
	sm.states.Store(state.ID, state)
	return state
}

func (sm *StateManager) GetState(streamID string) (*StreamState, bool) {
	val, ok := sm.states.Load(streamID)
	if !ok {
		return nil, false
	}
	return val.(*StreamState), true
}

func (sm *StateManager) DeleteState(streamID string) {
	sm.states.Delete(streamID)
}

// Cancel flags the transfer if it exists and belongs to requesterID.
func (sm *StateManager) Cancel(streamID string, requesterID int64) bool {
	state, ok := sm.GetState(streamID)
	if !ok || state.RequesterID != requesterID {
		return false
	}
	state.Cancel()
	return true
}

func (sm *StateManager) Count() int {
	n := 0
	sm.states.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
