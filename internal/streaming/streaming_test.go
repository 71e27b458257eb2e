package streaming

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/terabox-tg-bot/pkg/buffer"
)

func TestManagerBeginFinish(t *testing.T) {
	m := NewManager(Config{MaxConcurrentStreams: 2})

	s1, finish1, err := m.Begin(context.Background(), 10)
	require.NoError(t, err)
	s2, finish2, err := m.Begin(context.Background(), 20)
	require.NoError(t, err)

	assert.NotEqual(t, s1.ID, s2.ID)
	assert.Equal(t, 2, m.GetActiveStreams())

	got, ok := m.GetState(s1.ID)
	require.True(t, ok)
	assert.Same(t, s1, got)

	finish1()
	finish1()
	finish2()
	assert.Equal(t, 0, m.GetActiveStreams())
	_, ok = m.GetState(s1.ID)
	assert.False(t, ok)
}

func TestManagerBeginWaitsForSlot(t *testing.T) {
	m := NewManager(Config{MaxConcurrentStreams: 1})
	_, finish, err := m.Begin(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err = m.Begin(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	finish()
	_, finish, err = m.Begin(context.Background(), 2)
	require.NoError(t, err)
	finish()
}

func TestManagerCancelScopedToRequester(t *testing.T) {
	m := NewManager(Config{})
	assert.Equal(t, DefaultMaxConcurrentStreams, m.MaxStreams())

	a, finishA, err := m.Begin(context.Background(), 1)
	require.NoError(t, err)
	defer finishA()
	b, finishB, err := m.Begin(context.Background(), 2)
	require.NoError(t, err)
	defer finishB()

	assert.False(t, m.Cancel(a.ID, 2), "other users cannot cancel")
	assert.False(t, m.Cancel("missing", 1))
	assert.True(t, m.Cancel(a.ID, 1))

	assert.True(t, a.Cancelled())
	assert.False(t, b.Cancelled(), "cancelling one transfer leaves others running")
	assert.ErrorIs(t, a.Err(), ErrCancelled)
	assert.NoError(t, b.Err())
	assert.False(t, a.Cancel(), "second cancel is a no-op")
}

func TestCopyChunks(t *testing.T) {
	src := bytes.Repeat([]byte{0xAB}, 2*buffer.ChunkSize+100)
	state := NewStateManager().NewState(1)

	var seen []int64
	var dst bytes.Buffer
	n, err := CopyChunks(context.Background(), &dst, bytes.NewReader(src), int64(len(src)), state,
		func(done, total int64) {
			assert.Equal(t, int64(len(src)), total)
			seen = append(seen, done)
		})

	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, dst.Bytes())
	assert.Equal(t, []int64{buffer.ChunkSize, 2 * buffer.ChunkSize, int64(len(src))}, seen)

	done, total := state.Progress()
	assert.Equal(t, n, done)
	assert.Equal(t, n, total)
}

func TestCopyChunksEmpty(t *testing.T) {
	state := NewStateManager().NewState(1)
	called := false
	n, err := CopyChunks(context.Background(), &bytes.Buffer{}, strings.NewReader(""), 0, state,
		func(int64, int64) { called = true })
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, called)
}

func TestCopyChunksStopsOnCancel(t *testing.T) {
	src := bytes.Repeat([]byte{1}, 4*buffer.ChunkSize)
	state := NewStateManager().NewState(1)

	var dst bytes.Buffer
	n, err := CopyChunks(context.Background(), &dst, bytes.NewReader(src), int64(len(src)), state,
		func(done, _ int64) {
			if done == buffer.ChunkSize {
				state.Cancel()
			}
		})

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, int64(buffer.ChunkSize), n)
	assert.Equal(t, buffer.ChunkSize, dst.Len(), "no writes after the flag is set")
}

func TestCopyChunksContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dst bytes.Buffer
	_, err := CopyChunks(ctx, &dst, strings.NewReader("data"), 4, NewStateManager().NewState(1), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, dst.Len())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestCopyChunksReadError(t *testing.T) {
	_, err := CopyChunks(context.Background(), &bytes.Buffer{}, failingReader{}, 0, NewStateManager().NewState(1), nil)
	assert.ErrorContains(t, err, "connection reset")
}

// truncatedReader delivers data and then fails the way net/http does when
// the connection closes before Content-Length.
type truncatedReader struct {
	data []byte
}

func (r *truncatedReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestCopyChunksTruncatedSource(t *testing.T) {
	var dst bytes.Buffer
	n, err := CopyChunks(context.Background(), &dst, &truncatedReader{data: make([]byte, 8000)}, 0,
		NewStateManager().NewState(1), nil)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, int64(8000), n)
}

func TestCopyChunksShortOfDeclaredSize(t *testing.T) {
	src := bytes.Repeat([]byte{2}, 100)
	n, err := CopyChunks(context.Background(), &bytes.Buffer{}, bytes.NewReader(src), 200,
		NewStateManager().NewState(1), nil)

	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, int64(100), n)
}

func TestCopyChunksSmallReads(t *testing.T) {
	src := bytes.Repeat([]byte{3}, buffer.ChunkSize+10)
	var seen []int64
	n, err := CopyChunks(context.Background(), &bytes.Buffer{}, iotest.OneByteReader(bytes.NewReader(src)),
		int64(len(src)), NewStateManager().NewState(1), func(done, _ int64) { seen = append(seen, done) })

	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, []int64{buffer.ChunkSize, int64(len(src))}, seen, "chunks are filled before writing")
}
