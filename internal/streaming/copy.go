package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pavelc4/terabox-tg-bot/pkg/buffer"
)

// ErrIncomplete is returned when the source ends before the declared size.
var ErrIncomplete = errors.New("stream ended before declared size")

// ChunkFunc observes the running byte count after each written chunk.
type ChunkFunc func(done, total int64)

// CopyChunks streams src into dst in buffer.ChunkSize pieces. Before each
// write it checks the transfer's cancel flag and ctx; once either is set
// nothing more is written. total is the declared size and may be 0; when
// set, the stream must deliver exactly that many bytes.
func CopyChunks(ctx context.Context, dst io.Writer, src io.Reader, total int64, state *StreamState, onChunk ChunkFunc) (int64, error) {
	buf := buffer.Get()
	defer buffer.Put(buf)

	var done int64
	for {
		n, readErr := fill(src, buf)
		if n > 0 {
			if err := state.Err(); err != nil {
				return done, err
			}
			if err := ctx.Err(); err != nil {
				return done, err
			}

			if _, err := dst.Write(buf[:n]); err != nil {
				return done, fmt.Errorf("write failed: %w", err)
			}
			done += int64(n)
			state.setProgress(done, total)
			if onChunk != nil {
				onChunk(done, total)
			}
		}

		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				return done, fmt.Errorf("read failed: %w", readErr)
			}
			if total > 0 && done != total {
				return done, fmt.Errorf("%w: got %d of %d bytes", ErrIncomplete, done, total)
			}
			return done, nil
		}
	}
}

// fill reads until buf is full or src fails. Unlike io.ReadFull it passes
// the source's own error through, so a truncated body surfaces as
// io.ErrUnexpectedEOF instead of a clean end of stream.
func fill(src io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := src.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
