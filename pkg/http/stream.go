package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// StatusError is returned when the server answers with anything but 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: %d %s", e.Code, http.StatusText(e.Code))
}

// Response is an open streamed response. The caller must close Body.
type Response struct {
	Body               io.ReadCloser
	ContentLength      int64
	ContentType        string
	ContentDisposition string
}

// StreamRequest issues a GET and returns the body unread. No timeout is
// applied beyond what ctx and the client carry.
func StreamRequest(ctx context.Context, client *http.Client, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}

	size := resp.ContentLength
	if size < 0 {
		// fall back to the raw header, e.g. when a proxy rewrote the encoding
		size, _ = strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	}

	return &Response{
		Body:               resp.Body,
		ContentLength:      max(size, 0),
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}, nil
}
