package provider

import (
	"context"
	"io"
)

// Source is an opened resolver response.
type Source struct {
	Body     io.ReadCloser
	Filename string // sanitized, never empty
	Size     int64  // 0 when the resolver did not declare it
	MimeType string
}

type Provider interface {
	Name() string
	Supports(link string) bool
	Open(ctx context.Context, link string) (*Source, error)
}
