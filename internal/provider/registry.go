package provider

import (
	"errors"
	"net/url"
	"sync"
)

var ErrUnsupported = errors.New("no provider found for this URL")

type Registry struct {
	mu        sync.RWMutex
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// Find returns the first provider that accepts the link.
func (r *Registry) Find(link string) (Provider, error) {
	if _, err := url.Parse(link); err != nil {
		return nil, ErrUnsupported
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.Supports(link) {
			return p, nil
		}
	}
	return nil, ErrUnsupported
}

func (r *Registry) IsSupported(link string) bool {
	p, err := r.Find(link)
	return err == nil && p != nil
}
