package cache

import (
	"sync"

	"github.com/gotd/td/tg"
)

type MediaType int

const (
	TypeDocument MediaType = iota
	TypePhoto
)

// CachedMedia references a file already stored on Telegram. It can be
// sent again without uploading.
type CachedMedia struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	Type          MediaType
	Filename      string
	Size          int64
}

// Input builds the media reference for messages.sendMedia.
func (m *CachedMedia) Input() tg.InputMediaClass {
	if m.Type == TypePhoto {
		return &tg.InputMediaPhoto{
			ID: &tg.InputPhoto{
				ID:            m.ID,
				AccessHash:    m.AccessHash,
				FileReference: m.FileReference,
			},
		}
	}
	return &tg.InputMediaDocument{
		ID: &tg.InputDocument{
			ID:            m.ID,
			AccessHash:    m.AccessHash,
			FileReference: m.FileReference,
		},
	}
}

// FromMessageMedia extracts a reusable reference from a sent message's
// media. It returns nil for media without a stored file.
func FromMessageMedia(media tg.MessageMediaClass) *CachedMedia {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		if photo, ok := m.Photo.(*tg.Photo); ok {
			return &CachedMedia{
				ID:            photo.ID,
				AccessHash:    photo.AccessHash,
				FileReference: photo.FileReference,
				Type:          TypePhoto,
			}
		}
	case *tg.MessageMediaDocument:
		if doc, ok := m.Document.(*tg.Document); ok {
			return &CachedMedia{
				ID:            doc.ID,
				AccessHash:    doc.AccessHash,
				FileReference: doc.FileReference,
				Type:          TypeDocument,
				Size:          doc.Size,
			}
		}
	}
	return nil
}

// Cache maps a share link to the dump channel copy of its file.
type Cache struct {
	data map[string]*CachedMedia
	mu   sync.RWMutex
}

func New() *Cache {
	return &Cache{data: make(map[string]*CachedMedia)}
}

func (c *Cache) Get(key string) *CachedMedia {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[key]
}

func (c *Cache) Set(key string, media *CachedMedia) {
	if media == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = media
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
