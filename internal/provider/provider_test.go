package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/pavelc4/terabox-tg-bot/pkg/http"
)

func TestTeraboxSupports(t *testing.T) {
	tp := NewTerabox("http://resolver", nil)
	tests := []struct {
		link string
		want bool
	}{
		{"https://terabox.com/s/1abc", true},
		{"https://www.terabox.com/s/1abc", true},
		{"https://www.teraboxapp.com/s/1abc", true},
		{"http://1024tera.com/s/xyz", true},
		{"https://TERABOX.APP/s/xyz", true},
		{"https://teramox.com/s/1", true},
		{"https://evilterabox.com/s/1", false},
		{"https://terabox.com.evil.net/s/1", false},
		{"https://youtube.com/watch?v=1", false},
		{"ftp://terabox.com/s/1", false},
		{"terabox.com/s/1", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tp.Supports(tt.link), tt.link)
	}
}

func TestTeraboxRequestURL(t *testing.T) {
	tp := NewTerabox("https://api.example.com/", nil)
	link := "https://terabox.com/s/1a b?x=1&y=2"

	got := tp.RequestURL(link)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "api.example.com", u.Host)
	assert.Equal(t, "/", u.Path)
	assert.Equal(t, link, u.Query().Get("url"))
	assert.NotContains(t, u.RawQuery, "&y=", "link must be encoded as one parameter")
}

func TestTeraboxOpen(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "https://terabox.com/s/1", r.URL.Query().Get("url"))
			w.Header().Set("Content-Disposition", `attachment; filename="movie.mp4"`)
			w.Write(make([]byte, 100))
		}))
		defer srv.Close()

		src, err := NewTerabox(srv.URL, srv.Client()).Open(context.Background(), "https://terabox.com/s/1")
		require.NoError(t, err)
		defer src.Body.Close()

		assert.Equal(t, "movie.mp4", src.Filename)
		assert.Equal(t, int64(100), src.Size)
		n, err := io.Copy(io.Discard, src.Body)
		require.NoError(t, err)
		assert.Equal(t, int64(100), n)
	})
	t.Run("upstream status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewTerabox(srv.URL, srv.Client()).Open(context.Background(), "https://terabox.com/s/1")
		var se *pkghttp.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadGateway, se.Code)
	})
}

func TestFilenameFromDisposition(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"quoted", `attachment; filename="movie.mp4"`, "movie.mp4"},
		{"bare", `attachment; filename=clip.mkv`, "clip.mkv"},
		{"traversal", `attachment; filename="../../etc/passwd"`, "....etcpasswd"},
		{"unparseable params", `attachment; filename="a b".txt; x`, "a b.txt"},
		{"only dots", `attachment; filename=".."`, "terabox_file_1700000000"},
		{"missing", "", "terabox_file_1700000000"},
		{"no filename", "inline", "terabox_file_1700000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFromDisposition(tt.header, now))
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewTerabox("http://resolver", nil))

	p, err := r.Find("https://terabox.com/s/1")
	require.NoError(t, err)
	assert.Equal(t, "TeraBox", p.Name())

	_, err = r.Find("https://example.com/file")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, r.IsSupported("https://example.com/file"))
	assert.True(t, r.IsSupported("https://www.4funbox.com/s/1"))
}

func TestExtractURL(t *testing.T) {
	assert.Equal(t, "https://terabox.com/s/1", ExtractURL("grab this https://terabox.com/s/1 please"))
	assert.Equal(t, "", ExtractURL("no link here"))
	assert.Equal(t, "https://terabox.com/s/1", ExtractURL("(see https://terabox.com/s/1)."))
	assert.Equal(t, "HTTPS://TeraBox.com/s/1", ExtractURL("HTTPS://TeraBox.com/s/1"))
	assert.Equal(t, "https://a.com/x", ExtractURL(`<a href="https://a.com/x">`))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://terabox.com/s/1", NormalizeURL("  https://terabox.com/s/1!\n"))
	assert.Equal(t, "https://terabox.com/s/1?x=1", NormalizeURL("https://terabox.com/s/1?x=1"))
}
