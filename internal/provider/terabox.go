package provider

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkghttp "github.com/pavelc4/terabox-tg-bot/pkg/http"
	"github.com/pavelc4/terabox-tg-bot/pkg/utils"
)

// TeraboxDomains is the hosting domain family accepted by the resolver.
var TeraboxDomains = []string{
	"terabox.com",
	"teraboxapp.com",
	"4funbox.com",
	"4funbox.net",
	"mirrobox.com",
	"nephobox.com",
	"terabox.app",
	"terabyte.cc",
	"terabox.cc",
	"1024tera.com",
	"terabox.fun",
	"terabox.net",
	"teraboxlink.com",
	"teramox.com",
}

type TeraboxProvider struct {
	base    string
	client  *http.Client
	domains []string
	now     func() time.Time
}

// NewTerabox returns a provider that delegates extraction to the resolver
// API at base. The client carries no timeout: large files may stream for
// a long time.
func NewTerabox(base string, client *http.Client) *TeraboxProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &TeraboxProvider{
		base:    strings.TrimRight(base, "/"),
		client:  client,
		domains: TeraboxDomains,
		now:     time.Now,
	}
}

func (tp *TeraboxProvider) Name() string {
	return "TeraBox"
}

// Supports reports whether the link's host is one of the allowed domains
// or a subdomain of one.
func (tp *TeraboxProvider) Supports(link string) bool {
	u, err := url.Parse(NormalizeURL(link))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range tp.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func (tp *TeraboxProvider) RequestURL(link string) string {
	return tp.base + "/?" + url.Values{"url": {link}}.Encode()
}

func (tp *TeraboxProvider) Open(ctx context.Context, link string) (*Source, error) {
	resp, err := pkghttp.StreamRequest(ctx, tp.client, tp.RequestURL(link), nil)
	if err != nil {
		return nil, err
	}
	return &Source{
		Body:     resp.Body,
		Filename: FilenameFromDisposition(resp.ContentDisposition, tp.now()),
		Size:     resp.ContentLength,
		MimeType: resp.ContentType,
	}, nil
}

// FilenameFromDisposition extracts and sanitizes the filename from a
// Content-Disposition header, synthesizing one from now when the header
// is missing or yields nothing usable.
func FilenameFromDisposition(header string, now time.Time) string {
	var raw string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		raw = params["filename"]
	}
	if raw == "" {
		if idx := strings.LastIndex(header, "filename="); idx != -1 {
			raw = header[idx+len("filename="):]
			if semi := strings.IndexByte(raw, ';'); semi != -1 {
				raw = raw[:semi]
			}
			raw = strings.Trim(strings.TrimSpace(raw), `"`)
		}
	}

	if name := utils.SanitizeFilename(raw); name != "" {
		return name
	}
	return fmt.Sprintf("terabox_file_%d", now.Unix())
}
