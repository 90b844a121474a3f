package browsing

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/tyweb/core"
)

// Response is the result of fetching a resource. Header keys are lower-case.
type Response struct {
	Header map[string]string
	Body   []byte
}

// Fetcher loads resources. A non-empty payload is sent as a form submission.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL, payload string) (*Response, error)
}

// FileFetcher reads resources with scheme "file" from the local file system.
// Relative paths are interpreted relative to Root.
type FileFetcher struct {
	Root string
}

// Fetch is part of interface Fetcher.
func (ff FileFetcher) Fetch(ctx context.Context, u *url.URL, payload string) (*Response, error) {
	if u.Scheme != "file" && u.Scheme != "" {
		return nil, core.Error(core.EINVALID, "file fetcher cannot load %s", u)
	}
	if err := ctx.Err(); err != nil {
		return nil, core.ErrorWithCode(err, core.ECONNECTION)
	}
	path := filepath.FromSlash(u.Path)
	if !filepath.IsAbs(path) && ff.Root != "" {
		path = filepath.Join(ff.Root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read %s", path)
	}
	return &Response{Header: map[string]string{}, Body: data}, nil
}

// HTTPFetcher loads resources with the HTTP(S) protocol.
type HTTPFetcher struct {
	Client *http.Client // nil for http.DefaultClient
}

// Fetch is part of interface Fetcher.
func (hf HTTPFetcher) Fetch(ctx context.Context, u *url.URL, payload string) (*Response, error) {
	method, body := http.MethodGet, io.Reader(nil)
	if payload != "" {
		method, body = http.MethodPost, strings.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot create request for %s", u)
	}
	if payload != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	client := hf.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "cannot fetch %s", u)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err = buf.ReadFrom(resp.Body); err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "cannot read response of %s", u)
	}
	if resp.StatusCode >= 400 {
		return nil, core.Error(core.EMISSING, "fetching %s: %s", u, resp.Status)
	}
	header := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		header[strings.ToLower(k)] = resp.Header.Get(k)
	}
	return &Response{Header: header, Body: buf.Bytes()}, nil
}

// SchemeFetcher dispatches to a fetcher per URL scheme.
type SchemeFetcher map[string]Fetcher

// Fetch is part of interface Fetcher.
func (sf SchemeFetcher) Fetch(ctx context.Context, u *url.URL, payload string) (*Response, error) {
	f, ok := sf[u.Scheme]
	if !ok {
		return nil, core.Error(core.EINVALID, "unsupported scheme %q of %s", u.Scheme, u)
	}
	return f.Fetch(ctx, u, payload)
}

// --- Content security policy -----------------------------------------------

// origin returns scheme, host and port of a URL.
func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// parseCSP extracts the allowed origins from a content security policy.
// The result is nil if all origins are allowed.
func parseCSP(header map[string]string) []string {
	csp, ok := header["content-security-policy"]
	if !ok {
		return nil
	}
	fields := strings.Fields(csp)
	if len(fields) == 0 || fields[0] != "default-src" {
		return nil
	}
	allowed := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		if u, err := url.Parse(f); err == nil && u.Scheme != "" {
			allowed = append(allowed, origin(u))
		} else {
			allowed = append(allowed, f)
		}
	}
	return allowed
}
