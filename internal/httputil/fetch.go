// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultMaxBodyBytes = 20 << 20

// ErrPermanent marks failures that retrying cannot fix, such as a document
// that downloads fine but cannot be parsed.
var ErrPermanent = errors.New("permanent failure")

// FetchError describes a failed request to URL. StatusCode is zero when the
// request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying. Context cancellation,
// ErrPermanent, and 4xx responses other than 408 and 429 are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrPermanent) {
		return false
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.StatusCode >= 400 && fe.StatusCode < 500 {
		return fe.StatusCode == http.StatusRequestTimeout || fe.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// Response is a fully read HTTP response body.
type Response struct {
	// URL is the final URL after redirects.
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher performs GET requests with a per-call timeout. A zero Fetcher is
// not usable; set Client.
type Fetcher struct {
	Client       *http.Client
	UserAgents   UserAgentProvider
	ContactEmail string

	// Timeout bounds each call independently of sibling calls. Zero means
	// the caller's context is the only bound.
	Timeout time.Duration

	// MaxBodyBytes caps the bytes read from a response body (default 20 MiB).
	MaxBodyBytes int64
}

// WithTimeout returns a copy of f using timeout d.
func (f *Fetcher) WithTimeout(d time.Duration) *Fetcher {
	c := *f
	c.Timeout = d
	return &c
}

// Get fetches url and returns the body. Non-2xx responses and transport
// failures are returned as *FetchError.
func (f *Fetcher) Get(ctx context.Context, url, accept string) (*Response, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", ErrPermanent)}
	}
	if f.UserAgents != nil {
		req.Header.Set("User-Agent", f.UserAgents.UserAgent())
	}
	if f.ContactEmail != "" {
		req.Header.Set("From", f.ContactEmail)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	return &Response{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
