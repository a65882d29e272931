// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import "sync/atomic"

// UserAgentProvider supplies the User-Agent header for each request.
type UserAgentProvider interface {
	UserAgent() string
}

// StaticUserAgent always returns the same User-Agent.
type StaticUserAgent string

// UserAgent returns s.
func (s StaticUserAgent) UserAgent() string { return string(s) }

// DefaultUserAgents are common desktop browser strings. Several official
// portals reject requests that do not look like a browser.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:131.0) Gecko/20100101 Firefox/131.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:131.0) Gecko/20100101 Firefox/131.0",
}

// RotatingUserAgents cycles through a fixed list in order. It is safe for
// concurrent use and deterministic for a given call sequence.
type RotatingUserAgents struct {
	agents []string
	next   atomic.Uint64
}

// NewRotatingUserAgents returns a provider cycling through agents, or
// DefaultUserAgents when none are given.
func NewRotatingUserAgents(agents ...string) *RotatingUserAgents {
	if len(agents) == 0 {
		agents = DefaultUserAgents
	}
	return &RotatingUserAgents{agents: append([]string(nil), agents...)}
}

// UserAgent returns the next agent in the cycle.
func (r *RotatingUserAgents) UserAgent() string {
	n := r.next.Add(1) - 1
	return r.agents[n%uint64(len(r.agents))]
}
