// Package quota tracks the remote platform's rate-limit state as
// observed from response headers. Windows are held in a process-wide
// registry keyed by credential identity so that short-lived gateway
// clients sharing one API key also share quota awareness.
package quota

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sendlens/sendlens/internal/core"
)

// Header names reported by the platform on every response.
const (
	HeaderLimit     = "x-ratelimit-limit"
	HeaderRemaining = "x-ratelimit-remaining"
	HeaderReset     = "x-ratelimit-reset"
)

// Registry holds the last observed quota window per credential for the
// lifetime of the process.
type Registry struct {
	mu      sync.RWMutex
	windows map[string]core.QuotaWindow
	Clock   func() time.Time
}

// NewRegistry creates an empty process-wide quota registry.
func NewRegistry() *Registry {
	return &Registry{windows: make(map[string]core.QuotaWindow)}
}

// Tracker is a view of one credential's slot in the registry.
type Tracker struct {
	registry *Registry
	key      string
}

// TrackerFor returns the tracker bound to the given API key. The raw
// key never leaves this function; the registry is keyed by its digest.
func (r *Registry) TrackerFor(apiKey string) *Tracker {
	return &Tracker{registry: r, key: CredentialID(apiKey)}
}

// CredentialID derives a stable identity for an API key without
// retaining the key itself.
func CredentialID(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8])
}

// Observe replaces the credential's window when all three rate-limit
// headers are present and parseable. Partial or malformed header sets
// leave the previous window unchanged.
func (t *Tracker) Observe(headers http.Header) {
	if t == nil || t.registry == nil || headers == nil {
		return
	}

	limit, err := strconv.Atoi(headers.Get(HeaderLimit))
	if err != nil {
		return
	}
	remaining, err := strconv.Atoi(headers.Get(HeaderRemaining))
	if err != nil {
		return
	}
	resetEpoch, err := strconv.ParseInt(headers.Get(HeaderReset), 10, 64)
	if err != nil {
		return
	}

	if remaining < 0 {
		remaining = 0
	}

	t.registry.mu.Lock()
	t.registry.windows[t.key] = core.QuotaWindow{
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.Unix(resetEpoch, 0).UTC(),
	}
	t.registry.mu.Unlock()
}

// Window returns the last observed window and whether one exists.
func (t *Tracker) Window() (core.QuotaWindow, bool) {
	if t == nil || t.registry == nil {
		return core.QuotaWindow{}, false
	}
	t.registry.mu.RLock()
	defer t.registry.mu.RUnlock()
	window, ok := t.registry.windows[t.key]
	return window, ok
}

// Blocked reports whether a window has been observed with no requests
// remaining. Advisory only; the gateway uses it to pre-empt calls.
func (t *Tracker) Blocked() bool {
	window, ok := t.Window()
	return ok && window.Remaining == 0
}

// TimeUntilReset returns how long until the observed window resets,
// never negative, and zero before any observation.
func (t *Tracker) TimeUntilReset() time.Duration {
	window, ok := t.Window()
	if !ok {
		return 0
	}
	until := window.ResetAt.Sub(t.now())
	if until < 0 {
		return 0
	}
	return until
}

// Describe renders a human-readable summary of the current window, or
// an empty string before any observation.
func (t *Tracker) Describe() string {
	window, ok := t.Window()
	if !ok {
		return ""
	}
	minutes := int(math.Ceil(t.TimeUntilReset().Minutes()))
	return fmt.Sprintf("Rate limit: %d/%d remaining. Resets in %d minutes.", window.Remaining, window.Limit, minutes)
}

func (t *Tracker) now() time.Time {
	if t != nil && t.registry != nil && t.registry.Clock != nil {
		return t.registry.Clock()
	}
	return time.Now().UTC()
}
