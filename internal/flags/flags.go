// Package flags provides feature flag support for optional behavior.
// Flags are read-only after initialization and unknown flags are off.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/hostpad/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagBypassHostCache makes every host list read go to the database
	// instead of the in-process cache.
	FlagBypassHostCache = "bypass-host-cache"

	// FlagReviewAll includes already-reviewed hosts in a review pass.
	FlagReviewAll = "review-all"
)

// Known lists every flag hostpad reads, sorted.
func Known() []string {
	return []string{FlagBypassHostCache, FlagReviewAll}
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from the config's flags map. The map is copied;
// nil yields an empty registry with every flag off.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is on. Unknown flags and a nil
// registry report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}

// Unknown returns the configured names hostpad does not read, sorted.
// They are usually typos.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	var unknown []string
	for name := range r.flags {
		if !slices.Contains(Known(), name) {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return unknown
}
