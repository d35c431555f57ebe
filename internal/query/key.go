// Package query caches backend reads by key and keeps them consistent under
// concurrent fetches, optimistic writes and invalidation.
package query

import (
	"net/url"
	"strings"
)

// Key is an ordered list of segments, e.g. ["dashboard", "state-stats"].
type Key []string

// String renders the key with each segment path-escaped, so distinct keys never
// collide even when free-text segments contain "/".
func (k Key) String() string {
	escaped := make([]string, len(k))
	for i, seg := range k {
		escaped[i] = url.PathEscape(seg)
	}
	return strings.Join(escaped, "/")
}

// HasPrefix reports whether every segment of prefix matches the start of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, seg := range prefix {
		if k[i] != seg {
			return false
		}
	}
	return true
}

// Append returns a new key with extra segments; k is not modified.
func (k Key) Append(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	return append(out, segments...)
}
