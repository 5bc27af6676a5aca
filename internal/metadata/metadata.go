// Package metadata resolves the flat key/value metadata each page is built from.
package metadata

import (
	"maps"
	"sort"
	"strings"
)

// Metadata is the flat string namespace shared by generators and processors.
// It is built fresh per page and must not be mutated once handed to them.
type Metadata map[string]string

// Clone returns a shallow copy. A nil receiver yields an empty, non-nil map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	maps.Copy(out, m)
	return out
}

// Merge overlays other onto m in place; other wins on conflict.
func (m Metadata) Merge(other map[string]string) {
	maps.Copy(m, other)
}

// SetDefault sets key only if it is absent.
func (m Metadata) SetDefault(key, value string) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

// Get returns the value for key, or "" when absent.
func (m Metadata) Get(key string) string {
	return m[key]
}

// GetOr returns the value for key, or def when absent.
func (m Metadata) GetOr(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// First returns the first present, non-empty value among keys.
func (m Metadata) First(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Keys returns the keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bool interprets a metadata flag. Missing keys yield def.
func (m Metadata) Bool(key string, def bool) bool {
	v, ok := m[key]
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1", "on":
		return true
	case "false", "no", "0", "off":
		return false
	}
	return def
}
