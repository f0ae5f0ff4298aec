package ai

import (
	"errors"
	"sync/atomic"
)

// ErrNoKeys is returned when a provider has no API key configured.
var ErrNoKeys = errors.New("No API keys available")

// KeyRing hands out API keys round-robin. It is safe for concurrent use.
type KeyRing struct {
	keys []string
	next atomic.Uint64
}

// NewKeyRing builds a ring over the non-empty keys.
func NewKeyRing(keys ...string) *KeyRing {
	r := &KeyRing{}
	for _, k := range keys {
		if k != "" {
			r.keys = append(r.keys, k)
		}
	}
	return r
}

// Next returns the next key in rotation.
func (r *KeyRing) Next() (string, error) {
	if len(r.keys) == 0 {
		return "", ErrNoKeys
	}
	n := r.next.Add(1) - 1
	return r.keys[n%uint64(len(r.keys))], nil
}

// Len is the number of keys in rotation.
func (r *KeyRing) Len() int {
	return len(r.keys)
}
