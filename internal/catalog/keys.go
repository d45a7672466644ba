package catalog

import (
	"fmt"
	"strings"
)

const syntheticKeyPrefix = "resource-"

// SyntheticKey builds a positional fallback key for a listing the travel
// api returned without an identifier. Synthetic keys keep lists renderable
// but are never valid for detail navigation.
func SyntheticKey(index int) string {
	return fmt.Sprintf("%s%d", syntheticKeyPrefix, index)
}

// IsSyntheticKey reports whether the id is a positional fallback key.
func IsSyntheticKey(id string) bool {
	return strings.HasPrefix(id, syntheticKeyPrefix)
}

type keyed interface {
	key() string
	setKey(string)
}

func (d *Destination) key() string     { return d.ID }
func (d *Destination) setKey(k string) { d.ID = k }

func (h *Hotel) key() string     { return h.ID }
func (h *Hotel) setKey(k string) { h.ID = k }

func (f *Flight) key() string     { return f.ID }
func (f *Flight) setKey(k string) { f.ID = k }

func (p *Package) key() string     { return p.ID }
func (p *Package) setKey(k string) { p.ID = k }

// ensureKeys assigns synthetic keys to entries missing an id and returns
// the indexes it had to patch.
func ensureKeys[T any, P interface {
	*T
	keyed
}](items []T) []int {
	var patched []int
	for i := range items {
		entry := P(&items[i])
		if strings.TrimSpace(entry.key()) == "" {
			entry.setKey(SyntheticKey(i))
			patched = append(patched, i)
		}
	}
	return patched
}
