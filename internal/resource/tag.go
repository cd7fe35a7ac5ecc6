package resource

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tileworld/internal/ident"
)

// TagSpec defines a tag as loaded from asset files. Entries name items, or
// other tags for nested categories.
type TagSpec struct {
	Name    string   `json:"name"`
	Entries []string `json:"entries"`
}

func (s *TagSpec) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name must be set"))
	}

	for i, e := range s.Entries {
		if e == "" {
			el.Add(fmt.Errorf("entry %d must not be empty", i))
		}
	}

	return el.Err()
}

// Tag is the interned runtime form of a tag definition.
type Tag struct {
	Id      ident.Id
	Entries map[ident.Id]struct{}
}

// Of reports whether id belongs to this tag, following nested tag entries.
func (t Tag) Of(r *Registry, id ident.Id) bool {
	return t.of(r, id, map[ident.Id]bool{t.Id: true})
}

func (t Tag) of(r *Registry, id ident.Id, seen map[ident.Id]bool) bool {
	if _, ok := t.Entries[id]; ok {
		return true
	}

	for e := range t.Entries {
		if seen[e] {
			continue
		}
		seen[e] = true
		if sub, ok := r.Tags[e]; ok && sub.of(r, id, seen) {
			return true
		}
	}
	return false
}

// IdMatch is the registry's matching predicate: an id matches itself, and
// matches a tag id when the tag's rule includes it.
func IdMatch(r *Registry, id, other ident.Id) bool {
	if id == other {
		return true
	}

	if tag, ok := r.Tags[other]; ok {
		return tag.Of(r, id)
	}

	return false
}
