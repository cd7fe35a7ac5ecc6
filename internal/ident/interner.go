package ident

import (
	"sync"
)

// Id is an opaque handle standing in for an interned identifier string.
// Ids are only meaningful within the process that issued them; the stable
// identity of a thing is always its string form.
type Id int32

// Interner owns the bidirectional mapping between identifier strings and
// their per-process Ids. It is append-only: ids are assigned sequentially
// and never reclaimed, so an Id issued once resolves for the lifetime of
// the process. Safe for concurrent use; the registry load path is the
// main writer, with the map load path occasionally interning new data
// keys afterwards.
type Interner struct {
	mu  sync.RWMutex
	ids map[string]Id
	rev []string
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		ids: make(map[string]Id),
	}
}

// Intern returns the Id for name, issuing a new one if name has not been
// seen before. Calling Intern twice with equal strings returns the same Id.
func (in *Interner) Intern(name string) Id {
	in.mu.Lock()
	defer in.mu.Unlock()

	if id, ok := in.ids[name]; ok {
		return id
	}

	id := Id(len(in.rev))
	in.rev = append(in.rev, name)
	in.ids[name] = id
	return id
}

// Get looks up the Id for name without interning it. The snapshot load
// path uses this so that tile types removed from the registry are detected
// rather than silently re-created.
func (in *Interner) Get(name string) (Id, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()

	id, ok := in.ids[name]
	return id, ok
}

// Resolve returns the string an Id was issued for. It reports false only
// for ids never issued by this Interner.
func (in *Interner) Resolve(id Id) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()

	if id < 0 || int(id) >= len(in.rev) {
		return "", false
	}
	return in.rev[id], true
}

// Len returns the number of interned identifiers.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return len(in.rev)
}
