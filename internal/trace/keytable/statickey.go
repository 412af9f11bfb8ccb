package keytable

import "sync/atomic"

// StaticKey caches the Key for a call-site constant name so repeated
// tracing of the same scope (the overwhelmingly common case: a Scope
// is almost always declared once at function entry and hit on every
// call) pays the interning cost exactly once instead of on every hit.
// It carries the full static-key-data record: the interning Name, an
// optional Pretty display variant, and an optional Scope (the
// enclosing function or module the name belongs to), all known at the
// call site and never mutated afterward.
type StaticKey struct {
	table  *Table
	name   string
	pretty string
	scope  string
	key    atomic.Uint64 // 0 = not yet resolved; stores id+1
}

// NewStaticKey returns a StaticKey bound to the process-wide global
// table, with no pretty name or scope. The returned value must not be
// copied after first use.
func NewStaticKey(name string) *StaticKey {
	return &StaticKey{table: global, name: name}
}

// NewStaticKeyFull returns a StaticKey bound to the process-wide global
// table with the full static-key-data record: name, an optional
// human-friendly pretty variant, and an optional enclosing scope name.
// Either may be left empty when the call site has nothing to add.
func NewStaticKeyFull(name, pretty, scope string) *StaticKey {
	return &StaticKey{table: global, name: name, pretty: pretty, scope: scope}
}

// NewStaticKeyIn is NewStaticKey against an explicit table, for tests
// that want isolation from the process-wide global table.
func NewStaticKeyIn(table *Table, name string) *StaticKey {
	return &StaticKey{table: table, name: name}
}

// Key returns the interned Key, resolving and caching it on first call.
func (s *StaticKey) Key() Key {
	if cached := s.key.Load(); cached != 0 {
		return Key{id: uint32(cached - 1)}
	}

	k := s.table.Intern(s.name)
	s.key.Store(uint64(k.id) + 1)

	return k
}

// Name returns the call-site name this StaticKey was declared with.
func (s *StaticKey) Name() string {
	return s.name
}

// Pretty returns the human-friendly display variant, falling back to
// Name when the call site didn't supply one.
func (s *StaticKey) Pretty() string {
	if s.pretty == "" {
		return s.name
	}

	return s.pretty
}

// Scope returns the enclosing function or module name the call site
// supplied, or "" if none was given.
func (s *StaticKey) Scope() string {
	return s.scope
}
