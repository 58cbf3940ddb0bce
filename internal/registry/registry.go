// Package registry tracks managed variables per owner across a whole build.
// The store is constructor-injected into every component that needs it; it
// is never an ambient singleton.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/statewire/statewire/internal/naming"
)

// DefaultKind classifies a registered default value.
type DefaultKind int

const (
	KindNonLiteral DefaultKind = iota // runtime expression, no static default
	KindNumber
	KindString
	KindBool
	KindNull
	KindArray
	KindObject
)

// Default is the static default captured from a managed declaration's
// initializer. Arrays and objects are shallow; nested non-literal values
// degrade to null (array elements) or are dropped (object properties).
type Default struct {
	Kind   DefaultKind    `json:"kind"`
	Number float64        `json:"number,omitempty"`
	Str    string         `json:"str,omitempty"`
	Bool   bool           `json:"bool,omitempty"`
	Arr    []Default      `json:"arr,omitempty"`
	Obj    []DefaultField `json:"obj,omitempty"`
}

// DefaultField preserves object-literal property order.
type DefaultField struct {
	Key   string  `json:"key"`
	Value Default `json:"value"`
}

func NonLiteral() Default { return Default{Kind: KindNonLiteral} }

// Entry is the per-scope-key registry slot.
type Entry struct {
	ContextName   string
	VariableNames []string // insertion order = declaration order
	Defaults      map[string]Default
}

func (e *Entry) hasVariable(name string) bool {
	for _, v := range e.VariableNames {
		if v == name {
			return true
		}
	}
	return false
}

// Store maps scope keys to entries. Safe for concurrent use: the build
// runner registers from parallel per-file workers. Each file's entries have
// a single writer (no two files share a hash), but map-structural mutations
// from different files still need the lock.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Entry
	// byVariable is the reverse index variable name -> scope key, kept in
	// step with registrations so lookups avoid an O(variables x owners)
	// scan.
	byVariable map[string]string
}

func NewStore() *Store {
	return &Store{
		entries:    make(map[string]*Entry),
		byVariable: make(map[string]string),
	}
}

// Register adds variableName under scopeKey and returns the entry's context
// name. Registration is idempotent: a name already present keeps its
// first-seen default and is not appended again. The context name is assigned
// exactly once per entry and never changes afterwards.
func (s *Store) Register(scopeKey, variableName string, def Default) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[scopeKey]
	if !ok {
		entry = &Entry{
			ContextName: naming.ContextName(scopeKey),
			Defaults:    make(map[string]Default),
		}
		s.entries[scopeKey] = entry
	}
	if entry.hasVariable(variableName) {
		return entry.ContextName
	}
	entry.VariableNames = append(entry.VariableNames, variableName)
	entry.Defaults[variableName] = def
	if _, taken := s.byVariable[variableName]; !taken {
		s.byVariable[variableName] = scopeKey
	}
	return entry.ContextName
}

// FindOwnerOf resolves a variable name to its declaring scope key. Managed
// names are unique across the program by convention; when two owners declare
// the same name, the first registration wins (see OwnerConflict).
func (s *Store) FindOwnerOf(variableName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.byVariable[variableName]
	return key, ok
}

// OwnerConflict reports whether variableName is already claimed by an owner
// other than scopeKey. Discovery uses this to surface duplicate managed
// names as a diagnostic instead of silently misattributing state.
func (s *Store) OwnerConflict(scopeKey, variableName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.byVariable[variableName]
	if ok && key != scopeKey {
		return key, true
	}
	return "", false
}

// ResetForFile clears variable names and defaults for every entry keyed by
// fileHash, keeping the entries (and their context names) alive so stable
// context naming survives incremental recompilation.
func (s *Store) ResetForFile(fileHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	suffix := "_" + fileHash
	for key, entry := range s.entries {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		for _, name := range entry.VariableNames {
			if s.byVariable[name] == key {
				delete(s.byVariable, name)
			}
		}
		entry.VariableNames = nil
		entry.Defaults = make(map[string]Default)
	}
}

// SnapshotEntry is one owner in a registry snapshot.
type SnapshotEntry struct {
	ScopeKey      string
	ContextName   string
	VariableNames []string
	Defaults      map[string]Default
}

// Snapshot returns a deterministic copy of the registry, sorted by scope
// key, with empty entries (reset leftovers) skipped. Same input program,
// byte-identical downstream artifacts.
func (s *Store) Snapshot() []SnapshotEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key, entry := range s.entries {
		if len(entry.VariableNames) == 0 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	snap := make([]SnapshotEntry, 0, len(keys))
	for _, key := range keys {
		entry := s.entries[key]
		names := make([]string, len(entry.VariableNames))
		copy(names, entry.VariableNames)
		defaults := make(map[string]Default, len(entry.Defaults))
		for k, v := range entry.Defaults {
			defaults[k] = v
		}
		snap = append(snap, SnapshotEntry{
			ScopeKey:      key,
			ContextName:   entry.ContextName,
			VariableNames: names,
			Defaults:      defaults,
		})
	}
	return snap
}

// Lookup returns a copy of the entry for scopeKey, if present and non-empty.
func (s *Store) Lookup(scopeKey string) (SnapshotEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[scopeKey]
	if !ok || len(entry.VariableNames) == 0 {
		return SnapshotEntry{}, false
	}
	names := make([]string, len(entry.VariableNames))
	copy(names, entry.VariableNames)
	defaults := make(map[string]Default, len(entry.Defaults))
	for k, v := range entry.Defaults {
		defaults[k] = v
	}
	return SnapshotEntry{
		ScopeKey:      scopeKey,
		ContextName:   entry.ContextName,
		VariableNames: names,
		Defaults:      defaults,
	}, true
}
