package domain

import (
	"maps"
	"slices"
)

// Resolution is the variant of a library currently linked.
type Resolution string

const (
	// ResolutionLow is the proxy (low-resolution) variant.
	ResolutionLow Resolution = "low"
	// ResolutionHigh is the full-resolution variant.
	ResolutionHigh Resolution = "high"
)

// ResolutionStatus tracks the resolution pair of one low-res library.
type ResolutionStatus struct {
	Status           Resolution
	LowPath          string
	HighPath         string
	HighResForRender bool
}

// OrderEntry is one row of the library display order.
type OrderEntry struct {
	// Base is the resolution-independent key the entry is deduplicated by.
	Base string
	// Path is the normalized path the library had when first seen.
	Path string
}

// Session holds every cache scoped to one open scene document.
// It is mutated from a single goroutine only and must be Reset when a new document loads.
type Session struct {
	order      []OrderEntry
	expanded   map[string]bool
	active     map[string]bool
	snapshots  map[string]LinkSnapshot
	resolution map[string]ResolutionStatus
	ephemeral  map[ID]string
	swaps      map[string]string
}

// NewSession returns an empty session.
func NewSession() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Reset clears every cache. Identities from a previous document are meaningless afterwards.
func (s *Session) Reset() {
	s.order = nil
	s.expanded = make(map[string]bool)
	s.active = make(map[string]bool)
	s.snapshots = make(map[string]LinkSnapshot)
	s.resolution = make(map[string]ResolutionStatus)
	s.ephemeral = make(map[ID]string)
	s.swaps = make(map[string]string)
}

// IsEmpty reports whether no cache holds anything.
func (s *Session) IsEmpty() bool {
	return len(s.order) == 0 && len(s.expanded) == 0 && len(s.active) == 0 &&
		len(s.snapshots) == 0 && len(s.resolution) == 0 && len(s.ephemeral) == 0 &&
		len(s.swaps) == 0
}

// NoteLibrary appends a library to the display order unless its base key is already known.
// It reports whether the entry was added.
func (s *Session) NoteLibrary(base, path string) bool {
	for _, e := range s.order {
		if e.Base == base {
			return false
		}
	}
	s.order = append(s.order, OrderEntry{Base: base, Path: path})
	return true
}

// Order returns the display order.
func (s *Session) Order() []OrderEntry {
	return slices.Clone(s.order)
}

// ToggleExpanded flips the expand state of a base key and returns the new state.
func (s *Session) ToggleExpanded(base string) bool {
	s.expanded[base] = !s.expanded[base]
	return s.expanded[base]
}

// Expanded reports the expand state of a base key.
func (s *Session) Expanded(base string) bool {
	return s.expanded[base]
}

// SetActive records whether the library at path is linked.
func (s *Session) SetActive(path string, active bool) {
	s.active[path] = active
}

// Active returns the recorded link state of path and whether one was recorded.
func (s *Session) Active(path string) (active, known bool) {
	active, known = s.active[path]
	return active, known
}

// PutSnapshot caches snap under its library path, replacing any previous one.
func (s *Session) PutSnapshot(snap LinkSnapshot) {
	s.snapshots[snap.LibraryPath] = snap.Clone()
}

// Snapshot returns the cached snapshot for path.
func (s *Session) Snapshot(path string) (LinkSnapshot, bool) {
	snap, ok := s.snapshots[path]
	if !ok {
		return LinkSnapshot{}, false
	}
	return snap.Clone(), true
}

// Resolution returns the status keyed by a low-res path.
func (s *Session) Resolution(lowPath string) (ResolutionStatus, bool) {
	rs, ok := s.resolution[lowPath]
	return rs, ok
}

// PutResolution stores rs keyed by its low path.
func (s *Session) PutResolution(rs ResolutionStatus) {
	s.resolution[rs.LowPath] = rs
}

// Resolutions returns every status ordered by low path.
func (s *Session) Resolutions() []ResolutionStatus {
	keys := slices.Sorted(maps.Keys(s.resolution))
	out := make([]ResolutionStatus, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.resolution[k])
	}
	return out
}

// Forget drops active, snapshot and resolution state recorded for path.
func (s *Session) Forget(path string) {
	delete(s.active, path)
	delete(s.snapshots, path)
	delete(s.resolution, path)
}

// Rekey moves active and snapshot state from one path to another.
func (s *Session) Rekey(from, to string) {
	if from == to {
		return
	}
	if v, ok := s.active[from]; ok {
		s.active[to] = v
		delete(s.active, from)
	}
	if snap, ok := s.snapshots[from]; ok {
		s.snapshots[to] = snap.WithPath(to)
		delete(s.snapshots, from)
	}
}

// AddEphemeral records a library loaded only for hidden high-res data.
func (s *Session) AddEphemeral(id ID, path string) {
	s.ephemeral[id] = path
}

// EphemeralAt returns the ephemeral libraries recorded for path, ordered by handle.
func (s *Session) EphemeralAt(path string) []ID {
	var out []ID
	for id, p := range s.ephemeral {
		if p == path {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// IsEphemeral reports whether the library handle was loaded for hidden data.
func (s *Session) IsEphemeral(id ID) bool {
	_, ok := s.ephemeral[id]
	return ok
}

// IsEphemeralPath reports whether any hidden library is recorded for path.
func (s *Session) IsEphemeralPath(path string) bool {
	for _, p := range s.ephemeral {
		if p == path {
			return true
		}
	}
	return false
}

// DropEphemeral forgets one hidden library.
func (s *Session) DropEphemeral(id ID) {
	delete(s.ephemeral, id)
}

// RecordSwap remembers the path a library had before a render-time swap.
// An existing entry is kept so repeated before-render calls do not lose the original.
func (s *Session) RecordSwap(base, path string) {
	if _, ok := s.swaps[base]; ok {
		return
	}
	s.swaps[base] = path
}

// TakeSwap removes and returns the pre-render path recorded for base.
func (s *Session) TakeSwap(base string) (string, bool) {
	p, ok := s.swaps[base]
	if ok {
		delete(s.swaps, base)
	}
	return p, ok
}

// PendingSwaps returns the base keys of swaps not yet restored, sorted.
func (s *Session) PendingSwaps() []string {
	return slices.Sorted(maps.Keys(s.swaps))
}

// ClearSwaps empties the swap ledger.
func (s *Session) ClearSwaps() {
	clear(s.swaps)
}
