package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/internal/core/domain"
)

func TestSession_ResetEmptiesEveryCache(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*domain.Session)
	}{
		{"order", func(s *domain.Session) { s.NoteLibrary("//a", "//a_Lo.blend") }},
		{"expanded", func(s *domain.Session) { s.ToggleExpanded("//a") }},
		{"active", func(s *domain.Session) { s.SetActive("//a.blend", false) }},
		{"snapshot", func(s *domain.Session) { s.PutSnapshot(domain.NewSnapshot("//a.blend")) }},
		{"resolution", func(s *domain.Session) {
			s.PutResolution(domain.ResolutionStatus{Status: domain.ResolutionLow, LowPath: "//a_Lo.blend"})
		}},
		{"ephemeral", func(s *domain.Session) { s.AddEphemeral(7, "//a.blend") }},
		{"swap", func(s *domain.Session) { s.RecordSwap("//a", "//a_Lo.blend") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.NewSession()
			require.True(t, s.IsEmpty())

			tt.setup(s)
			assert.False(t, s.IsEmpty())

			s.Reset()
			assert.True(t, s.IsEmpty())
		})
	}
}

func TestSession_NoteLibraryDeduplicatesByBase(t *testing.T) {
	s := domain.NewSession()
	assert.True(t, s.NoteLibrary("//bar", "//bar_Lo.blend"))
	assert.False(t, s.NoteLibrary("//bar", "//bar.blend"))
	assert.True(t, s.NoteLibrary("//crate", "//crate.blend"))

	assert.Equal(t, []domain.OrderEntry{
		{Base: "//bar", Path: "//bar_Lo.blend"},
		{Base: "//crate", Path: "//crate.blend"},
	}, s.Order())
}

func TestSession_RecordSwapKeepsFirstPath(t *testing.T) {
	s := domain.NewSession()
	s.RecordSwap("//bar", "//bar_Lo.blend")
	s.RecordSwap("//bar", "//bar.blend")
	s.RecordSwap("//crate", "//crate_Lo.blend")
	assert.Equal(t, []string{"//bar", "//crate"}, s.PendingSwaps())

	p, ok := s.TakeSwap("//bar")
	require.True(t, ok)
	assert.Equal(t, "//bar_Lo.blend", p)

	_, ok = s.TakeSwap("//bar")
	assert.False(t, ok)

	s.ClearSwaps()
	assert.Empty(t, s.PendingSwaps())
}

func TestSession_Rekey(t *testing.T) {
	tests := []struct {
		name       string
		from, to   string
		wantActive string
	}{
		{"moves state", "//bar_Lo.blend", "//bar.blend", "//bar.blend"},
		{"same path is a no-op", "//bar_Lo.blend", "//bar_Lo.blend", "//bar_Lo.blend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.NewSession()
			snap := domain.NewSnapshot(tt.from)
			snap.Names[domain.CategoryMaterial] = []string{"Red"}
			s.PutSnapshot(snap)
			s.SetActive(tt.from, true)

			s.Rekey(tt.from, tt.to)

			active, known := s.Active(tt.wantActive)
			assert.True(t, known)
			assert.True(t, active)
			got, ok := s.Snapshot(tt.to)
			require.True(t, ok)
			assert.Equal(t, tt.to, got.LibraryPath)
			assert.Equal(t, []string{"Red"}, got.NamesOf(domain.CategoryMaterial))
			if tt.from != tt.to {
				_, known = s.Active(tt.from)
				assert.False(t, known)
				_, ok = s.Snapshot(tt.from)
				assert.False(t, ok)
			}
		})
	}
}

func TestSession_Ephemeral(t *testing.T) {
	s := domain.NewSession()
	s.AddEphemeral(9, "//bar.blend")
	s.AddEphemeral(3, "//bar.blend")
	s.AddEphemeral(5, "//crate.blend")

	assert.Equal(t, []domain.ID{3, 9}, s.EphemeralAt("//bar.blend"))
	assert.True(t, s.IsEphemeralPath("//crate.blend"))

	s.DropEphemeral(5)
	assert.False(t, s.IsEphemeral(5))
	assert.False(t, s.IsEphemeralPath("//crate.blend"))
	assert.True(t, s.IsEphemeral(3))
}
