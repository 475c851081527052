package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/linkman/internal/core/domain"
)

func chairSnapshot() domain.LinkSnapshot {
	snap := domain.NewSnapshot("//furniture_Lo.blend")
	snap.Kind = domain.KindCollections
	snap.Names[domain.CategoryCollection] = []string{"Chair", "Table"}
	snap.InstanceNames["Chair"] = "Chair_instance"
	snap.LinkedCollections = []string{"Table"}
	snap.Transforms["Chair"] = domain.Transform{
		Location: domain.Vec3{1, 2, 3},
		Rotation: domain.IdentityQuat,
		Scale:    domain.Vec3{1, 1, 1},
	}
	snap.Options.AutoInstanceCollections = true
	return snap
}

func TestLinkSnapshot_CloneIsIndependent(t *testing.T) {
	orig := chairSnapshot()
	c := orig.Clone()

	c.Names[domain.CategoryCollection][0] = "Stool"
	c.Names[domain.CategoryMaterial] = []string{"Wood"}
	c.InstanceNames["Table"] = "Table_instance"
	c.LinkedCollections[0] = "Shelf"
	c.Transforms["Chair"] = domain.IdentityTransform()

	assert.Equal(t, chairSnapshot(), orig)
	assert.Equal(t, []string{"Chair"}, orig.InstancedCollections())
	assert.True(t, orig.IsLinkedDirectly("Table"))
	assert.Equal(t, domain.Vec3{1, 2, 3}, orig.TransformFor("Chair").Location)
}

func TestLinkSnapshot_CloneOfZeroValue(t *testing.T) {
	c := domain.LinkSnapshot{}.Clone()
	assert.NotNil(t, c.InstanceNames)
	assert.NotNil(t, c.Transforms)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, domain.IdentityTransform(), c.TransformFor("Chair"))
}

func TestLinkSnapshot_Fingerprint(t *testing.T) {
	base := chairSnapshot().Fingerprint()
	assert.Equal(t, base, chairSnapshot().Fingerprint())
	assert.Equal(t, base, chairSnapshot().Clone().Fingerprint())

	tests := []struct {
		name   string
		mutate func(*domain.LinkSnapshot)
	}{
		{"path", func(s *domain.LinkSnapshot) { s.LibraryPath = "//furniture.blend" }},
		{"kind", func(s *domain.LinkSnapshot) { s.Kind = domain.KindObjects }},
		{"name order", func(s *domain.LinkSnapshot) {
			s.Names[domain.CategoryCollection] = []string{"Table", "Chair"}
		}},
		{"proxy name", func(s *domain.LinkSnapshot) { s.InstanceNames["Chair"] = "Chair_instance.001" }},
		{"linked collections", func(s *domain.LinkSnapshot) { s.LinkedCollections = nil }},
		{"transform", func(s *domain.LinkSnapshot) {
			tr := s.Transforms["Chair"]
			tr.Location[2] = 4
			s.Transforms["Chair"] = tr
		}},
		{"options", func(s *domain.LinkSnapshot) { s.Options.UseRelativePath = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := chairSnapshot()
			tt.mutate(&snap)
			assert.NotEqual(t, base, snap.Fingerprint())
		})
	}
}

func TestLinkSnapshot_FingerprintIgnoresMapOrder(t *testing.T) {
	a := domain.NewSnapshot("//lamps.blend")
	b := domain.NewSnapshot("//lamps.blend")
	a.InstanceNames["A"] = "A_instance"
	a.InstanceNames["B"] = "B_instance"
	b.InstanceNames["B"] = "B_instance"
	b.InstanceNames["A"] = "A_instance"
	a.Names[domain.CategoryMaterial] = []string{"Brass"}
	a.Names[domain.CategoryObject] = []string{"Lamp"}
	b.Names[domain.CategoryObject] = []string{"Lamp"}
	b.Names[domain.CategoryMaterial] = []string{"Brass"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}
