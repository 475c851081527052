// Package naming canonicalizes library paths and derives low-res/high-res path pairs.
package naming

import (
	"strings"

	"go.trai.ch/linkman/internal/core/ports"
)

// Normalizer canonicalizes library paths so libraries can be compared by string equality.
// It reads the path preference on every call.
type Normalizer struct {
	prefs ports.PathPreferences
}

// NewNormalizer creates a Normalizer over the host's path preferences.
func NewNormalizer(prefs ports.PathPreferences) *Normalizer {
	return &Normalizer{prefs: prefs}
}

// Normalize returns the forward-slash form of path, document-relative when the preference
// asks for it and conversion succeeds, absolute otherwise.
func (n *Normalizer) Normalize(path string) string {
	abs := n.prefs.ToAbsolute(path)
	if n.prefs.UseRelativePaths() {
		if rel, err := n.prefs.ToRelative(abs); err == nil {
			return toSlash(rel)
		}
	}
	return toSlash(abs)
}

// Same reports whether two paths denote the same library.
func (n *Normalizer) Same(a, b string) bool {
	return n.Normalize(a) == n.Normalize(b)
}

// Absolute returns the absolute forward-slash form of path.
func (n *Normalizer) Absolute(path string) string {
	return toSlash(n.prefs.ToAbsolute(path))
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
