package naming

import (
	"slices"
	"strings"

	"go.trai.ch/linkman/internal/core/domain"
)

// legacyTokens are low-res name endings recognised on datablock names regardless of configuration.
var legacyTokens = []string{"_Lo", "_lo", "_Low", "_low"}

// LegacyTokens returns the low-res name endings recognised regardless of configuration.
func LegacyTokens() []string {
	return slices.Clone(legacyTokens)
}

// Policy derives resolution counterparts and base keys from a suffix convention.
type Policy struct {
	norm  *Normalizer
	token string
	tail  string
}

// NewPolicy creates a Policy for the raw suffix (e.g. "_Lo" or "_Lo.blend").
// Blank or extension-only suffixes fall back to domain.DefaultLowResSuffix.
func NewPolicy(norm *Normalizer, suffix string) *Policy {
	tail := coerceSuffix(suffix)
	return &Policy{
		norm:  norm,
		token: tail[:len(tail)-len(domain.LibraryExt)],
		tail:  tail,
	}
}

func coerceSuffix(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasSuffix(strings.ToLower(s), domain.LibraryExt) {
		s += domain.LibraryExt
	}
	if len(s) == len(domain.LibraryExt) {
		s = domain.DefaultLowResSuffix + domain.LibraryExt
	}
	return s
}

// Normalizer returns the normalizer the policy compares paths with.
func (p *Policy) Normalizer() *Normalizer {
	return p.norm
}

// Token returns the suffix without extension, e.g. "_Lo".
func (p *Policy) Token() string {
	return p.token
}

// Suffix returns the full low-res file ending, e.g. "_Lo.blend".
func (p *Policy) Suffix() string {
	return p.tail
}

// IsLowRes reports whether path ends with the low-res suffix.
func (p *Policy) IsLowRes(path string) bool {
	return strings.HasSuffix(p.norm.Normalize(path), p.tail)
}

// ToHighRes returns the high-res counterpart of path. High-res paths are returned normalized.
func (p *Policy) ToHighRes(path string) string {
	n := p.norm.Normalize(path)
	for strings.HasSuffix(n, p.tail) {
		n = n[:len(n)-len(p.tail)] + domain.LibraryExt
	}
	return n
}

// ToLowRes returns the low-res counterpart of path.
func (p *Policy) ToLowRes(path string) string {
	return p.BaseKey(path) + p.tail
}

// Counterparts returns the low-res and high-res paths of the pair path belongs to.
func (p *Policy) Counterparts(path string) (low, high string) {
	high = p.ToHighRes(path)
	return p.ToLowRes(high), high
}

// BaseKey strips the low-res suffix or the extension, yielding a resolution-independent key.
func (p *Policy) BaseKey(path string) string {
	n := p.norm.Normalize(path)
	if strings.HasSuffix(n, p.tail) {
		return n[:len(n)-len(p.tail)]
	}
	if strings.HasSuffix(strings.ToLower(n), domain.LibraryExt) {
		return n[:len(n)-len(domain.LibraryExt)]
	}
	return n
}

// BaseName strips a low-res token from a datablock name so low-res and high-res
// datablocks can be matched.
func (p *Policy) BaseName(name string) string {
	if strings.HasSuffix(name, p.token) {
		return name[:len(name)-len(p.token)]
	}
	for _, t := range legacyTokens {
		if strings.HasSuffix(name, t) {
			return name[:len(name)-len(t)]
		}
	}
	return name
}
