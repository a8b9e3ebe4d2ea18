// Package prefs normalizes adopter preferences into origin-tagged facets
// consumed by scoring and explanation grounding.
package prefs

import "strings"

// Origin records where a preference facet came from. Ordering matters: a
// facet's origin is the strongest source that contributed any value to it.
type Origin int

const (
	// OriginDefault means no signal at all. Default facets must never be
	// presented to the adopter as something they asked for.
	OriginDefault Origin = iota
	// OriginGuidance means the value was inferred from free-form text.
	OriginGuidance
	// OriginUser means explicit structured input.
	OriginUser
)

func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginGuidance:
		return "guidance"
	default:
		return "default"
	}
}

// Weight returns the scoring weight attached to the origin.
func (o Origin) Weight() float64 {
	switch o {
	case OriginUser:
		return 1.0
	case OriginGuidance:
		return 0.7
	default:
		return 0.5
	}
}

// RawPreferences is the adopter-entered input. Every field is optional;
// absence means "no opinion", not a default value.
type RawPreferences struct {
	Ages          []string `mapstructure:"ages"`
	Sizes         []string `mapstructure:"sizes"`
	Energy        string   `mapstructure:"energy"`
	Temperament   []string `mapstructure:"temperament"`
	IncludeBreeds []string `mapstructure:"include-breeds"`
	ExcludeBreeds []string `mapstructure:"exclude-breeds"`
	Guidance      string   `mapstructure:"guidance"`
}

// SetFacet is a set-valued facet (ages, sizes, temperament traits) with the
// origin of its strongest contributing source.
type SetFacet struct {
	Values []string
	Origin Origin
}

// Specified reports whether the facet carries any adopter signal.
func (f SetFacet) Specified() bool {
	return f.Origin != OriginDefault && len(f.Values) > 0
}

// Contains reports a case-insensitive membership check.
func (f SetFacet) Contains(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

// EnergyFacet is the single-valued energy preference. When structured input
// and guidance disagree, both values remain acceptable for matching but only
// the structured one carries the user origin.
type EnergyFacet struct {
	Value     string
	Alternate string
	Origin    Origin
}

// Specified reports whether any energy preference exists.
func (f EnergyFacet) Specified() bool {
	return f.Origin != OriginDefault && f.Value != ""
}

// Accepts reports whether the given level satisfies the preference.
func (f EnergyFacet) Accepts(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return false
	}
	return level == f.Value || (f.Alternate != "" && level == f.Alternate)
}

// BreedFacet carries the include/exclude breed terms together with their
// resolver expansions and human-readable expansion notes.
type BreedFacet struct {
	Include         []string
	Exclude         []string
	ExpandedInclude []string
	ExpandedExclude []string
	Notes           []string
	Origin          Origin
}

// Specified reports whether any include terms exist.
func (f BreedFacet) Specified() bool {
	return f.Origin != OriginDefault && len(f.Include) > 0
}

// Flag is a boolean facet implied by guidance text or set explicitly.
type Flag struct {
	Set    bool
	Origin Origin
}

// Flags are the household signals scoring applies outside the facet loop.
type Flags struct {
	QuietPreferred Flag
	LowMaintenance Flag
	KidFriendly    Flag
	CatFriendly    Flag
	ApartmentOk    Flag
}

// EffectivePreferences is the fully normalized preference value consumed by
// filtering, scoring and the fact pack builder. Immutable after construction.
type EffectivePreferences struct {
	Age         SetFacet
	Size        SetFacet
	Energy      EnergyFacet
	Temperament SetFacet
	Breeds      BreedFacet
	Flags       Flags
}

func normalizeList(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
