package prefs

import (
	"fmt"
	"strings"

	"github.com/dogfinder/dogmatch/internal/breed"
)

// Normalize merges structured preferences with guidance-derived hints into an
// EffectivePreferences value. Structured values are never downgraded or
// removed by guidance; guidance only unions in values that are not already
// present. A facet that ends up empty keeps the default origin and carries no
// adopter-asserted content downstream. Pure and deterministic.
func Normalize(raw RawPreferences, resolver *breed.Resolver) (*EffectivePreferences, error) {
	if resolver == nil {
		return nil, fmt.Errorf("breed resolver is required")
	}

	hints := TokenizeGuidance(raw.Guidance)
	eff := &EffectivePreferences{}

	eff.Age = mergeSet(raw.Ages, hints.Ages)
	eff.Size = mergeSet(raw.Sizes, hints.Sizes)
	eff.Temperament = mergeSet(raw.Temperament, hints.Temperament)
	eff.Energy = mergeEnergy(raw.Energy, hints.Energy)
	eff.Breeds = expandBreeds(raw, resolver)
	eff.Flags = mergeFlags(hints)

	return eff, nil
}

func mergeSet(structured, guidance []string) SetFacet {
	values := normalizeList(structured)
	origin := OriginDefault
	if len(values) > 0 {
		origin = OriginUser
	}

	for _, hint := range normalizeList(guidance) {
		if containsValue(values, hint) {
			continue
		}
		values = append(values, hint)
		if origin == OriginDefault {
			origin = OriginGuidance
		}
	}

	return SetFacet{Values: values, Origin: origin}
}

func mergeEnergy(structured, guidance string) EnergyFacet {
	structured = strings.ToLower(strings.TrimSpace(structured))
	guidance = strings.ToLower(strings.TrimSpace(guidance))

	switch {
	case structured != "" && guidance != "" && structured != guidance:
		// Both exist and disagree: either level satisfies matching, but
		// only the structured value carries the user origin.
		return EnergyFacet{Value: structured, Alternate: guidance, Origin: OriginUser}
	case structured != "":
		return EnergyFacet{Value: structured, Origin: OriginUser}
	case guidance != "":
		return EnergyFacet{Value: guidance, Origin: OriginGuidance}
	default:
		return EnergyFacet{Origin: OriginDefault}
	}
}

func expandBreeds(raw RawPreferences, resolver *breed.Resolver) BreedFacet {
	facet := BreedFacet{
		Include: normalizeList(raw.IncludeBreeds),
		Exclude: normalizeList(raw.ExcludeBreeds),
		Origin:  OriginDefault,
	}
	if len(facet.Include) > 0 {
		facet.Origin = OriginUser
	}

	for _, term := range facet.Include {
		exp := resolver.Resolve(term)
		for _, name := range exp.Names() {
			if !containsValue(facet.ExpandedInclude, name) {
				facet.ExpandedInclude = append(facet.ExpandedInclude, name)
			}
		}
		facet.Notes = append(facet.Notes, expansionNote(term, exp))
	}

	for _, term := range facet.Exclude {
		exp := resolver.Resolve(term)
		for _, name := range exp.Names() {
			if !containsValue(facet.ExpandedExclude, name) {
				facet.ExpandedExclude = append(facet.ExpandedExclude, name)
			}
		}
		facet.Notes = append(facet.Notes, expansionNote(term, exp))
	}

	return facet
}

func expansionNote(term string, exp breed.Expansion) string {
	names := exp.Names()
	if len(names) == 1 && names[0] == exp.Normalized {
		return fmt.Sprintf("%q taken as-is", term)
	}
	return fmt.Sprintf("%q expanded to %s", term, strings.Join(names, ", "))
}

func mergeFlags(hints GuidanceHints) Flags {
	flag := func(set bool) Flag {
		if !set {
			return Flag{}
		}
		return Flag{Set: true, Origin: OriginGuidance}
	}
	return Flags{
		QuietPreferred: flag(hints.QuietPreferred),
		LowMaintenance: flag(hints.LowMaintenance),
		KidFriendly:    flag(hints.KidFriendly),
		CatFriendly:    flag(hints.CatFriendly),
		ApartmentOk:    flag(hints.ApartmentOk),
	}
}

func containsValue(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
