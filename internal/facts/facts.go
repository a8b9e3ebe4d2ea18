// Package facts builds the machine-checkable fact pack that grounds every
// generated explanation. Anything not in the pack must not be asserted.
package facts

import (
	"strings"

	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/prefs"
)

// Banned claims are considered too strong to assert without independent
// verification. The verifier strips them from candidate text unless the same
// term appears verbatim in DogTraits.
var BannedClaims = []string{
	"hypoallergenic",
	"purebred",
	"house-trained",
	"housebroken",
	"apartment-friendly",
	"service dog",
	"rare",
}

// Pack is the grounding input for explanation generation and verification.
// Prefs holds what the adopter actually asked for, DogTraits what the
// listing actually says. Both are lowercase and deduplicated.
type Pack struct {
	Prefs     []string `json:"prefs"`
	DogTraits []string `json:"dog_traits"`
	Banned    []string `json:"banned"`
}

// Build assembles the pack for one dog. Prefs is populated only from facets
// whose origin is user or guidance; default-origin facets contribute nothing
// here. This is the single enforcement point against presenting a default as
// something the adopter asked for. DogTraits is derived purely from the dog
// value with no knowledge of the preferences.
func Build(p *prefs.EffectivePreferences, dog *petfinder.Dog) *Pack {
	pack := &Pack{Banned: BannedClaims}

	var rawPrefs []string
	if p != nil {
		if p.Age.Specified() {
			rawPrefs = append(rawPrefs, p.Age.Values...)
		}
		if p.Size.Specified() {
			rawPrefs = append(rawPrefs, p.Size.Values...)
		}
		if p.Energy.Specified() {
			rawPrefs = append(rawPrefs, p.Energy.Value+" energy")
			if p.Energy.Alternate != "" {
				rawPrefs = append(rawPrefs, p.Energy.Alternate+" energy")
			}
		}
		if p.Temperament.Specified() {
			rawPrefs = append(rawPrefs, p.Temperament.Values...)
		}
		if p.Breeds.Specified() {
			rawPrefs = append(rawPrefs, p.Breeds.Include...)
		}
		rawPrefs = append(rawPrefs, flagPhrases(p.Flags)...)
	}
	pack.Prefs = dedupLower(rawPrefs)

	var traits []string
	if dog != nil {
		if age := dog.AgeBucket(); age != "" {
			traits = append(traits, age)
		}
		if size := dog.SizeBucket(); size != "" {
			traits = append(traits, size)
		}
		if energy := dog.EnergyLevel(); energy != "" {
			traits = append(traits, energy+" energy")
		}
		traits = append(traits, dog.TemperamentTags()...)
		for _, name := range dog.BreedNames() {
			traits = append(traits, name)
		}
		traits = append(traits, attributeTraits(dog)...)
	}
	pack.DogTraits = dedupLower(traits)

	return pack
}

// flagPhrases renders the household flags into pref strings. Only flags the
// adopter actually signalled (user or guidance origin) appear.
func flagPhrases(flags prefs.Flags) []string {
	var out []string
	if flags.QuietPreferred.Set && flags.QuietPreferred.Origin != prefs.OriginDefault {
		out = append(out, "quiet")
	}
	if flags.LowMaintenance.Set && flags.LowMaintenance.Origin != prefs.OriginDefault {
		out = append(out, "low maintenance")
	}
	if flags.KidFriendly.Set && flags.KidFriendly.Origin != prefs.OriginDefault {
		out = append(out, "good with kids")
	}
	if flags.CatFriendly.Set && flags.CatFriendly.Origin != prefs.OriginDefault {
		out = append(out, "good with cats")
	}
	if flags.ApartmentOk.Set && flags.ApartmentOk.Origin != prefs.OriginDefault {
		out = append(out, "apartment living")
	}
	return out
}

// attributeTraits turns the listing's boolean attribute and environment
// blocks into trait strings. Only attributes the listing affirms appear;
// nothing is inferred.
func attributeTraits(dog *petfinder.Dog) []string {
	var out []string
	if dog.Attributes.SpayedNeutered {
		out = append(out, "spayed/neutered")
	}
	if dog.Attributes.HouseTrained {
		out = append(out, "house-trained")
	}
	if dog.Attributes.ShotsCurrent {
		out = append(out, "shots current")
	}
	if dog.Attributes.SpecialNeeds {
		out = append(out, "special needs")
	}
	if dog.Environment.Children != nil && *dog.Environment.Children {
		out = append(out, "good with kids")
	}
	if dog.Environment.Dogs != nil && *dog.Environment.Dogs {
		out = append(out, "good with dogs")
	}
	if dog.Environment.Cats != nil && *dog.Environment.Cats {
		out = append(out, "good with cats")
	}
	if dog.Hypoallergenic() {
		out = append(out, "hypoallergenic")
	}
	return out
}

func dedupLower(values []string) []string {
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
