package match

import (
	"fmt"

	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/prefs"
)

// Scoring constants. Match bonuses reward overlap; mismatch penalties run
// roughly a third of the bonus so one failed facet demotes a dog instead of
// eliminating it. Hard exclusion is the filter stage's job, not scoring's.
const (
	baseScore = 100.0

	ageBonus    = 15.0
	agePenalty  = 5.0
	sizeBonus   = 15.0
	sizePenalty = 5.0

	energyBonus   = 12.0
	energyPenalty = 4.0

	breedBonusExact  = 25.0
	breedBonusFamily = 20.0
	breedBonusFuzzy  = 15.0
	breedPenalty     = 8.0

	traitBonus   = 12.0
	traitPenalty = 4.0

	// overlapBonus scales with actual/possible matches across all
	// specified facets.
	overlapBonus = 20.0

	puppyMaintenancePenalty  = 10.0
	energyMaintenancePenalty = 8.0
	barkyPenalty             = 12.0
	apartmentSizePenalty     = 8.0
)

// Analysis is the per-dog scoring result. Created fresh per scoring pass and
// never persisted. The matched/unmet label wording is part of the contract:
// downstream fact packs and fallback sentences are built from these strings.
type Analysis struct {
	DogID        string   `json:"dog_id" yaml:"dog_id"`
	Name         string   `json:"name" yaml:"name"`
	Score        float64  `json:"score" yaml:"score"`
	MatchedPrefs []string `json:"matched_prefs,omitempty" yaml:"matched_prefs,omitempty"`
	UnmetPrefs   []string `json:"unmet_prefs,omitempty" yaml:"unmet_prefs,omitempty"`
	BreedTier    int      `json:"breed_tier,omitempty" yaml:"breed_tier,omitempty"`
	Distance     float64  `json:"distance,omitempty" yaml:"distance,omitempty"`
	Explanation  string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Score computes the OR-based relevance of a single dog against the
// effective preferences. Pure: same inputs always produce the same Analysis.
//
// Every specified facet contributes a weighted bonus on match and a smaller
// weighted penalty on contradiction. Facets the listing carries no data for
// count as unmet but are not penalized. An explicitly excluded breed zeroes
// the score outright.
func Score(dog *petfinder.Dog, p *prefs.EffectivePreferences, priors *breed.Priors, resolver *breed.Resolver) *Analysis {
	analysis := &Analysis{
		DogID:    dog.ID,
		Name:     dog.Name,
		Distance: dog.Distance,
	}

	terms := breedTerms(dog)
	if len(p.Breeds.ExpandedExclude) > 0 && resolver.Hit(terms, p.Breeds.ExpandedExclude).Matched {
		analysis.Score = 0
		analysis.UnmetPrefs = append(analysis.UnmetPrefs, "excluded breed")
		return analysis
	}

	score := baseScore
	possible := 0
	actual := 0

	if p.Age.Specified() {
		possible++
		weight := p.Age.Origin.Weight()
		bucket := dog.AgeBucket()
		switch {
		case bucket != "" && p.Age.Contains(bucket):
			actual++
			score += ageBonus * weight
			analysis.MatchedPrefs = append(analysis.MatchedPrefs, bucket+" age")
		case bucket != "":
			score -= agePenalty * weight
			analysis.UnmetPrefs = append(analysis.UnmetPrefs, labelEach(p.Age.Values, "age")...)
		default:
			analysis.UnmetPrefs = append(analysis.UnmetPrefs, labelEach(p.Age.Values, "age")...)
		}
	}

	if p.Size.Specified() {
		possible++
		weight := p.Size.Origin.Weight()
		bucket := dog.SizeBucket()
		switch {
		case bucket != "" && p.Size.Contains(bucket):
			actual++
			score += sizeBonus * weight
			analysis.MatchedPrefs = append(analysis.MatchedPrefs, bucket+" size")
		case bucket != "":
			score -= sizePenalty * weight
			analysis.UnmetPrefs = append(analysis.UnmetPrefs, labelEach(p.Size.Values, "size")...)
		default:
			analysis.UnmetPrefs = append(analysis.UnmetPrefs, labelEach(p.Size.Values, "size")...)
		}
	}

	if p.Energy.Specified() {
		possible++
		weight := p.Energy.Origin.Weight()
		level := dog.EnergyLevel()
		switch {
		case p.Energy.Accepts(level):
			actual++
			score += energyBonus * weight
			analysis.MatchedPrefs = append(analysis.MatchedPrefs, level+" energy")
		case level != "":
			score -= energyPenalty * weight
			analysis.UnmetPrefs = append(analysis.UnmetPrefs, p.Energy.Value+" energy")
		default:
			analysis.UnmetPrefs = append(analysis.UnmetPrefs, p.Energy.Value+" energy")
		}
	}

	if p.Breeds.Specified() {
		possible++
		weight := p.Breeds.Origin.Weight()
		hit := resolver.Hit(terms, p.Breeds.ExpandedInclude)
		if hit.Matched {
			actual++
			analysis.BreedTier = hit.Tier
			score += breedBonusForTier(hit.Tier) * weight
			analysis.MatchedPrefs = append(analysis.MatchedPrefs, "preferred breed")
		} else {
			score -= breedPenalty * weight
			analysis.UnmetPrefs = append(analysis.UnmetPrefs, "preferred breed")
		}
	}

	if p.Temperament.Specified() {
		weight := p.Temperament.Origin.Weight()
		tags := dog.TemperamentTags()
		breeds := dog.BreedNames()
		for _, trait := range p.Temperament.Values {
			possible++
			label := "Temperament: " + trait
			if priors.Matched(trait, tags, breeds) {
				actual++
				score += traitBonus * weight
				analysis.MatchedPrefs = append(analysis.MatchedPrefs, label)
			} else {
				score -= traitPenalty * weight
				analysis.UnmetPrefs = append(analysis.UnmetPrefs, label)
			}
		}
	}

	if possible > 0 {
		score += overlapBonus * float64(actual) / float64(possible)
	}

	score += flagAdjustments(dog, p.Flags)

	if score < 0 {
		score = 0
	}
	analysis.Score = score
	return analysis
}

// flagAdjustments applies the household-signal penalties that live outside
// the facet loop. These are fixed amounts, not origin-weighted.
func flagAdjustments(dog *petfinder.Dog, flags prefs.Flags) float64 {
	adjustment := 0.0
	if flags.LowMaintenance.Set {
		if dog.AgeBucket() == "baby" {
			adjustment -= puppyMaintenancePenalty
		}
		if dog.EnergyLevel() == "high" {
			adjustment -= energyMaintenancePenalty
		}
	}
	if flags.QuietPreferred.Set && dog.Barky() {
		adjustment -= barkyPenalty
	}
	if flags.ApartmentOk.Set && dog.SizeBucket() == "xlarge" {
		adjustment -= apartmentSizePenalty
	}
	return adjustment
}

func breedBonusForTier(tier int) float64 {
	switch tier {
	case breed.TierExact, breed.TierAlias:
		return breedBonusExact
	case breed.TierFamily:
		return breedBonusFamily
	default:
		return breedBonusFuzzy
	}
}

func labelEach(values []string, facet string) []string {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, fmt.Sprintf("%s %s", v, facet))
	}
	return labels
}
