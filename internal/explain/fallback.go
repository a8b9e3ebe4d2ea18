package explain

import (
	"strings"

	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/facts"
	"github.com/dogfinder/dogmatch/internal/petfinder"
)

// Fallback synthesizes a deterministic explanation sentence from the fact
// pack alone. It is used when text generation is disabled, fails, or returns
// text that violates the citation rule, and it is written so that a
// verification pass over it finds nothing to repair.
func Fallback(pack *facts.Pack, dog *petfinder.Dog, priors *breed.Priors) string {
	name := "This dog"
	if dog != nil && strings.TrimSpace(dog.Name) != "" {
		name = strings.TrimSpace(dog.Name)
	}

	if pack == nil || len(pack.Prefs) == 0 {
		return neutralSentence(name, pack)
	}

	supported, traitClauses := groundedPrefs(pack, dog, priors)

	parts := append([]string{}, supported...)
	parts = append(parts, traitClauses...)
	if len(parts) > 0 {
		return name + " matches your preferences: " + joinList(parts) + "."
	}

	// Nothing the dog demonstrably offers overlaps the preferences; cite
	// one of them anyway so the sentence stays grounded in the request.
	if pref := citablePref(pack, dog, priors); pref != "" {
		return name + " could still suit your interest in " + pref + "."
	}

	return neutralSentence(name, pack)
}

// groundedPrefs splits the preferences into plain supported terms and
// evidence-phrased temperament clauses.
func groundedPrefs(pack *facts.Pack, dog *petfinder.Dog, priors *breed.Priors) (supported, traitClauses []string) {
	var tags, breeds []string
	if dog != nil {
		tags = dog.TemperamentTags()
		breeds = dog.BreedNames()
	}

	for _, pref := range pack.Prefs {
		if containsString(traitVocabulary, pref) {
			if priors == nil {
				continue
			}
			switch priors.Evidence(pref, tags, breeds) {
			case breed.EvidenceProven:
				traitClauses = append(traitClauses, "is "+pref)
			case breed.EvidenceLikely:
				traitClauses = append(traitClauses, "tends to be "+pref)
			}
			continue
		}
		if traitSupportsPref(pack.DogTraits, pref) {
			supported = append(supported, pref)
		}
	}
	return supported, traitClauses
}

// citablePref picks a preference that survives verification when mentioned
// as an interest rather than a claim about the dog.
func citablePref(pack *facts.Pack, dog *petfinder.Dog, priors *breed.Priors) string {
	for _, pref := range pack.Prefs {
		if containsString(pack.Banned, pref) && !containsString(pack.DogTraits, pref) {
			continue
		}
		if containsString(traitVocabulary, pref) {
			continue
		}
		return pref
	}
	// Trait preferences are citable bare; the verifier treats a bare
	// mention of an asked-for trait as a citation, not a claim.
	for _, pref := range pack.Prefs {
		if containsString(traitVocabulary, pref) {
			return pref
		}
	}
	return ""
}

// neutralSentence describes the dog without implying the adopter asked for
// anything. Only verbatim dog traits appear.
func neutralSentence(name string, pack *facts.Pack) string {
	var descriptors []string
	if pack != nil {
		for _, trait := range pack.DogTraits {
			if containsString(traitVocabulary, trait) {
				continue
			}
			descriptors = append(descriptors, trait)
			if len(descriptors) == 2 {
				break
			}
		}
	}
	if len(descriptors) == 0 {
		return name + " is looking for a home."
	}
	return "Meet " + name + ", a " + joinList(descriptors) + " dog looking for a home."
}

func traitSupportsPref(dogTraits []string, pref string) bool {
	if containsString(dogTraits, pref) {
		return true
	}
	for _, syn := range synonyms[pref] {
		if containsString(dogTraits, syn) {
			return true
		}
	}
	return false
}

func joinList(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
