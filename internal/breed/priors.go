package breed

import (
	"fmt"
)

// EvidenceClass classifies how a temperament trait is supported for a dog.
type EvidenceClass int

const (
	// EvidenceNone means neither the listing nor breed statistics support
	// the trait.
	EvidenceNone EvidenceClass = iota
	// EvidenceLikely means only the breed-level prior supports the trait.
	EvidenceLikely
	// EvidenceProven means the dog's own tag list contains the trait.
	EvidenceProven
)

func (e EvidenceClass) String() string {
	switch e {
	case EvidenceProven:
		return "proven"
	case EvidenceLikely:
		return "likely"
	default:
		return "none"
	}
}

// Blend weights and thresholds. Listed evidence dominates the breed prior so
// that statistics fill gaps in sparse shelter listings without overriding
// anything directly observed. The values were chosen empirically; whether
// they should be configurable or family-specific is an open question, so they
// stay as named constants.
const (
	evidenceWeight  = 0.6
	priorWeight     = 0.4
	MatchThreshold  = 0.5
	likelyThreshold = 0.67

	// priorScale is the maximum raw table value; priors are stored 0-3.
	priorScale = 3.0
)

// Priors is the static breed -> trait -> strength table. Strengths are on a
// 0-3 scale and normalized to 0-1 on lookup.
type Priors struct {
	dict  *Dictionary
	table map[string]map[string]float64
}

// NewPriors builds a prior table over the given dictionary. The dictionary is
// used to fold aliases before lookup so "lab" and "labrador retriever" share
// an entry.
func NewPriors(dict *Dictionary, table map[string]map[string]float64) (*Priors, error) {
	if dict == nil {
		return nil, fmt.Errorf("breed dictionary is required")
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("temperament prior table must not be empty")
	}

	normalized := make(map[string]map[string]float64, len(table))
	for name, traits := range table {
		key := normalizeTerm(name)
		entry := make(map[string]float64, len(traits))
		for trait, strength := range traits {
			if strength < 0 || strength > priorScale {
				return nil, fmt.Errorf("prior for %s/%s out of range: %v", name, trait, strength)
			}
			entry[normalizeTerm(trait)] = strength
		}
		normalized[key] = entry
	}

	return &Priors{dict: dict, table: normalized}, nil
}

// DefaultPriors returns the built-in temperament table.
func DefaultPriors(dict *Dictionary) *Priors {
	p, err := NewPriors(dict, defaultPriorTable)
	if err != nil {
		// The built-in table is valid by construction.
		panic(err)
	}
	return p
}

// Prior returns the trait prior averaged across the dog's listed breeds,
// normalized to 0-1. Breeds without a table entry contribute nothing to the
// average rather than pulling it toward zero. The second return reports
// whether any breed had an entry at all.
func (p *Priors) Prior(trait string, breeds []string) (float64, bool) {
	trait = normalizeTerm(trait)
	sum := 0.0
	count := 0
	for _, raw := range breeds {
		entry, ok := p.lookup(raw)
		if !ok {
			continue
		}
		strength, ok := entry[trait]
		if !ok {
			continue
		}
		sum += strength / priorScale
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// Evidence classifies trait support for a dog: proven when the tag list
// carries the trait, likely when only the breed prior clears the threshold,
// none otherwise. Proven is independent of the blended match decision; it is
// consumed by the explanation verifier for phrasing.
func (p *Priors) Evidence(trait string, tags []string, breeds []string) EvidenceClass {
	if tagsContain(tags, trait) {
		return EvidenceProven
	}
	if prior, ok := p.Prior(trait, breeds); ok && prior >= likelyThreshold {
		return EvidenceLikely
	}
	return EvidenceNone
}

// Blend combines direct evidence with the breed prior into a 0-1 value.
func (p *Priors) Blend(trait string, tags []string, breeds []string) float64 {
	observed := 0.0
	if tagsContain(tags, trait) {
		observed = 1.0
	}
	prior, _ := p.Prior(trait, breeds)
	return evidenceWeight*observed + priorWeight*prior
}

// Matched reports whether the blended value clears the match threshold.
func (p *Priors) Matched(trait string, tags []string, breeds []string) bool {
	return p.Blend(trait, tags, breeds) >= MatchThreshold
}

func (p *Priors) lookup(breedName string) (map[string]float64, bool) {
	norm := normalizeTerm(breedName)
	if entry, ok := p.table[norm]; ok {
		return entry, true
	}
	if target, ok := p.dict.Alias(norm); ok {
		if entry, ok := p.table[target]; ok {
			return entry, true
		}
	}
	// A mix listing such as "labrador retriever mix" falls back to its base.
	if base, qualified := stripMixQualifier(norm); qualified {
		if entry, ok := p.table[base]; ok {
			return entry, true
		}
		if target, ok := p.dict.Alias(base); ok {
			if entry, ok := p.table[target]; ok {
				return entry, true
			}
		}
	}
	return nil, false
}

func tagsContain(tags []string, trait string) bool {
	trait = normalizeTerm(trait)
	for _, tag := range tags {
		if normalizeTerm(tag) == trait {
			return true
		}
	}
	return false
}

// defaultPriorTable holds trait strengths on a 0-3 scale. The traits use the
// same vocabulary as listing tags and adopter temperament preferences.
var defaultPriorTable = map[string]map[string]float64{
	"labrador retriever": {
		"loyal": 3, "friendly": 3, "playful": 3, "gentle": 2.5, "energetic": 2.5,
		"intelligent": 2.5, "affectionate": 3, "quiet": 1, "protective": 1.5, "calm": 1.5,
	},
	"golden retriever": {
		"loyal": 3, "friendly": 3, "playful": 3, "gentle": 3, "energetic": 2.5,
		"intelligent": 2.5, "affectionate": 3, "quiet": 1.5, "protective": 1, "calm": 2,
	},
	"german shepherd dog": {
		"loyal": 3, "friendly": 2, "playful": 2, "gentle": 1.5, "energetic": 2.5,
		"intelligent": 3, "affectionate": 2, "quiet": 1, "protective": 3, "calm": 1.5,
	},
	"australian shepherd": {
		"loyal": 2.5, "friendly": 2, "playful": 2.5, "gentle": 2, "energetic": 3,
		"intelligent": 3, "affectionate": 2, "quiet": 1, "protective": 2, "calm": 1,
	},
	"border collie": {
		"loyal": 2.5, "friendly": 2, "playful": 2.5, "gentle": 2, "energetic": 3,
		"intelligent": 3, "affectionate": 2, "quiet": 1, "protective": 1.5, "calm": 1,
	},
	"poodle": {
		"loyal": 2.5, "friendly": 2.5, "playful": 2.5, "gentle": 2.5, "energetic": 2,
		"intelligent": 3, "affectionate": 2.5, "quiet": 2, "protective": 1.5, "calm": 2,
	},
	"goldendoodle": {
		"loyal": 2.5, "friendly": 3, "playful": 3, "gentle": 2.5, "energetic": 2.5,
		"intelligent": 2.5, "affectionate": 3, "quiet": 1.5, "protective": 1, "calm": 1.5,
	},
	"labradoodle": {
		"loyal": 2.5, "friendly": 3, "playful": 3, "gentle": 2.5, "energetic": 2.5,
		"intelligent": 2.5, "affectionate": 2.5, "quiet": 1.5, "protective": 1, "calm": 1.5,
	},
	"cavalier king charles spaniel": {
		"loyal": 2.5, "friendly": 3, "playful": 2, "gentle": 3, "energetic": 1.5,
		"intelligent": 2, "affectionate": 3, "quiet": 2.5, "protective": 0.5, "calm": 2.5,
	},
	"beagle": {
		"loyal": 2, "friendly": 3, "playful": 2.5, "gentle": 2.5, "energetic": 2.5,
		"intelligent": 2, "affectionate": 2.5, "quiet": 0.5, "protective": 1, "calm": 1.5,
	},
	"basset hound": {
		"loyal": 2, "friendly": 2.5, "playful": 1.5, "gentle": 3, "energetic": 1,
		"intelligent": 1.5, "affectionate": 2.5, "quiet": 1.5, "protective": 1, "calm": 3,
	},
	"greyhound": {
		"loyal": 2, "friendly": 2, "playful": 1.5, "gentle": 3, "energetic": 1.5,
		"intelligent": 2, "affectionate": 2.5, "quiet": 3, "protective": 0.5, "calm": 3,
	},
	"siberian husky": {
		"loyal": 2, "friendly": 2.5, "playful": 3, "gentle": 2, "energetic": 3,
		"intelligent": 2.5, "affectionate": 2, "quiet": 0.5, "protective": 1, "calm": 0.5,
	},
	"boxer": {
		"loyal": 2.5, "friendly": 2.5, "playful": 3, "gentle": 2, "energetic": 3,
		"intelligent": 2, "affectionate": 2.5, "quiet": 1, "protective": 2.5, "calm": 1,
	},
	"rottweiler": {
		"loyal": 3, "friendly": 1.5, "playful": 2, "gentle": 1.5, "energetic": 2,
		"intelligent": 2.5, "affectionate": 2, "quiet": 2, "protective": 3, "calm": 2,
	},
	"chihuahua": {
		"loyal": 2.5, "friendly": 1.5, "playful": 2, "gentle": 1.5, "energetic": 2,
		"intelligent": 2, "affectionate": 2.5, "quiet": 0.5, "protective": 2, "calm": 1,
	},
	"pug": {
		"loyal": 2.5, "friendly": 3, "playful": 2.5, "gentle": 2.5, "energetic": 1.5,
		"intelligent": 1.5, "affectionate": 3, "quiet": 2, "protective": 0.5, "calm": 2.5,
	},
	"french bulldog": {
		"loyal": 2.5, "friendly": 2.5, "playful": 2.5, "gentle": 2.5, "energetic": 1.5,
		"intelligent": 2, "affectionate": 3, "quiet": 2, "protective": 1, "calm": 2.5,
	},
	"great dane": {
		"loyal": 2.5, "friendly": 2.5, "playful": 2, "gentle": 3, "energetic": 1.5,
		"intelligent": 2, "affectionate": 2.5, "quiet": 2, "protective": 2, "calm": 2.5,
	},
	"bernese mountain dog": {
		"loyal": 3, "friendly": 2.5, "playful": 2, "gentle": 3, "energetic": 1.5,
		"intelligent": 2, "affectionate": 3, "quiet": 2.5, "protective": 1.5, "calm": 3,
	},
	"doberman pinscher": {
		"loyal": 3, "friendly": 1.5, "playful": 2, "gentle": 1.5, "energetic": 2.5,
		"intelligent": 3, "affectionate": 2, "quiet": 2, "protective": 3, "calm": 1.5,
	},
	"shih tzu": {
		"loyal": 2, "friendly": 2.5, "playful": 2, "gentle": 2.5, "energetic": 1,
		"intelligent": 1.5, "affectionate": 3, "quiet": 2, "protective": 0.5, "calm": 2.5,
	},
	"dachshund": {
		"loyal": 2.5, "friendly": 2, "playful": 2.5, "gentle": 2, "energetic": 2,
		"intelligent": 2, "affectionate": 2.5, "quiet": 0.5, "protective": 2, "calm": 1.5,
	},
	"pit bull terrier": {
		"loyal": 3, "friendly": 2.5, "playful": 2.5, "gentle": 2, "energetic": 2.5,
		"intelligent": 2, "affectionate": 3, "quiet": 1.5, "protective": 2, "calm": 1.5,
	},
	"jack russell terrier": {
		"loyal": 2, "friendly": 2, "playful": 3, "gentle": 1.5, "energetic": 3,
		"intelligent": 2.5, "affectionate": 2, "quiet": 0.5, "protective": 1.5, "calm": 0.5,
	},
	"great pyrenees": {
		"loyal": 2.5, "friendly": 2, "playful": 1.5, "gentle": 3, "energetic": 1,
		"intelligent": 2, "affectionate": 2, "quiet": 1.5, "protective": 3, "calm": 2.5,
	},
	"australian cattle dog": {
		"loyal": 3, "friendly": 1.5, "playful": 2.5, "gentle": 1.5, "energetic": 3,
		"intelligent": 3, "affectionate": 2, "quiet": 1.5, "protective": 2.5, "calm": 1,
	},
	"mixed breed": {
		"loyal": 2, "friendly": 2, "playful": 2, "gentle": 2, "energetic": 2,
		"intelligent": 2, "affectionate": 2, "quiet": 1.5, "protective": 1.5, "calm": 1.5,
	},
}
