package prefs

import "strings"

// GuidanceHints is the coarse signal extracted from free-form guidance text.
// The zero value means no hints at all.
type GuidanceHints struct {
	Ages        []string
	Sizes       []string
	Energy      string
	Temperament []string

	QuietPreferred bool
	LowMaintenance bool
	KidFriendly    bool
	CatFriendly    bool
	ApartmentOk    bool
	FirstTimeOwner bool
}

// keywordBucket pairs a normalized bucket value with the phrases that imply
// it. Buckets are scanned in declaration order so tokenizer output is
// deterministic for identical input.
type keywordBucket struct {
	value string
	terms []string
}

// Keyword buckets for guidance detection. Matching is case-insensitive
// substring detection; no NLP dependency.
var (
	guidanceAges = []keywordBucket{
		{"baby", []string{"puppy", "puppies", "baby dog"}},
		{"young", []string{"young dog", "adolescent", "juvenile"}},
		{"adult", []string{"adult dog", "grown dog", "full-grown"}},
		{"senior", []string{"senior", "older dog", "elderly dog", "golden years"}},
	}

	guidanceSizes = []keywordBucket{
		{"small", []string{"small dog", "little dog", "lap dog", "lapdog", "tiny dog"}},
		{"medium", []string{"medium dog", "medium-sized", "medium sized", "mid-sized"}},
		{"large", []string{"large dog", "big dog"}},
		{"xlarge", []string{"extra large", "extra-large", "giant breed", "huge dog"}},
	}

	guidanceHighEnergy = []string{
		"active", "high energy", "high-energy", "energetic", "running partner",
		"hiking", "jogging", "agility",
	}
	guidanceLowEnergy = []string{
		"low maintenance", "low-maintenance", "low energy", "low-energy",
		"couch potato", "relaxed", "laid back", "laid-back", "mellow",
	}
	guidanceMediumEnergy = []string{
		"moderate energy", "medium energy", "moderately active",
	}

	guidanceQuiet = []string{"quiet", "doesn't bark", "does not bark", "not barky", "low bark"}

	guidanceTemperament = []keywordBucket{
		{"quiet", guidanceQuiet},
		{"gentle", []string{"gentle", "calm", "easygoing", "easy-going"}},
		{"friendly", []string{"friendly", "sociable", "social dog"}},
		{"loyal", []string{"loyal", "devoted companion"}},
		{"playful", []string{"playful", "loves to play", "fetch"}},
		{"intelligent", []string{"smart", "intelligent", "trainable", "easy to train"}},
		{"affectionate", []string{"affectionate", "cuddly", "snuggly", "velcro dog"}},
		{"hypoallergenic", []string{"hypoallergenic", "allergy", "allergies", "doesn't shed", "non-shedding", "no shedding"}},
	}

	guidanceKidFriendly = []string{
		"kid", "kids", "children", "child", "toddler", "family dog", "good with kids",
	}
	guidanceCatFriendly = []string{
		"cat", "cats", "good with cats",
	}
	guidanceApartment = []string{
		"apartment", "condo", "small space", "city living", "flat",
	}
	guidanceFirstTime = []string{
		"first dog", "first-time owner", "first time owner", "never had a dog",
	}
)

// TokenizeGuidance parses free-form lifestyle text into hint buckets. It is
// total: any input, including empty, yields a usable result.
func TokenizeGuidance(text string) GuidanceHints {
	hints := GuidanceHints{}
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return hints
	}

	for _, bucket := range guidanceAges {
		if containsAny(lower, bucket.terms) {
			hints.Ages = append(hints.Ages, bucket.value)
		}
	}
	for _, bucket := range guidanceSizes {
		if containsAny(lower, bucket.terms) {
			hints.Sizes = append(hints.Sizes, bucket.value)
		}
	}

	// Low-energy phrasing wins over high-energy when both appear: asking
	// for a "relaxed running partner" is still a maintenance constraint.
	switch {
	case containsAny(lower, guidanceLowEnergy):
		hints.Energy = "low"
	case containsAny(lower, guidanceHighEnergy):
		hints.Energy = "high"
	case containsAny(lower, guidanceMediumEnergy):
		hints.Energy = "medium"
	}

	for _, bucket := range guidanceTemperament {
		if containsAny(lower, bucket.terms) {
			hints.Temperament = append(hints.Temperament, bucket.value)
		}
	}

	hints.QuietPreferred = containsAny(lower, guidanceQuiet)
	hints.LowMaintenance = containsAny(lower, guidanceLowEnergy) || containsAny(lower, guidanceFirstTime)
	hints.KidFriendly = containsAny(lower, guidanceKidFriendly)
	hints.CatFriendly = containsAny(lower, guidanceCatFriendly)
	hints.ApartmentOk = containsAny(lower, guidanceApartment)
	hints.FirstTimeOwner = containsAny(lower, guidanceFirstTime)

	return hints
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
