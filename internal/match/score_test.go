package match

import (
	"math"
	"testing"

	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/prefs"
)

func newTestResolver(t *testing.T) *breed.Resolver {
	t.Helper()
	r, err := breed.NewResolver(breed.DefaultDictionary())
	if err != nil {
		t.Fatalf("building resolver: %v", err)
	}
	return r
}

func newTestPriors(t *testing.T) *breed.Priors {
	t.Helper()
	return breed.DefaultPriors(breed.DefaultDictionary())
}

func testDog(name, age, size string) *petfinder.Dog {
	return &petfinder.Dog{ID: "dog-" + name, Name: name, Age: age, Size: size}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreNoFacetsIsBase(t *testing.T) {
	dog := testDog("Rex", "Adult", "Medium")
	analysis := Score(dog, &prefs.EffectivePreferences{}, newTestPriors(t), newTestResolver(t))

	if !almostEqual(analysis.Score, 100) {
		t.Fatalf("expected base score 100 with no facets, got %v", analysis.Score)
	}
	if len(analysis.MatchedPrefs) != 0 || len(analysis.UnmetPrefs) != 0 {
		t.Fatalf("expected no labels, got matched=%v unmet=%v", analysis.MatchedPrefs, analysis.UnmetPrefs)
	}
}

func TestScoreAgeMatch(t *testing.T) {
	p := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
	}
	dog := testDog("Rex", "Adult", "")

	analysis := Score(dog, p, newTestPriors(t), newTestResolver(t))

	// Base 100 + age bonus 15 + full overlap bonus 20.
	if !almostEqual(analysis.Score, 135) {
		t.Fatalf("expected 135, got %v", analysis.Score)
	}
	if len(analysis.MatchedPrefs) != 1 || analysis.MatchedPrefs[0] != "adult age" {
		t.Fatalf("expected matched label %q, got %v", "adult age", analysis.MatchedPrefs)
	}
}

func TestScoreAgeMismatchIsSofter(t *testing.T) {
	p := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
	}
	dog := testDog("Rex", "Senior", "")

	analysis := Score(dog, p, newTestPriors(t), newTestResolver(t))

	if !almostEqual(analysis.Score, 95) {
		t.Fatalf("expected 95, got %v", analysis.Score)
	}
	if len(analysis.UnmetPrefs) != 1 || analysis.UnmetPrefs[0] != "adult age" {
		t.Fatalf("expected unmet label %q, got %v", "adult age", analysis.UnmetPrefs)
	}
}

func TestScoreGuidanceOriginWeighsLess(t *testing.T) {
	user := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
	}
	guidance := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginGuidance},
	}
	dog := testDog("Rex", "Adult", "")
	priors := newTestPriors(t)
	resolver := newTestResolver(t)

	userScore := Score(dog, user, priors, resolver).Score
	guidanceScore := Score(dog, guidance, priors, resolver).Score

	if guidanceScore >= userScore {
		t.Fatalf("guidance-origin match must score below user-origin: %v vs %v", guidanceScore, userScore)
	}
	// 100 + 15*0.7 + 20.
	if !almostEqual(guidanceScore, 130.5) {
		t.Fatalf("expected 130.5, got %v", guidanceScore)
	}
}

func TestScoreBreedTierBonuses(t *testing.T) {
	priors := newTestPriors(t)
	resolver := newTestResolver(t)

	cases := []struct {
		name     string
		primary  string
		wantTier int
		want     float64
	}{
		// Base 100 + tier bonus + full overlap 20.
		{"exact", "Labrador Retriever", breed.TierExact, 145},
		{"family", "Golden Retriever Mix", breed.TierFamily, 140},
		{"phonetic", "Labrador Retreiver", breed.TierPhonetic, 135},
	}

	for _, tc := range cases {
		include := []string{"labrador retriever"}
		expansion := resolver.Resolve(include[0])

		p := &prefs.EffectivePreferences{
			Breeds: prefs.BreedFacet{
				Include:         include,
				ExpandedInclude: expansion.Names(),
				Origin:          prefs.OriginUser,
			},
		}
		dog := testDog("Rex", "", "")
		dog.Breeds.Primary = tc.primary

		analysis := Score(dog, p, priors, resolver)
		if analysis.BreedTier != tc.wantTier {
			t.Fatalf("%s: expected tier %d, got %d", tc.name, tc.wantTier, analysis.BreedTier)
		}
		if !almostEqual(analysis.Score, tc.want) {
			t.Fatalf("%s: expected score %v, got %v", tc.name, tc.want, analysis.Score)
		}
		if analysis.MatchedPrefs[0] != "preferred breed" {
			t.Fatalf("%s: expected matched label %q, got %v", tc.name, "preferred breed", analysis.MatchedPrefs)
		}
	}
}

func TestScoreExcludedBreedZeroesAndBypasses(t *testing.T) {
	resolver := newTestResolver(t)
	exclude := resolver.Resolve("pit bull").Names()

	p := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
		Breeds: prefs.BreedFacet{
			Exclude:         []string{"pit bull"},
			ExpandedExclude: exclude,
			Origin:          prefs.OriginUser,
		},
	}
	dog := testDog("Rex", "Adult", "")
	dog.Breeds.Primary = "Pit Bull Terrier"

	analysis := Score(dog, p, newTestPriors(t), resolver)
	if analysis.Score != 0 {
		t.Fatalf("excluded breed must zero the score, got %v", analysis.Score)
	}
	if len(analysis.MatchedPrefs) != 0 {
		t.Fatalf("bypass must not collect matched labels, got %v", analysis.MatchedPrefs)
	}
}

func TestScoreTemperamentProvenMatches(t *testing.T) {
	p := &prefs.EffectivePreferences{
		Temperament: prefs.SetFacet{Values: []string{"gentle"}, Origin: prefs.OriginUser},
	}
	dog := testDog("Rex", "", "")
	dog.Tags = []string{"Gentle"}

	analysis := Score(dog, p, newTestPriors(t), newTestResolver(t))
	if len(analysis.MatchedPrefs) != 1 || analysis.MatchedPrefs[0] != "Temperament: gentle" {
		t.Fatalf("expected matched label %q, got %v", "Temperament: gentle", analysis.MatchedPrefs)
	}
	// 100 + 12 + 20.
	if !almostEqual(analysis.Score, 132) {
		t.Fatalf("expected 132, got %v", analysis.Score)
	}
}

func TestScoreTemperamentLabelAgreesWithBlend(t *testing.T) {
	// The matched label must appear exactly when the blended value clears
	// the threshold, for tagged and untagged dogs alike.
	priors := newTestPriors(t)
	resolver := newTestResolver(t)

	cases := []struct {
		trait string
		tags  []string
		breed string
	}{
		{"gentle", []string{"gentle"}, "Golden Retriever"},
		{"gentle", nil, "Golden Retriever"},
		{"quiet", nil, "Beagle"},
		{"quiet", []string{"quiet"}, "Beagle"},
		{"friendly", nil, ""},
	}

	for _, tc := range cases {
		p := &prefs.EffectivePreferences{
			Temperament: prefs.SetFacet{Values: []string{tc.trait}, Origin: prefs.OriginUser},
		}
		dog := testDog("Rex", "", "")
		dog.Tags = tc.tags
		dog.Breeds.Primary = tc.breed

		analysis := Score(dog, p, priors, resolver)
		label := "Temperament: " + tc.trait
		gotMatched := containsLabel(analysis.MatchedPrefs, label)
		wantMatched := priors.Matched(tc.trait, dog.TemperamentTags(), dog.BreedNames())

		if gotMatched != wantMatched {
			t.Fatalf("trait %q tags %v breed %q: matched=%v, blend says %v",
				tc.trait, tc.tags, tc.breed, gotMatched, wantMatched)
		}
		if !gotMatched && !containsLabel(analysis.UnmetPrefs, label) {
			t.Fatalf("trait %q must appear in unmet labels when not matched", tc.trait)
		}
	}
}

func TestScoreFlagPenalties(t *testing.T) {
	priors := newTestPriors(t)
	resolver := newTestResolver(t)

	puppy := testDog("Pip", "Baby", "")
	puppy.Tags = []string{"energetic"}
	p := &prefs.EffectivePreferences{
		Flags: prefs.Flags{LowMaintenance: prefs.Flag{Set: true, Origin: prefs.OriginGuidance}},
	}
	// Base 100 - puppy 10 - high energy 8.
	if got := Score(puppy, p, priors, resolver).Score; !almostEqual(got, 82) {
		t.Fatalf("low-maintenance penalties: expected 82, got %v", got)
	}

	barky := testDog("Yip", "", "")
	barky.Tags = []string{"vocal"}
	p = &prefs.EffectivePreferences{
		Flags: prefs.Flags{QuietPreferred: prefs.Flag{Set: true, Origin: prefs.OriginGuidance}},
	}
	if got := Score(barky, p, priors, resolver).Score; !almostEqual(got, 88) {
		t.Fatalf("quiet vs barky: expected 88, got %v", got)
	}

	giant := testDog("Moose", "", "Extra Large")
	p = &prefs.EffectivePreferences{
		Flags: prefs.Flags{ApartmentOk: prefs.Flag{Set: true, Origin: prefs.OriginGuidance}},
	}
	if got := Score(giant, p, priors, resolver).Score; !almostEqual(got, 92) {
		t.Fatalf("apartment vs xlarge: expected 92, got %v", got)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	priors := newTestPriors(t)
	resolver := newTestResolver(t)

	// Everything specified, everything contradicted, every flag set.
	p := &prefs.EffectivePreferences{
		Age:    prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
		Size:   prefs.SetFacet{Values: []string{"small"}, Origin: prefs.OriginUser},
		Energy: prefs.EnergyFacet{Value: "low", Origin: prefs.OriginUser},
		Temperament: prefs.SetFacet{
			Values: []string{"loyal", "friendly", "playful", "gentle", "quiet", "calm", "affectionate", "intelligent"},
			Origin: prefs.OriginUser,
		},
		Breeds: prefs.BreedFacet{
			Include:         []string{"pug"},
			ExpandedInclude: []string{"pug"},
			Origin:          prefs.OriginUser,
		},
		Flags: prefs.Flags{
			QuietPreferred: prefs.Flag{Set: true, Origin: prefs.OriginUser},
			LowMaintenance: prefs.Flag{Set: true, Origin: prefs.OriginUser},
			ApartmentOk:    prefs.Flag{Set: true, Origin: prefs.OriginUser},
		},
	}

	dog := testDog("Moose", "Baby", "Extra Large")
	dog.Breeds.Primary = "Great Dane"
	dog.Tags = []string{"vocal", "energetic"}
	dog.Description = "high energy and loves to bark"

	analysis := Score(dog, p, priors, resolver)
	if analysis.Score < 0 {
		t.Fatalf("score must clamp at zero, got %v", analysis.Score)
	}
}

func TestScoreIsPure(t *testing.T) {
	resolver := newTestResolver(t)
	priors := newTestPriors(t)
	p := &prefs.EffectivePreferences{
		Age:         prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
		Temperament: prefs.SetFacet{Values: []string{"gentle"}, Origin: prefs.OriginGuidance},
	}
	dog := testDog("Rex", "Adult", "Medium")
	dog.Tags = []string{"gentle"}

	first := Score(dog, p, priors, resolver)
	for i := 0; i < 5; i++ {
		again := Score(dog, p, priors, resolver)
		if again.Score != first.Score || len(again.MatchedPrefs) != len(first.MatchedPrefs) {
			t.Fatalf("scoring is not deterministic: %+v vs %+v", again, first)
		}
	}
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
