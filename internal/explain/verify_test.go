package explain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/facts"
	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/prefs"
)

func newPriors(t *testing.T) *breed.Priors {
	t.Helper()
	return breed.DefaultPriors(breed.DefaultDictionary())
}

func buildPack(t *testing.T, p *prefs.EffectivePreferences, dog *petfinder.Dog) *facts.Pack {
	t.Helper()
	return facts.Build(p, dog)
}

func TestVerifyCleanTextPasses(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex", Age: "Adult", Size: "Medium"}
	dog.Tags = []string{"gentle"}
	p := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
	}
	pack := buildPack(t, p, dog)

	text := "Rex is an adult dog and is gentle."
	result := Verify(text, pack, dog, newPriors(t), Options{})

	if !result.OK {
		t.Fatalf("expected clean pass, got errors %v", result.Errors)
	}
	if result.Fixed != text {
		t.Fatalf("clean text must come back unchanged, got %q", result.Fixed)
	}
}

func TestVerifyCitationViolationFallsBack(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex", Size: "Small"}
	p := &prefs.EffectivePreferences{
		Size: prefs.SetFacet{Values: []string{"small"}, Origin: prefs.OriginUser},
	}
	pack := buildPack(t, p, dog)

	result := Verify("A wonderful companion for anyone.", pack, dog, newPriors(t), Options{})
	if result.OK {
		t.Fatalf("expected a citation error")
	}
	if !strings.Contains(strings.ToLower(result.Fixed), "small") {
		t.Fatalf("fallback must cite the preference, got %q", result.Fixed)
	}

	again := Verify(result.Fixed, pack, dog, newPriors(t), Options{})
	if !again.OK {
		t.Fatalf("fallback must verify cleanly, got %v", again.Errors)
	}
}

func TestVerifyEmptyPrefsMustNotImplyRequest(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex", Age: "Adult"}
	pack := buildPack(t, &prefs.EffectivePreferences{}, dog)

	result := Verify("Rex is exactly what you asked for.", pack, dog, newPriors(t), Options{})
	if result.OK {
		t.Fatalf("expected an error for implied request")
	}
	lower := strings.ToLower(result.Fixed)
	for _, phrase := range []string{"you asked", "your preference"} {
		if strings.Contains(lower, phrase) {
			t.Fatalf("fixed text still implies a request: %q", result.Fixed)
		}
	}
}

func TestVerifyStripsUnverifiedBannedClaim(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex"}
	dog.Tags = []string{"friendly"}
	p := &prefs.EffectivePreferences{
		Temperament: prefs.SetFacet{Values: []string{"friendly"}, Origin: prefs.OriginUser},
	}
	pack := buildPack(t, p, dog)

	result := Verify("Rex is hypoallergenic and friendly.", pack, dog, newPriors(t), Options{})
	if result.OK {
		t.Fatalf("expected banned-claim error")
	}
	if strings.Contains(strings.ToLower(result.Fixed), "hypoallergenic") {
		t.Fatalf("hypoallergenic must be stripped, got %q", result.Fixed)
	}
	if !strings.Contains(result.Fixed, "friendly") {
		t.Fatalf("verified trait must survive, got %q", result.Fixed)
	}
}

func TestVerifyKeepsBannedClaimWhenListingBacksIt(t *testing.T) {
	dog := &petfinder.Dog{Name: "Momo", Description: "A truly hypoallergenic coat."}
	p := &prefs.EffectivePreferences{
		Temperament: prefs.SetFacet{Values: []string{"calm"}, Origin: prefs.OriginUser},
	}
	dog.Tags = []string{"calm"}
	pack := buildPack(t, p, dog)

	result := Verify("Momo is calm and hypoallergenic.", pack, dog, newPriors(t), Options{})
	if !strings.Contains(strings.ToLower(result.Fixed), "hypoallergenic") {
		t.Fatalf("listing-backed claim must stay, got %q", result.Fixed)
	}
}

func TestVerifyStripsUnsupportedAttributes(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex", Age: "Adult"}
	p := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
	}
	pack := buildPack(t, p, dog)

	result := Verify("Rex is an adult dog, small and young.", pack, dog, newPriors(t), Options{})
	if result.OK {
		t.Fatalf("expected unsupported-attribute errors")
	}
	lower := strings.ToLower(result.Fixed)
	if strings.Contains(lower, "small") || strings.Contains(lower, "young") {
		t.Fatalf("unsupported attributes must be stripped, got %q", result.Fixed)
	}
	if !strings.Contains(lower, "adult") {
		t.Fatalf("supported attribute must survive, got %q", result.Fixed)
	}
}

func TestVerifyRewritesPriorOnlyTraitToTentative(t *testing.T) {
	// Empty tag list, breed prior for loyal well above the likely
	// threshold: phrasing must turn tentative.
	dog := &petfinder.Dog{Name: "Rex"}
	dog.Breeds.Primary = "Labrador Retriever"
	p := &prefs.EffectivePreferences{
		Temperament: prefs.SetFacet{Values: []string{"loyal"}, Origin: prefs.OriginUser},
	}
	pack := buildPack(t, p, dog)

	result := Verify("This dog is loyal and playful.", pack, dog, newPriors(t), Options{})
	if result.OK {
		t.Fatalf("expected a phrasing error")
	}
	if !strings.Contains(result.Fixed, "tends to be loyal") {
		t.Fatalf("expected tentative phrasing, got %q", result.Fixed)
	}
	if strings.Contains(result.Fixed, "is loyal") {
		t.Fatalf("definitive phrasing must be gone, got %q", result.Fixed)
	}
}

func TestVerifyRewritesProvenTraitToDefinitive(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex"}
	dog.Tags = []string{"gentle"}
	p := &prefs.EffectivePreferences{
		Temperament: prefs.SetFacet{Values: []string{"gentle"}, Origin: prefs.OriginUser},
	}
	pack := buildPack(t, p, dog)

	result := Verify("Rex tends to be gentle.", pack, dog, newPriors(t), Options{})
	if result.OK {
		t.Fatalf("expected a phrasing error")
	}
	if !strings.Contains(result.Fixed, "is gentle") {
		t.Fatalf("expected definitive phrasing, got %q", result.Fixed)
	}
}

func TestVerifyStripsUnsupportedTraitClaim(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex"}
	p := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
	}
	dog.Age = "Adult"
	pack := buildPack(t, p, dog)

	result := Verify("Rex is an adult dog and is protective.", pack, dog, newPriors(t), Options{})
	if result.OK {
		t.Fatalf("expected a trait error")
	}
	if strings.Contains(strings.ToLower(result.Fixed), "protective") {
		t.Fatalf("unsupported trait must be stripped, got %q", result.Fixed)
	}
}

func TestVerifyLengthClamp(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex", Age: "Adult"}
	p := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
	}
	pack := buildPack(t, p, dog)

	long := "Rex is an adult dog who loves long walks on the beach every single morning and evening without fail whatsoever."
	opts := Options{LengthCap: 60}
	result := Verify(long, pack, dog, newPriors(t), opts)

	if len(result.Fixed) > 60 {
		t.Fatalf("fixed text exceeds cap: %d chars", len(result.Fixed))
	}
	last := result.Fixed[len(result.Fixed)-1]
	if last != '.' && last != '!' && last != '?' {
		t.Fatalf("fixed text must end a sentence, got %q", result.Fixed)
	}
	for _, word := range strings.Fields(strings.TrimRight(result.Fixed, ".!?")) {
		if !strings.Contains(long, word) {
			t.Fatalf("clamp cut mid-word: %q not in original", word)
		}
	}

	again := Verify(result.Fixed, pack, dog, newPriors(t), opts)
	if !again.OK {
		t.Fatalf("re-verification after clamp must be clean, got %v", again.Errors)
	}
}

func TestVerifyLengthClampKeepsRunesIntact(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex", Tags: []string{"gentle"}}
	p := &prefs.EffectivePreferences{
		Temperament: prefs.SetFacet{Values: []string{"gentle"}, Origin: prefs.OriginUser},
	}
	pack := buildPack(t, p, dog)

	// One space-free word of multi-byte runes, so the clamp cannot fall
	// back to a word boundary.
	long := "gentle" + strings.Repeat("é", 40)
	opts := Options{LengthCap: 61}
	result := Verify(long, pack, dog, newPriors(t), opts)

	if !utf8.ValidString(result.Fixed) {
		t.Fatalf("fixed text is not valid UTF-8: %q", result.Fixed)
	}
	if len(result.Fixed) > 61 {
		t.Fatalf("fixed text exceeds cap: %d bytes", len(result.Fixed))
	}
	if !strings.HasSuffix(result.Fixed, ".") {
		t.Fatalf("fixed text must end a sentence, got %q", result.Fixed)
	}

	again := Verify(result.Fixed, pack, dog, newPriors(t), opts)
	if !again.OK {
		t.Fatalf("re-verification after clamp must be clean, got %v", again.Errors)
	}
	if again.Fixed != result.Fixed {
		t.Fatalf("re-verification changed the text: %q vs %q", again.Fixed, result.Fixed)
	}
}

func TestVerifyIdempotent(t *testing.T) {
	dog := &petfinder.Dog{Name: "Rex", Age: "Adult", Size: "Medium"}
	dog.Breeds.Primary = "Labrador Retriever"
	dog.Tags = []string{"gentle"}
	p := &prefs.EffectivePreferences{
		Age:         prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
		Temperament: prefs.SetFacet{Values: []string{"gentle", "loyal"}, Origin: prefs.OriginGuidance},
	}
	pack := buildPack(t, p, dog)
	priors := newPriors(t)

	inputs := []string{
		"Rex is an adult dog, is loyal and hypoallergenic.",
		"A dog with no citation at all here.",
		"Rex tends to be gentle and is a young, tiny companion.",
		"Rex is an adult, medium dog and tends to be loyal.",
	}

	for _, input := range inputs {
		first := Verify(input, pack, dog, priors, Options{})
		second := Verify(first.Fixed, pack, dog, priors, Options{})
		if !second.OK {
			t.Fatalf("input %q: second pass not clean: %v (fixed %q)", input, second.Errors, first.Fixed)
		}
		if second.Fixed != first.Fixed {
			t.Fatalf("input %q: fixed text drifted: %q then %q", input, first.Fixed, second.Fixed)
		}
	}
}
