package breed

import (
	"strings"
	"testing"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultDictionary())
	if err != nil {
		t.Fatalf("creating resolver: %v", err)
	}
	return r
}

func TestResolveExactCanonical(t *testing.T) {
	r := newTestResolver(t)

	exp := r.Resolve("Labrador Retriever")
	if len(exp.Candidates) == 0 {
		t.Fatalf("expected candidates for canonical breed")
	}
	if exp.Candidates[0].Tier != TierExact {
		t.Fatalf("expected tier %d, got %d", TierExact, exp.Candidates[0].Tier)
	}
	if exp.Candidates[0].Name != "labrador retriever" {
		t.Fatalf("unexpected candidate: %q", exp.Candidates[0].Name)
	}
}

func TestResolveAlias(t *testing.T) {
	r := newTestResolver(t)

	cases := []struct {
		term string
		want string
	}{
		{"lab", "labrador retriever"},
		{"GSD", "german shepherd dog"},
		{"frenchie", "french bulldog"},
		{"pittie", "pit bull terrier"},
	}

	for _, tc := range cases {
		exp := r.Resolve(tc.term)
		if len(exp.Candidates) == 0 {
			t.Fatalf("%s: expected candidates", tc.term)
		}
		if exp.Candidates[0].Tier != TierAlias {
			t.Fatalf("%s: expected tier %d, got %d", tc.term, TierAlias, exp.Candidates[0].Tier)
		}
		if exp.Candidates[0].Name != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.term, tc.want, exp.Candidates[0].Name)
		}
	}
}

func TestResolveDoodleFamily(t *testing.T) {
	r := newTestResolver(t)

	for _, term := range []string{"doodle", "Golden-Doodle", "SHEEPADOODLE", "some doodle thing"} {
		exp := r.Resolve(term)
		names := exp.Names()
		for _, required := range []string{"goldendoodle", "labradoodle", "poodle mix"} {
			if !containsString(names, required) {
				t.Fatalf("%s: expected %q in expansion, got %v", term, required, names)
			}
		}
	}
}

func TestResolveCandidateOrderDeterministic(t *testing.T) {
	r := newTestResolver(t)

	first := r.Resolve("goldendoodle")
	for i := 1; i < len(first.Candidates); i++ {
		prev, cur := first.Candidates[i-1], first.Candidates[i]
		if prev.Tier > cur.Tier {
			t.Fatalf("candidates out of tier order: %v before %v", prev, cur)
		}
		if prev.Tier == cur.Tier && prev.Name > cur.Name {
			t.Fatalf("candidates out of name order within tier: %q before %q", prev.Name, cur.Name)
		}
	}

	for i := 0; i < 5; i++ {
		again := r.Resolve("goldendoodle")
		if len(again.Candidates) != len(first.Candidates) {
			t.Fatalf("candidate count changed between runs: %d vs %d", len(again.Candidates), len(first.Candidates))
		}
		for j := range again.Candidates {
			if again.Candidates[j].Name != first.Candidates[j].Name {
				t.Fatalf("candidate order changed between runs at %d: %q vs %q", j, again.Candidates[j].Name, first.Candidates[j].Name)
			}
		}
	}
}

func TestResolveMixQualifierExpandsFamily(t *testing.T) {
	r := newTestResolver(t)

	exp := r.Resolve("lab mix")
	names := exp.Names()
	if !containsString(names, "labrador retriever") {
		t.Fatalf("expected base breed in expansion, got %v", names)
	}
	if !containsString(names, "golden retriever") {
		t.Fatalf("expected retriever family member in expansion, got %v", names)
	}
	for _, c := range exp.Candidates {
		if c.Tier != TierFamily {
			t.Fatalf("expected family tier for %q, got %d", c.Name, c.Tier)
		}
	}
}

func TestResolvePhonetic(t *testing.T) {
	r := newTestResolver(t)

	exp := r.Resolve("labrador retreiver")
	if len(exp.Candidates) == 0 {
		t.Fatalf("expected candidates")
	}
	c := exp.Candidates[0]
	if c.Tier != TierPhonetic {
		t.Fatalf("expected tier %d, got %d (reason %q)", TierPhonetic, c.Tier, c.Reason)
	}
	if c.Name != "labrador retriever" {
		t.Fatalf("unexpected candidate: %q", c.Name)
	}
}

func TestResolveTrigram(t *testing.T) {
	r := newTestResolver(t)

	exp := r.Resolve("doberman pincher")
	if len(exp.Candidates) == 0 {
		t.Fatalf("expected candidates")
	}
	c := exp.Candidates[0]
	if c.Tier != TierTrigram {
		t.Fatalf("expected tier %d, got %d (reason %q)", TierTrigram, c.Tier, c.Reason)
	}
	if c.Name != "doberman pinscher" {
		t.Fatalf("unexpected candidate: %q", c.Name)
	}
}

func TestResolveKeepsLiteralFallback(t *testing.T) {
	r := newTestResolver(t)

	exp := r.Resolve("zorblat hound dog xq")
	if len(exp.Candidates) != 1 {
		t.Fatalf("expected a single literal candidate, got %v", exp.Candidates)
	}
	if exp.Candidates[0].Tier != TierNone {
		t.Fatalf("expected literal fallback tier, got %d", exp.Candidates[0].Tier)
	}
	if exp.Candidates[0].Name != "zorblat hound dog xq" {
		t.Fatalf("unexpected literal: %q", exp.Candidates[0].Name)
	}
}

func TestHitReflexiveAtTierOne(t *testing.T) {
	r := newTestResolver(t)

	for _, name := range []string{"labrador retriever", "greyhound", "shih tzu"} {
		hit := r.Hit([]string{name}, []string{name})
		if !hit.Matched {
			t.Fatalf("%s: expected a match", name)
		}
		if hit.Tier != TierExact {
			t.Fatalf("%s: expected tier %d, got %d", name, TierExact, hit.Tier)
		}
	}
}

func TestHitPrefersMostConfidentTier(t *testing.T) {
	r := newTestResolver(t)

	// "goldendoodle" matches the wanted "goldendoodle" exactly (tier 1) and
	// also through family expansion (tier 3); the exact tier must win.
	hit := r.Hit([]string{"Goldendoodle"}, []string{"goldendoodle", "labradoodle"})
	if !hit.Matched {
		t.Fatalf("expected a match")
	}
	if hit.Tier != TierExact {
		t.Fatalf("expected tier %d, got %d (reason %q)", TierExact, hit.Tier, hit.Reason)
	}
}

func TestHitThroughFamilyExpansion(t *testing.T) {
	r := newTestResolver(t)

	wanted := r.Resolve("doodle").Names()
	hit := r.Hit([]string{"Labradoodle"}, wanted)
	if !hit.Matched {
		t.Fatalf("expected labradoodle to match a doodle request")
	}
}

func TestHitNoMatch(t *testing.T) {
	r := newTestResolver(t)

	hit := r.Hit([]string{"pug"}, []string{"great dane"})
	if hit.Matched {
		t.Fatalf("did not expect a match, got tier %d (%s)", hit.Tier, hit.Reason)
	}
}

func TestNormalizeTerm(t *testing.T) {
	cases := map[string]string{
		"  Labrador   Retriever ": "labrador retriever",
		"Shar-Pei":                "shar pei",
		"BICHON FRISÉ":            "bichon frise",
		"":                        "",
	}
	for in, want := range cases {
		if got := normalizeTerm(in); got != want {
			t.Fatalf("normalizeTerm(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"retriever", "retreiver", 2},
	}
	for _, tc := range cases {
		if got := editDistance(tc.a, tc.b); got != tc.want {
			t.Fatalf("editDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEmptyDictionaryRejected(t *testing.T) {
	if _, err := NewDictionary(nil, nil, nil); err == nil {
		t.Fatalf("expected error for empty dictionary")
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestResolveDoodleIsCaseInsensitive(t *testing.T) {
	r := newTestResolver(t)

	upper := r.Resolve("DOODLE").Names()
	lower := r.Resolve("doodle").Names()
	if strings.Join(upper, ",") != strings.Join(lower, ",") {
		t.Fatalf("expected identical expansions, got %v vs %v", upper, lower)
	}
}
