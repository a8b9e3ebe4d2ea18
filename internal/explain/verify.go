// Package explain verifies and repairs generated explanation text against a
// fact pack, and synthesizes a deterministic fallback sentence when the
// generated text is unusable. Verification never fails: it rewrites.
package explain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/facts"
	"github.com/dogfinder/dogmatch/internal/petfinder"
)

// DefaultLengthCap bounds the explanation length when the caller sets none.
const DefaultLengthCap = 280

// Options tune a verification pass.
type Options struct {
	LengthCap int
}

// Result of a verification pass. Fixed is always usable; Errors lists the
// repairs applied, one readable line each. OK means no repair was needed.
type Result struct {
	Fixed  string
	Errors []string
	OK     bool
}

// synonyms maps vocabulary words to equivalent spellings accepted wherever
// the canonical word is. Both directions are listed explicitly.
var synonyms = map[string][]string{
	"medium":          {"moderate", "mid-sized", "medium-sized"},
	"moderate":        {"medium"},
	"medium energy":   {"moderate energy"},
	"moderate energy": {"medium energy"},
	"baby":            {"puppy"},
	"puppy":           {"baby"},
	"xlarge":          {"extra large", "extra-large"},
	"extra large":     {"xlarge", "extra-large"},
	"senior":          {"older"},
	"large":           {"big"},
	"small":           {"little"},
}

// askedForPhrases imply the adopter requested something. They must not
// appear when the pack carries no preferences at all.
var askedForPhrases = []string{
	"you asked",
	"you wanted",
	"you requested",
	"you're looking for",
	"you are looking for",
	"your preference",
	"your preferences",
	"as requested",
	"what you want",
}

// attributeVocabulary are the age/size/energy words rule three polices. A
// word from here may only appear when prefs or dog traits carry it.
var attributeVocabulary = []string{
	// Multi-word phrases first so "extra large" is not half-stripped as "large".
	"extra large", "low energy", "high energy", "medium energy", "moderate energy",
	"puppy", "baby", "young", "adult", "senior",
	"small", "medium", "large", "xlarge", "tiny", "giant",
}

// traitVocabulary is the temperament vocabulary shared with the prior table.
var traitVocabulary = []string{
	"loyal", "friendly", "playful", "gentle", "energetic",
	"intelligent", "affectionate", "quiet", "protective", "calm",
}

// Verify checks candidate explanation text against the fact pack and
// repairs every violation. Rules run in a fixed order, each as an isolated
// transform; re-verifying the fixed output yields no errors.
func Verify(text string, pack *facts.Pack, dog *petfinder.Dog, priors *breed.Priors, opts Options) Result {
	result := Result{}
	fixed := strings.TrimSpace(text)

	fixed, errs := checkCitation(fixed, pack, dog, priors)
	result.Errors = append(result.Errors, errs...)

	fixed, errs = stripBannedClaims(fixed, pack)
	result.Errors = append(result.Errors, errs...)

	fixed, errs = stripUnsupportedAttributes(fixed, pack)
	result.Errors = append(result.Errors, errs...)

	if dog != nil && priors != nil {
		fixed, errs = fixTemperamentPhrasing(fixed, pack, dog, priors)
		result.Errors = append(result.Errors, errs...)
	}

	// Stripping may have removed the only cited preference; re-check so
	// the fixed output still satisfies the citation rule on its own.
	fixed, errs = checkCitation(fixed, pack, dog, priors)
	result.Errors = append(result.Errors, errs...)

	fixed, errs = enforceLength(fixed, opts.LengthCap)
	result.Errors = append(result.Errors, errs...)

	result.Fixed = fixed
	result.OK = len(result.Errors) == 0
	return result
}

// checkCitation enforces the grounding contract on preferences: text for a
// non-empty pref list must reference at least one preference, and text for
// an empty pref list must not pretend the adopter asked for anything. A
// violation discards the text entirely in favor of the fallback sentence;
// partial repair of an ungrounded claim is not possible.
func checkCitation(text string, pack *facts.Pack, dog *petfinder.Dog, priors *breed.Priors) (string, []string) {
	lower := strings.ToLower(text)

	if len(pack.Prefs) == 0 {
		for _, phrase := range askedForPhrases {
			if strings.Contains(lower, phrase) {
				return Fallback(pack, dog, priors), []string{
					fmt.Sprintf("text implies a request (%q) but no preferences were given; replaced with fallback", phrase),
				}
			}
		}
		return text, nil
	}

	for _, pref := range pack.Prefs {
		if containsTerm(lower, pref) {
			return text, nil
		}
		for _, syn := range synonyms[pref] {
			if containsTerm(lower, syn) {
				return text, nil
			}
		}
	}

	return Fallback(pack, dog, priors), []string{
		"text cites none of the adopter's preferences; replaced with fallback",
	}
}

// stripBannedClaims removes banned claims the dog's own listing does not
// back up verbatim.
func stripBannedClaims(text string, pack *facts.Pack) (string, []string) {
	var errs []string
	for _, term := range pack.Banned {
		if !containsTerm(strings.ToLower(text), term) {
			continue
		}
		if containsString(pack.DogTraits, term) {
			continue
		}
		text = removeTerm(text, term)
		errs = append(errs, fmt.Sprintf("removed unverified claim %q", term))
	}
	return text, errs
}

// stripUnsupportedAttributes removes age/size/energy words supported by
// neither the preferences nor the dog's traits.
func stripUnsupportedAttributes(text string, pack *facts.Pack) (string, []string) {
	var errs []string
	for _, word := range attributeVocabulary {
		if !containsTerm(strings.ToLower(text), word) {
			continue
		}
		if attributeSupported(word, pack) {
			continue
		}
		text = removeTerm(text, word)
		errs = append(errs, fmt.Sprintf("removed attribute %q: not in preferences or dog traits", word))
	}
	return text, errs
}

func attributeSupported(word string, pack *facts.Pack) bool {
	supported := func(w string) bool {
		return containsString(pack.Prefs, w) || containsString(pack.DogTraits, w)
	}
	if supported(word) {
		return true
	}
	for _, syn := range synonyms[word] {
		if supported(syn) {
			return true
		}
	}
	// A bare size/energy word is also supported by its phrased pref form
	// ("medium" by "medium size", "low energy" by itself).
	for _, entry := range append(append([]string{}, pack.Prefs...), pack.DogTraits...) {
		if strings.Contains(entry, word) {
			return true
		}
	}
	return false
}

// fixTemperamentPhrasing aligns trait phrasing with the evidence class:
// proven traits read definitive, prior-only traits read tentative, and
// unsupported trait claims are removed. A bare mention of a trait the
// adopter asked for is a preference citation, not a claim about the dog,
// and stays.
func fixTemperamentPhrasing(text string, pack *facts.Pack, dog *petfinder.Dog, priors *breed.Priors) (string, []string) {
	var errs []string
	tags := dog.TemperamentTags()
	breeds := dog.BreedNames()

	for _, trait := range traitVocabulary {
		if !containsTerm(strings.ToLower(text), trait) {
			continue
		}

		switch priors.Evidence(trait, tags, breeds) {
		case breed.EvidenceProven:
			tentative := regexp.MustCompile(`(?i)\btends to be ` + trait + `\b`)
			if tentative.MatchString(text) {
				text = tentative.ReplaceAllString(text, "is "+trait)
				errs = append(errs, fmt.Sprintf("trait %q is listed on the dog; rephrased as definitive", trait))
			}
		case breed.EvidenceLikely:
			definitive := regexp.MustCompile(`(?i)\b(?:is|are)\s+(?:(?:very|really|so)\s+)?` + trait + `\b`)
			if definitive.MatchString(text) {
				text = definitive.ReplaceAllString(text, "tends to be "+trait)
				errs = append(errs, fmt.Sprintf("trait %q is only breed-typical; rephrased as tentative", trait))
			}
		default:
			before := text
			text = removeTraitClaim(text, trait, containsString(pack.Prefs, trait))
			if text != before {
				errs = append(errs, fmt.Sprintf("removed trait %q: no listing or breed evidence", trait))
			}
		}
	}
	return text, errs
}

// enforceLength clamps at a word boundary, trims dangling connectors and
// guarantees a sentence-ending mark, keeping the result within the cap.
func enforceLength(text string, limit int) (string, []string) {
	if limit <= 0 {
		limit = DefaultLengthCap
	}

	var errs []string
	fixed := strings.TrimSpace(text)

	if len(fixed) > limit {
		// Back the cut point off to a rune start so space-free text
		// never gets split mid-rune.
		end := limit
		for end > 0 && !utf8.RuneStart(fixed[end]) {
			end--
		}
		cut := fixed[:end]
		if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
			cut = cut[:idx]
		}
		fixed = cut
		errs = append(errs, fmt.Sprintf("clamped text to %d characters at a word boundary", limit))
	}

	fixed = trimTrailingConnectors(fixed)

	if fixed != "" && !strings.ContainsAny(fixed[len(fixed)-1:], ".!?") {
		// Keep the terminal mark inside the cap so a re-verification
		// pass sees nothing to clamp.
		if len(fixed)+1 > limit {
			if idx := strings.LastIndexByte(fixed, ' '); idx > 0 {
				fixed = trimTrailingConnectors(fixed[:idx])
			}
			for len(fixed)+1 > limit && fixed != "" {
				_, size := utf8.DecodeLastRuneInString(fixed)
				fixed = fixed[:len(fixed)-size]
			}
		}
		fixed += "."
	}

	return fixed, errs
}

var trailingConnectors = []string{"and", "but", "or", "with", "for", "a", "an", "the"}

func trimTrailingConnectors(text string) string {
	for {
		text = strings.TrimRight(text, " ,;:-")
		words := strings.Fields(text)
		if len(words) == 0 {
			return text
		}
		last := strings.ToLower(words[len(words)-1])
		trimmed := false
		for _, connector := range trailingConnectors {
			if last == connector {
				text = strings.TrimSpace(text[:len(text)-len(words[len(words)-1])])
				trimmed = true
				break
			}
		}
		if !trimmed {
			return text
		}
	}
}

// containsTerm reports a word-boundary, case-insensitive term match.
func containsTerm(lowerText, term string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(term)) + `\b`)
	return re.MatchString(lowerText)
}

// removeTerm deletes word-boundary occurrences of a term and tidies the
// leftover punctuation and spacing.
func removeTerm(text, term string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	return tidy(re.ReplaceAllString(text, ""))
}

// removeTraitClaim deletes a trait claim together with its phrasing scaffold
// ("is loyal", "tends to be loyal") rather than leaving "is" dangling. When
// cited is true the bare adjective survives as a preference reference.
func removeTraitClaim(text, trait string, cited bool) string {
	patterns := []string{
		`(?i)\b(?:and\s+)?tends to be ` + trait + `\b`,
		`(?i)\b(?:is|are)\s+(?:(?:very|really|so)\s+)?` + trait + `\b`,
	}
	if !cited {
		patterns = append(patterns, `(?i)\b(?:and\s+)?`+trait+`\b`)
	}
	for _, p := range patterns {
		text = regexp.MustCompile(p).ReplaceAllString(text, "")
	}
	return tidy(text)
}

// tidy collapses the artifacts stripping leaves behind: doubled spaces,
// wayward commas and dangling conjunctions before punctuation.
func tidy(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	replacements := []struct{ old, new string }{
		{" is and ", " is "},
		{" are and ", " are "},
		{" ,", ","},
		{" .", "."},
		{" !", "!"},
		{" ?", "?"},
		{",,", ","},
		{", .", "."},
		{"and .", "."},
		{"and,", ","},
		{", and.", "."},
		{" and.", "."},
	}
	for changed := true; changed; {
		changed = false
		for _, r := range replacements {
			if strings.Contains(text, r.old) {
				text = strings.ReplaceAll(text, r.old, r.new)
				changed = true
			}
		}
	}
	text = strings.TrimPrefix(text, ", ")
	text = strings.TrimPrefix(text, "and ")
	return strings.TrimSpace(text)
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
