package breed

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Confidence tiers for a resolution, lower is more confident.
const (
	TierExact    = 1
	TierAlias    = 2
	TierFamily   = 3
	TierPhonetic = 4
	TierTrigram  = 5

	// TierNone marks a term that could not be resolved against the
	// dictionary and was kept as a literal fallback candidate.
	TierNone = 0
)

const trigramThreshold = 0.72

// Candidate is a single canonical name produced by resolving a raw term.
type Candidate struct {
	Name   string
	Tier   int
	Reason string
}

// Expansion is the full result of resolving a raw breed term.
type Expansion struct {
	Input      string
	Normalized string
	Candidates []Candidate
}

// Names returns the deduplicated candidate names in confidence order.
func (e Expansion) Names() []string {
	seen := make(map[string]bool, len(e.Candidates))
	out := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c.Name)
	}
	return out
}

// Hit is the outcome of checking a dog's breed terms against a wanted set.
type Hit struct {
	Matched bool
	Tier    int
	Reason  string
}

// Resolver maps raw breed strings to canonical names with a confidence tier.
type Resolver struct {
	dict *Dictionary
}

// NewResolver creates a resolver over the provided dictionary.
func NewResolver(dict *Dictionary) (*Resolver, error) {
	if dict == nil {
		return nil, fmt.Errorf("breed dictionary is required")
	}
	return &Resolver{dict: dict}, nil
}

// Resolve expands a raw term into canonical candidates. The tier ladder is
// tried most-confident first and short-circuits, except for family expansion
// which is additive: a doodle-flavored term always carries the whole doodle
// family so a wanted "goldendoodle" still matches a listed "labradoodle".
// An unresolvable term is kept as a literal fallback, never dropped.
// Candidates come back ordered by tier then name, so the expansion is
// deterministic for identical inputs.
func (r *Resolver) Resolve(term string) Expansion {
	exp := r.resolve(term)
	sortCandidates(exp.Candidates)
	return exp
}

func (r *Resolver) resolve(term string) Expansion {
	norm := normalizeTerm(term)
	exp := Expansion{Input: term, Normalized: norm}
	if norm == "" {
		return exp
	}

	// Tier 1: exact canonical match.
	if r.dict.Canonical(norm) {
		exp.Candidates = append(exp.Candidates, Candidate{
			Name:   norm,
			Tier:   TierExact,
			Reason: fmt.Sprintf("%q is a canonical breed", norm),
		})
		exp.Candidates = append(exp.Candidates, r.familyCandidates(norm)...)
		return exp
	}

	// Tier 2: alias table.
	if target, ok := r.dict.Alias(norm); ok {
		exp.Candidates = append(exp.Candidates, Candidate{
			Name:   target,
			Tier:   TierAlias,
			Reason: fmt.Sprintf("%q is a known alias for %q", norm, target),
		})
		exp.Candidates = append(exp.Candidates, r.familyCandidates(target)...)
		exp.Candidates = append(exp.Candidates, r.doodleCandidates(norm, exp.Candidates)...)
		return exp
	}

	// Tier 3: family expansion for family keys, doodle-flavored terms and
	// "mix"/"x"/"cross" qualifiers on an otherwise exact breed.
	if candidates := r.expandFamily(norm); len(candidates) > 0 {
		exp.Candidates = append(exp.Candidates, candidates...)
		return exp
	}

	// Tier 4: phonetic skeleton agreement backed by edit distance.
	if name, ok := r.phoneticMatch(norm); ok {
		exp.Candidates = append(exp.Candidates, Candidate{
			Name:   name,
			Tier:   TierPhonetic,
			Reason: fmt.Sprintf("%q sounds like %q", norm, name),
		})
		return exp
	}

	// Tier 5: trigram similarity.
	if name, score, ok := r.trigramMatch(norm); ok {
		exp.Candidates = append(exp.Candidates, Candidate{
			Name:   name,
			Tier:   TierTrigram,
			Reason: fmt.Sprintf("%q resembles %q (similarity %.2f)", norm, name, score),
		})
		return exp
	}

	exp.Candidates = append(exp.Candidates, Candidate{
		Name:   norm,
		Tier:   TierNone,
		Reason: fmt.Sprintf("%q kept as literal term", norm),
	})
	return exp
}

// Hit evaluates a dog's breed terms against an already expanded wanted set and
// returns the most confident tier that matched any pair. Lower tier numbers
// always win when several tiers would match.
func (r *Resolver) Hit(dogTerms []string, wanted []string) Hit {
	best := Hit{}
	for _, raw := range dogTerms {
		dogExp := r.Resolve(raw)
		for _, dogCand := range dogExp.Candidates {
			for _, want := range wanted {
				tier, reason, ok := r.pairTier(dogCand, normalizeTerm(want))
				if !ok {
					continue
				}
				if !best.Matched || tier < best.Tier {
					best = Hit{Matched: true, Tier: tier, Reason: reason}
				}
			}
		}
	}
	return best
}

// pairTier compares a dog-side candidate against a single wanted name.
func (r *Resolver) pairTier(dogCand Candidate, want string) (int, string, bool) {
	if want == "" {
		return 0, "", false
	}

	if dogCand.Name == want {
		// The pair tier is bounded by how the dog-side name was derived:
		// an exact listed breed matching a wanted exact breed is tier 1,
		// while the same name reached through family expansion is tier 3.
		tier := dogCand.Tier
		if tier < TierExact {
			tier = TierExact
		}
		return tier, fmt.Sprintf("dog breed resolves to wanted %q: %s", want, dogCand.Reason), true
	}

	// A containment check covers multi-word listings such as
	// "labrador retriever mix" carrying the wanted "labrador retriever".
	if strings.Contains(dogCand.Name, want) || strings.Contains(want, dogCand.Name) {
		tier := dogCand.Tier
		if tier < TierAlias {
			tier = TierAlias
		}
		return tier, fmt.Sprintf("dog breed %q overlaps wanted %q", dogCand.Name, want), true
	}

	return 0, "", false
}

func (r *Resolver) familyCandidates(name string) []Candidate {
	if !strings.Contains(name, "doodle") {
		return nil
	}
	return r.familyMembers("doodle", name)
}

// doodleCandidates appends the doodle family when the raw input mentions a
// doodle even though an earlier tier already produced a candidate.
func (r *Resolver) doodleCandidates(norm string, existing []Candidate) []Candidate {
	if !strings.Contains(norm, "doodle") {
		return nil
	}
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.Name] = true
	}
	var out []Candidate
	for _, c := range r.familyMembers("doodle", norm) {
		if seen[c.Name] {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *Resolver) familyMembers(key, origin string) []Candidate {
	members, ok := r.dict.Family(key)
	if !ok {
		return nil
	}
	out := make([]Candidate, 0, len(members))
	for _, member := range members {
		if member == origin {
			continue
		}
		out = append(out, Candidate{
			Name:   member,
			Tier:   TierFamily,
			Reason: fmt.Sprintf("%q expands to the %s family", origin, key),
		})
	}
	return out
}

func (r *Resolver) expandFamily(norm string) []Candidate {
	// Direct family key ("hound", "spaniel").
	if members, ok := r.dict.Family(norm); ok {
		out := make([]Candidate, 0, len(members))
		for _, member := range members {
			out = append(out, Candidate{
				Name:   member,
				Tier:   TierFamily,
				Reason: fmt.Sprintf("%q expands to the %s family", norm, norm),
			})
		}
		return out
	}

	// Any doodle-flavored spelling gets the doodle family.
	if strings.Contains(norm, "doodle") {
		return r.familyMembers("doodle", norm)
	}

	// A mix qualifier on an exact breed or alias expands to that breed's
	// family when it has one, otherwise to the base breed itself.
	base, qualified := stripMixQualifier(norm)
	if !qualified {
		return nil
	}

	resolved := base
	if !r.dict.Canonical(resolved) {
		if target, ok := r.dict.Alias(resolved); ok {
			resolved = target
		} else {
			return nil
		}
	}

	if key, ok := r.dict.FamilyOf(resolved); ok {
		out := []Candidate{{
			Name:   resolved,
			Tier:   TierFamily,
			Reason: fmt.Sprintf("%q is a %s mix", norm, resolved),
		}}
		for _, c := range r.familyMembers(key, resolved) {
			out = append(out, c)
		}
		return out
	}

	return []Candidate{{
		Name:   resolved,
		Tier:   TierFamily,
		Reason: fmt.Sprintf("%q is a %s mix", norm, resolved),
	}}
}

// stripMixQualifier removes a trailing "mix", "x" or "cross" word.
func stripMixQualifier(term string) (string, bool) {
	words := strings.Fields(term)
	if len(words) < 2 {
		return term, false
	}
	switch words[len(words)-1] {
	case "mix", "x", "cross":
		return strings.Join(words[:len(words)-1], " "), true
	}
	return term, false
}

func (r *Resolver) phoneticMatch(norm string) (string, bool) {
	skeleton := consonantSkeleton(norm)
	if skeleton == "" {
		return "", false
	}

	limit := 2
	if len(norm) > 6 {
		limit = 3
	}

	bestName := ""
	bestDist := limit + 1
	for _, name := range r.dict.canonical {
		if consonantSkeleton(name) != skeleton {
			continue
		}
		if d := editDistance(norm, name); d < bestDist {
			bestDist = d
			bestName = name
		}
	}

	if bestName == "" {
		return "", false
	}
	return bestName, true
}

func (r *Resolver) trigramMatch(norm string) (string, float64, bool) {
	grams := trigrams(norm)
	if len(grams) == 0 {
		return "", 0, false
	}

	bestName := ""
	bestScore := 0.0
	for _, name := range r.dict.canonical {
		score := trigramCosine(grams, trigrams(name))
		if score > bestScore {
			bestScore = score
			bestName = name
		}
	}

	if bestScore < trigramThreshold {
		return "", 0, false
	}
	return bestName, bestScore, true
}

// normalizeTerm lowercases, folds common diacritics, treats hyphens as spaces
// and collapses whitespace.
func normalizeTerm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 'à', 'á', 'â', 'ä', 'ã', 'å':
			b.WriteRune('a')
		case 'è', 'é', 'ê', 'ë':
			b.WriteRune('e')
		case 'ì', 'í', 'î', 'ï':
			b.WriteRune('i')
		case 'ò', 'ó', 'ô', 'ö', 'õ':
			b.WriteRune('o')
		case 'ù', 'ú', 'û', 'ü':
			b.WriteRune('u')
		case 'ñ':
			b.WriteRune('n')
		case 'ç':
			b.WriteRune('c')
		case '-', '_', '/':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// consonantSkeleton folds common digraphs, strips vowels and collapses
// repeated letters, producing a coarse phonetic bucket key.
func consonantSkeleton(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	folds := [][2]string{
		{"ph", "f"},
		{"gh", "g"},
		{"ck", "k"},
		{"sh", "s"},
		{"ch", "c"},
		{"th", "t"},
		{"wh", "w"},
		{"dg", "j"},
	}
	for _, fold := range folds {
		s = strings.ReplaceAll(s, fold[0], fold[1])
	}

	var b strings.Builder
	var last rune
	for _, r := range s {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			continue
		}
		if r < 'a' || r > 'z' {
			continue
		}
		if r == last {
			continue
		}
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// trigrams returns the padded character trigram set of a term.
func trigrams(s string) map[string]bool {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}
	padded := "  " + s + " "
	grams := make(map[string]bool)
	runes := []rune(padded)
	for i := 0; i+3 <= len(runes); i++ {
		grams[string(runes[i:i+3])] = true
	}
	return grams
}

func trigramCosine(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for gram := range a {
		if b[gram] {
			shared++
		}
	}
	return float64(shared) / math.Sqrt(float64(len(a))*float64(len(b)))
}

// sortCandidates orders candidates by tier then name for deterministic output.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Tier != candidates[j].Tier {
			return candidates[i].Tier < candidates[j].Tier
		}
		return candidates[i].Name < candidates[j].Name
	})
}
