// Package ai defines the explanation-generation boundary. Providers turn a
// fact pack into candidate text; everything they return is verified before
// it reaches the adopter.
package ai

import (
	"context"

	"github.com/dogfinder/dogmatch/internal/facts"
	"github.com/dogfinder/dogmatch/internal/petfinder"
)

// Explanation is a provider's structured response. Text is unverified
// candidate prose; CitedPreferences lists the preferences the provider
// claims to have referenced; Raw preserves the unparsed response for
// debugging.
type Explanation struct {
	Text             string
	CitedPreferences []string
	Raw              string
}

// Explainer generates a candidate explanation for one dog. A malformed or
// empty response is an error; callers recover with the local fallback
// sentence, never by guessing at the provider's intent.
type Explainer interface {
	Explain(ctx context.Context, pack *facts.Pack, dog *petfinder.Dog) (*Explanation, error)
}
