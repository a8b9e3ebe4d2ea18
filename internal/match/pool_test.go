package match

import (
	"context"
	"fmt"
	"testing"

	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/prefs"
)

func TestScoreAllMatchesSequentialScoring(t *testing.T) {
	resolver := newTestResolver(t)
	priors := newTestPriors(t)
	p := &prefs.EffectivePreferences{
		Age: prefs.SetFacet{Values: []string{"adult"}, Origin: prefs.OriginUser},
	}

	dogs := &petfinder.Dogs{}
	for i := 0; i < 50; i++ {
		age := "Adult"
		if i%3 == 0 {
			age = "Senior"
		}
		dogs.Items = append(dogs.Items, &petfinder.Dog{
			ID:       fmt.Sprintf("dog-%02d", i),
			Name:     fmt.Sprintf("Dog %02d", i),
			Age:      age,
			Distance: float64(i),
		})
	}

	sequential := make([]*Analysis, 0, dogs.Len())
	for _, dog := range dogs.Items {
		sequential = append(sequential, Score(dog, p, priors, resolver))
	}
	Rank(sequential)

	pooled := ScoreAll(context.Background(), dogs, p, priors, resolver, 4)
	if len(pooled) != len(sequential) {
		t.Fatalf("expected %d analyses, got %d", len(sequential), len(pooled))
	}
	for i := range pooled {
		if pooled[i].DogID != sequential[i].DogID || pooled[i].Score != sequential[i].Score {
			t.Fatalf("position %d differs: pooled=%+v sequential=%+v", i, pooled[i], sequential[i])
		}
	}
}

func TestScoreAllDeterministic(t *testing.T) {
	resolver := newTestResolver(t)
	priors := newTestPriors(t)
	p := &prefs.EffectivePreferences{
		Size: prefs.SetFacet{Values: []string{"medium"}, Origin: prefs.OriginGuidance},
	}

	dogs := &petfinder.Dogs{}
	for i := 0; i < 30; i++ {
		dogs.Items = append(dogs.Items, &petfinder.Dog{
			ID:   fmt.Sprintf("dog-%02d", i),
			Size: "Medium",
		})
	}

	first := ScoreAll(context.Background(), dogs, p, priors, resolver, 8)
	for run := 0; run < 5; run++ {
		again := ScoreAll(context.Background(), dogs, p, priors, resolver, 8)
		for i := range first {
			if again[i].DogID != first[i].DogID {
				t.Fatalf("run %d position %d: %q vs %q", run, i, again[i].DogID, first[i].DogID)
			}
		}
	}
}

func TestScoreAllEmptyPool(t *testing.T) {
	analyses := ScoreAll(context.Background(), &petfinder.Dogs{}, &prefs.EffectivePreferences{}, newTestPriors(t), newTestResolver(t), 4)
	if len(analyses) != 0 {
		t.Fatalf("expected no analyses, got %d", len(analyses))
	}
}
