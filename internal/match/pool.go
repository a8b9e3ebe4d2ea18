package match

import (
	"context"
	"sync"

	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/prefs"
)

// DefaultWorkers bounds the scoring fan-out. Scoring is CPU-only, so a small
// pool is enough; the value mostly caps goroutine churn on large pools.
const DefaultWorkers = 8

// ScoreAll scores every dog in the pool over a bounded worker pool and
// returns the results ranked. Results land at their input index first, so
// the output is deterministic regardless of worker scheduling.
func ScoreAll(ctx context.Context, dogs *petfinder.Dogs, p *prefs.EffectivePreferences, priors *breed.Priors, resolver *breed.Resolver, workers int) []*Analysis {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > dogs.Len() {
		workers = dogs.Len()
	}

	analyses := make([]*Analysis, dogs.Len())
	if dogs.Len() == 0 {
		return analyses
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				analyses[idx] = Score(dogs.Items[idx], p, priors, resolver)
			}
		}()
	}

feed:
	for idx := range dogs.Items {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	// A cancelled context leaves gaps; drop them before ranking.
	ranked := make([]*Analysis, 0, len(analyses))
	for _, a := range analyses {
		if a != nil {
			ranked = append(ranked, a)
		}
	}
	Rank(ranked)
	return ranked
}
