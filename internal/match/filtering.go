// Package match holds the candidate pipeline: hard filters, the scoring
// engine and the ranker. Everything here is pure except for the step logging.
package match

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dogfinder/dogmatch/internal/breed"
	"github.com/dogfinder/dogmatch/internal/petfinder"
	"github.com/dogfinder/dogmatch/internal/prefs"
)

// Filter represents a single hard-exclusion step applied to the dog pool
// before any scoring happens.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, dogs *petfinder.Dogs) (*petfinder.Dogs, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger   *zap.Logger
	Resolver *breed.Resolver
	Prefs    *prefs.EffectivePreferences
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	// FreshnessHours is the publish window in hours. Zero means the
	// default window; negative is a configuration error.
	FreshnessHours int
	// MaxDistance is the search radius in miles. Zero disables the
	// radius filter; negative is a configuration error.
	MaxDistance float64
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DefaultFilters returns the standard pipeline in execution order.
func DefaultFilters() []Filter {
	return []Filter{
		NewFreshness(),
		NewDedup(),
		NewRadius(),
		NewExcludedBreeds(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the surviving
// dog pool. All enabled filters are validated up front so a bad config fails
// before the first step mutates the pool.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, dogs *petfinder.Dogs) (*petfinder.Dogs, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, dogs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		dogs = next
	}

	return dogs, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
