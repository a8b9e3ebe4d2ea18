package match

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dogfinder/dogmatch/internal/petfinder"
)

// defaultFreshnessHours is the publish window applied when the config leaves
// it unset. Stale listings are usually already adopted.
const defaultFreshnessHours = 24

type freshnessFilter struct {
	disabled bool
	reason   string
	hours    int
	now      func() time.Time
}

// NewFreshness creates a filter that drops listings published outside the
// freshness window. Listings without a parseable publish time are kept.
func NewFreshness() Filter {
	return &freshnessFilter{now: time.Now}
}

func (f *freshnessFilter) Name() string { return "freshness" }

func (f *freshnessFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *freshnessFilter) IsEnabled() bool { return !f.disabled }

func (f *freshnessFilter) Validate(cfg *Config) error {
	f.hours = defaultFreshnessHours
	if cfg == nil {
		return nil
	}
	if cfg.FreshnessHours < 0 {
		return fmt.Errorf("freshness window must not be negative, got %d", cfg.FreshnessHours)
	}
	if cfg.FreshnessHours > 0 {
		f.hours = cfg.FreshnessHours
	}
	return nil
}

func (f *freshnessFilter) Apply(_ context.Context, deps Deps, dogs *petfinder.Dogs) (*petfinder.Dogs, Step, error) {
	initial := dogs.Len()
	cutoff := f.now().Add(-time.Duration(f.hours) * time.Hour)

	removed := dogs.Filter(func(dog *petfinder.Dog) bool {
		published, ok := parsePublishedAt(dog.PublishedAt)
		if !ok {
			return true
		}
		return !published.Before(cutoff)
	})

	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding stale listings",
			zap.Int("window_hours", f.hours),
			zap.Strings("excluded_dogs", removed),
			zap.Int("dogs_left", dogs.Len()),
		)
	}

	return dogs, Step{Initial: initial, Dropped: len(removed), Left: dogs.Len()}, nil
}

func (f *freshnessFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"window_hours": strconv.Itoa(f.hours)},
	}
}

func parsePublishedAt(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type dedupFilter struct {
	disabled bool
	reason   string
}

// NewDedup creates a filter that removes cross-posted duplicates of the same
// dog by listing fingerprint.
func NewDedup() Filter {
	return &dedupFilter{}
}

func (f *dedupFilter) Name() string { return "dedup" }

func (f *dedupFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *dedupFilter) IsEnabled() bool { return !f.disabled }

func (f *dedupFilter) Validate(*Config) error { return nil }

func (f *dedupFilter) Apply(_ context.Context, deps Deps, dogs *petfinder.Dogs) (*petfinder.Dogs, Step, error) {
	initial := dogs.Len()
	removed := dogs.Dedup()
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding duplicate listings",
			zap.Strings("excluded_dogs", removed),
			zap.Int("dogs_left", dogs.Len()),
		)
	}

	return dogs, Step{Initial: initial, Dropped: len(removed), Left: dogs.Len()}, nil
}

func (f *dedupFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type radiusFilter struct {
	disabled bool
	reason   string
	max      float64
}

// NewRadius creates a filter that drops listings farther than the configured
// radius. The provider already filters by distance, but cross-posted listings
// can surface dogs far outside the requested area.
func NewRadius() Filter {
	return &radiusFilter{}
}

func (f *radiusFilter) Name() string { return "radius" }

func (f *radiusFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *radiusFilter) IsEnabled() bool { return !f.disabled }

func (f *radiusFilter) Validate(cfg *Config) error {
	f.max = 0
	if cfg == nil {
		return nil
	}
	if cfg.MaxDistance < 0 {
		return fmt.Errorf("search radius must not be negative, got %v", cfg.MaxDistance)
	}
	f.max = cfg.MaxDistance
	return nil
}

func (f *radiusFilter) Apply(_ context.Context, deps Deps, dogs *petfinder.Dogs) (*petfinder.Dogs, Step, error) {
	initial := dogs.Len()
	if f.max == 0 {
		return dogs, Step{Initial: initial, Dropped: 0, Left: dogs.Len()}, nil
	}

	removed := dogs.Filter(func(dog *petfinder.Dog) bool {
		// Distance zero means the provider did not report one.
		return dog.Distance == 0 || dog.Distance <= f.max
	})

	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding listings outside radius",
			zap.Float64("max_distance", f.max),
			zap.Strings("excluded_dogs", removed),
			zap.Int("dogs_left", dogs.Len()),
		)
	}

	return dogs, Step{Initial: initial, Dropped: len(removed), Left: dogs.Len()}, nil
}

func (f *radiusFilter) Status() Status {
	details := map[string]string{}
	if f.max > 0 {
		details["max_distance"] = fmt.Sprintf("%.1f", f.max)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type excludedBreedsFilter struct {
	disabled bool
	reason   string
}

// NewExcludedBreeds creates a filter that hard-removes dogs matching the
// adopter's excluded breed terms through the resolver expansion. Exclusion is
// checked at any confidence tier; scoring never sees these dogs.
func NewExcludedBreeds() Filter {
	return &excludedBreedsFilter{}
}

func (f *excludedBreedsFilter) Name() string { return "excluded_breeds" }

func (f *excludedBreedsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludedBreedsFilter) IsEnabled() bool { return !f.disabled }

func (f *excludedBreedsFilter) Validate(*Config) error { return nil }

func (f *excludedBreedsFilter) Apply(_ context.Context, deps Deps, dogs *petfinder.Dogs) (*petfinder.Dogs, Step, error) {
	initial := dogs.Len()
	if deps.Prefs == nil || len(deps.Prefs.Breeds.ExpandedExclude) == 0 {
		return dogs, Step{Initial: initial, Dropped: 0, Left: dogs.Len()}, nil
	}
	if deps.Resolver == nil {
		return dogs, Step{}, fmt.Errorf("breed resolver is required when breeds are excluded")
	}

	wanted := deps.Prefs.Breeds.ExpandedExclude
	removed := dogs.Filter(func(dog *petfinder.Dog) bool {
		return !deps.Resolver.Hit(breedTerms(dog), wanted).Matched
	})

	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding dogs by breed",
			zap.Strings("excluded_breeds", deps.Prefs.Breeds.Exclude),
			zap.Strings("excluded_dogs", removed),
			zap.Int("dogs_left", dogs.Len()),
		)
	}

	return dogs, Step{Initial: initial, Dropped: len(removed), Left: dogs.Len()}, nil
}

func (f *excludedBreedsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

// breedTerms collects the dog fields breed matching runs against: the listed
// breed names plus the tag list, where shelters often note mixes.
func breedTerms(dog *petfinder.Dog) []string {
	terms := dog.BreedNames()
	terms = append(terms, dog.Tags...)
	return terms
}
