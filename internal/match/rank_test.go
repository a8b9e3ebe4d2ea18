package match

import "testing"

func TestRankOrdering(t *testing.T) {
	analyses := []*Analysis{
		{DogID: "low", Score: 90},
		{DogID: "high", Score: 140},
		{DogID: "mid", Score: 120},
	}
	Rank(analyses)

	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if analyses[i].DogID != id {
			t.Fatalf("position %d: expected %q, got %q", i, id, analyses[i].DogID)
		}
	}
}

func TestRankTieBreakers(t *testing.T) {
	analyses := []*Analysis{
		{DogID: "far", Score: 120, MatchedPrefs: []string{"adult age"}, Distance: 40},
		{DogID: "fewer", Score: 120, Distance: 5},
		{DogID: "near", Score: 120, MatchedPrefs: []string{"adult age"}, Distance: 10},
	}
	Rank(analyses)

	// Equal score: more matched labels first, then smaller distance.
	want := []string{"near", "far", "fewer"}
	for i, id := range want {
		if analyses[i].DogID != id {
			t.Fatalf("position %d: expected %q, got %q", i, id, analyses[i].DogID)
		}
	}
}

func TestRankIsStable(t *testing.T) {
	analyses := []*Analysis{
		{DogID: "first", Score: 100, Distance: 10},
		{DogID: "second", Score: 100, Distance: 10},
		{DogID: "third", Score: 100, Distance: 10},
	}
	Rank(analyses)

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if analyses[i].DogID != id {
			t.Fatalf("fully tied analyses must keep input order: position %d got %q", i, analyses[i].DogID)
		}
	}
}

func TestTop(t *testing.T) {
	analyses := []*Analysis{{DogID: "a"}, {DogID: "b"}, {DogID: "c"}}

	if got := Top(analyses, 2); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got := Top(analyses, 0); len(got) != 3 {
		t.Fatalf("zero means no limit, got %d", len(got))
	}
	if got := Top(analyses, 10); len(got) != 3 {
		t.Fatalf("limit above length returns all, got %d", len(got))
	}
}
