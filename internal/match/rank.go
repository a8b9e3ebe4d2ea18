package match

import "sort"

// Rank orders analyses in place: score descending, then matched-label count
// descending, then distance ascending. The sort is stable so equally ranked
// dogs keep their provider order.
func Rank(analyses []*Analysis) {
	sort.SliceStable(analyses, func(i, j int) bool {
		a, b := analyses[i], analyses[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.MatchedPrefs) != len(b.MatchedPrefs) {
			return len(a.MatchedPrefs) > len(b.MatchedPrefs)
		}
		return a.Distance < b.Distance
	})
}

// Top returns the first n analyses after ranking, or all of them when fewer
// exist. The input must already be ranked.
func Top(analyses []*Analysis, n int) []*Analysis {
	if n <= 0 || n >= len(analyses) {
		return analyses
	}
	return analyses[:n]
}
