package createmap

import "time"

// Source says which rule produced a Record's date.
type Source int

const (
	// SourceGuess means the heuristic date was kept as-is.
	SourceGuess Source = iota
	// SourceExact means the log-derived date replaced the guess.
	SourceExact
	// SourceCapped means the guess was pulled back to the next account's date.
	SourceCapped
)

func (s Source) String() string {
	switch s {
	case SourceExact:
		return "exact"
	case SourceCapped:
		return "capped"
	default:
		return "guess"
	}
}

// Merge resolves one date per guess, returned in guess order. Walking the
// guesses backward, an exact date always wins; otherwise a guess later than
// the previously resolved date is capped to it. Ids are assumed to have been
// issued in non-decreasing date order; this is not checked.
func Merge(exact ExactDates, guesses []Guess) ([]Record, error) {
	out := make([]Record, len(guesses))

	var last time.Time
	haveLast := false
	for i := len(guesses) - 1; i >= 0; i-- {
		g := guesses[i]
		dt, err := g.ParseDate()
		if err != nil {
			return nil, err
		}

		src := SourceGuess
		if d, ok := exact[g.ID]; ok {
			dt, src = d, SourceExact
		} else if haveLast && last.Before(dt) {
			dt, src = last, SourceCapped
		}

		last, haveLast = dt, true
		out[i] = Record{ID: g.ID, Date: dt, Source: src}
	}

	return out, nil
}

// Counts tallies records by source.
func Counts(recs []Record) map[Source]int {
	counts := make(map[Source]int, 3)
	for _, r := range recs {
		counts[r.Source]++
	}
	return counts
}
