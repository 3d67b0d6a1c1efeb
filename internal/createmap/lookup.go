package createmap

import (
	"errors"
	"sort"
	"time"
)

// Lookup is an id -> creation date index over a createmap file.
type Lookup struct {
	dates map[int]time.Time
}

// NewLookup indexes guesses by id; later rows win.
func NewLookup(guesses []Guess) (*Lookup, error) {
	l := &Lookup{dates: make(map[int]time.Time, len(guesses))}
	for _, g := range guesses {
		dt, err := g.ParseDate()
		if err != nil {
			return nil, err
		}
		l.dates[g.ID] = dt
	}
	return l, nil
}

// LoadLookup reads a createmap file. When allowMissing is set, an absent
// file yields an empty Lookup.
func LoadLookup(path string, allowMissing bool) (*Lookup, error) {
	guesses, err := ReadGuesses(path)
	if err != nil {
		var missing *MissingFileError
		if allowMissing && errors.As(err, &missing) {
			return NewLookup(nil)
		}
		return nil, err
	}
	return NewLookup(guesses)
}

// Len returns the number of ids in the lookup.
func (l *Lookup) Len() int { return len(l.dates) }

// Date returns the creation date recorded for id.
func (l *Lookup) Date(id int) (time.Time, bool) {
	dt, ok := l.dates[id]
	return dt, ok
}

// AddMissing records now as the creation date of every id without one and
// returns how many were added.
func (l *Lookup) AddMissing(ids []int, now time.Time) int {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	added := 0
	for _, id := range ids {
		if _, ok := l.dates[id]; ok {
			continue
		}
		l.dates[id] = day
		added++
	}
	return added
}

// Records returns every entry sorted ascending by id.
func (l *Lookup) Records() []Record {
	recs := make([]Record, 0, len(l.dates))
	for id, dt := range l.dates {
		recs = append(recs, Record{ID: id, Date: dt})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs
}

// LastActiveDate returns the end of an account's purge grace window: the
// account's last activity, else its creation date, else now, pushed forward
// by graceMonths calendar months.
func (l *Lookup) LastActiveDate(id int, lastActive *time.Time, now time.Time, graceMonths int) time.Time {
	base := now
	if lastActive != nil {
		base = *lastActive
	} else if dt, ok := l.dates[id]; ok {
		base = dt
	}
	return AddMonths(base, graceMonths)
}

// AddMonths adds calendar months, clamping the day to the end of the target
// month (Jan 31 + 1 month is Feb 28 or 29, not Mar 3).
func AddMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)
	lastDay := target.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return target.AddDate(0, 0, day-1)
}
