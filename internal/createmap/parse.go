// Package createmap reconciles log-derived and guessed eperson creation dates.
package createmap

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Date layouts. The input layouts accept unpadded month and day values;
// output always uses the zero-padded forms.
const (
	LogDateLayout   = "2006-01-02"
	GuessDateLayout = "01/02/06"

	logDateInput   = "2006-1-2"
	guessDateInput = "1/2/06"
)

// ExactDates maps an eperson id to the creation date recovered from logs.
type ExactDates map[int]time.Time

// Guess is one row of the heuristic createmap, kept in file order.
type Guess struct {
	ID   int
	Raw  string
	Line int
	File string
}

// Record is a resolved creation date for one eperson.
type Record struct {
	ID     int
	Date   time.Time
	Source Source
}

// ParseExactDates reads "YYYY-MM-DD<TAB>id" lines. Later duplicates
// overwrite earlier ones.
func ParseExactDates(r io.Reader, name string) (ExactDates, error) {
	exact := make(ExactDates)
	err := scanLines(r, name, func(lineNum int, line string) error {
		parts := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(parts) != 2 {
			return &FormatError{File: name, Line: lineNum, Text: line, Reason: "expected 2 tab-separated fields"}
		}

		dt, err := ParseLogDate(parts[0])
		if err != nil {
			return &FormatError{File: name, Line: lineNum, Text: line, Reason: "invalid YYYY-MM-DD date", Err: err}
		}

		id, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return &FormatError{File: name, Line: lineNum, Text: line, Reason: "invalid eperson id", Err: err}
		}

		exact[id] = dt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return exact, nil
}

// ParseGuesses reads "id<TAB>MM/DD/YY" lines in file order. Dates are left
// raw; Merge parses them.
func ParseGuesses(r io.Reader, name string) ([]Guess, error) {
	var guesses []Guess
	err := scanLines(r, name, func(lineNum int, line string) error {
		parts := strings.Split(strings.TrimSpace(line), "\t")
		if len(parts) != 2 {
			return &FormatError{File: name, Line: lineNum, Text: line, Reason: "expected 2 tab-separated fields"}
		}

		id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return &FormatError{File: name, Line: lineNum, Text: line, Reason: "invalid eperson id", Err: err}
		}

		guesses = append(guesses, Guess{ID: id, Raw: parts[1], Line: lineNum, File: name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return guesses, nil
}

// ParseLogDate parses a YYYY-MM-DD date, allowing unpadded month and day.
func ParseLogDate(s string) (time.Time, error) {
	return time.Parse(logDateInput, strings.TrimSpace(s))
}

// ParseDate parses the guess's raw MM/DD/YY date.
func (g Guess) ParseDate() (time.Time, error) {
	dt, err := time.Parse(guessDateInput, strings.TrimSpace(g.Raw))
	if err != nil {
		return time.Time{}, &FormatError{
			File:   g.File,
			Line:   g.Line,
			Text:   strconv.Itoa(g.ID) + "\t" + g.Raw,
			Reason: "invalid MM/DD/YY date",
			Err:    err,
		}
	}
	return dt, nil
}

func scanLines(r io.Reader, name string, fn func(lineNum int, line string) error) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := fn(lineNum, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrapf(err, "createmap: reading %s", name)
	}
	return nil
}
