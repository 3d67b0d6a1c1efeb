package createmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// ReadExactDates opens and parses the log-derived dates file.
func ReadExactDates(path string) (ExactDates, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	return ParseExactDates(f, path)
}

// ReadGuesses opens and parses the guessed createmap file.
func ReadGuesses(path string) ([]Guess, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	return ParseGuesses(f, path)
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, eris.Wrapf(err, "createmap: open %s", path)
	}
	return f, nil
}

// WriteRecords writes "id<TAB>MM/DD/YY" lines in slice order.
func WriteRecords(w io.Writer, recs []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range recs {
		if _, err := fmt.Fprintf(bw, "%d\t%s\n", r.ID, r.Date.Format(GuessDateLayout)); err != nil {
			return eris.Wrap(err, "createmap: write record")
		}
	}
	return eris.Wrap(bw.Flush(), "createmap: flush records")
}

// WriteFileAtomic writes via a temp file in the target's directory and
// renames it over path, so readers never see a partial file. The target's
// permissions are kept; a new file gets 0644.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "createmap: create temp file for %s", path)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "createmap: chmod temp file for %s", path)
	}

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "createmap: close temp file for %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrapf(err, "createmap: move temp file to %s", path)
	}
	return nil
}
