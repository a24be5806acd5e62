package csvfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the data file suffix, matched case-insensitively.
const Extension = ".csv"

var (
	// ErrNoDataFile means the data directory holds no CSV file.
	ErrNoDataFile = errors.New("no data file found")

	// ErrAmbiguousData is matched by AmbiguousDataError via errors.Is.
	ErrAmbiguousData = errors.New("multiple data files found, ambiguous")
)

// AmbiguousDataError lists the candidate files when more than one was found.
type AmbiguousDataError struct {
	Dir   string
	Files []string
}

func (e *AmbiguousDataError) Error() string {
	return fmt.Sprintf("%s: %s (keep exactly one %s file in %s)",
		ErrAmbiguousData, strings.Join(e.Files, ", "), Extension, e.Dir)
}

// Is lets errors.Is(err, ErrAmbiguousData) match.
func (e *AmbiguousDataError) Is(target error) bool {
	return target == ErrAmbiguousData
}

// Discover returns the path of the single CSV file in dir. Subdirectories are
// not searched.
func Discover(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read data dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), Extension) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoDataFile, dir)
	case 1:
		return filepath.Join(dir, files[0]), nil
	default:
		return "", &AmbiguousDataError{Dir: dir, Files: files}
	}
}
