package store

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"time"
)

const (
	dateLayout   = "2006-01-02"
	idDateLayout = "20060102"

	minSequence = 1
	maxSequence = 99
)

// Entry files are named YYYYMMDDXX.md: the creation date followed by a
// two-digit per-day sequence starting at 01.
var entryFileRe = regexp.MustCompile(`^(\d{8})(\d{2})\.md$`)

var idRe = regexp.MustCompile(`^\d{10}$`)

// FormatID returns the entry ID for date and seq.
func FormatID(date time.Time, seq int) string {
	return fmt.Sprintf("%s%02d", date.Format(idDateLayout), seq)
}

// ParseID splits an entry ID into its date and sequence.
func ParseID(id string) (time.Time, int, error) {
	if !idRe.MatchString(id) {
		return time.Time{}, 0, fmt.Errorf("invalid entry id %q: want YYYYMMDDXX", id)
	}
	date, err := time.ParseInLocation(idDateLayout, id[:8], time.Local)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid entry id %q: %w", id, err)
	}
	seq, _ := strconv.Atoi(id[8:])
	if seq < minSequence {
		return time.Time{}, 0, fmt.Errorf("invalid entry id %q: sequence starts at 01", id)
	}
	return date, seq, nil
}

// IsID reports whether s has the shape of an entry ID.
func IsID(s string) bool {
	return idRe.MatchString(s)
}

// ids returns every entry ID in the directory, most recent first.
func (s Store) ids() ([]string, error) {
	des, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, IOError{Op: "read dir", Path: s.Dir, Err: err}
	}
	var out []string
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		m := entryFileRe.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		if _, _, err := ParseID(m[1] + m[2]); err != nil {
			continue
		}
		out = append(out, m[1]+m[2])
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// nextSequence scans the directory and returns the smallest unused sequence
// for date. It is recomputed on every call so that gaps left by deleted
// entries are reused.
func (s Store) nextSequence(date time.Time) (int, error) {
	ids, err := s.ids()
	if err != nil {
		return 0, err
	}
	prefix := date.Format(idDateLayout)
	used := make(map[int]bool)
	for _, id := range ids {
		if id[:8] != prefix {
			continue
		}
		n, _ := strconv.Atoi(id[8:])
		used[n] = true
	}
	for seq := minSequence; seq <= maxSequence; seq++ {
		if !used[seq] {
			return seq, nil
		}
	}
	return 0, errSequenceExhausted
}
