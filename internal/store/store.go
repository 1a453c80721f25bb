// Package store maps journal entries to YYYYMMDDXX.md files in a single
// directory. It owns ID allocation and the frontmatter format; every write
// goes through a temp file and a rename so a crash never leaves a partial
// entry behind.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"braindump/internal/outline"
)

// DefaultListLimit is the number of entries List returns when no limit is given.
const DefaultListLimit = 10

type Store struct {
	Dir string

	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

// Summary is one row of List output.
type Summary struct {
	Index       int       `json:"index"`
	ID          string    `json:"id"`
	Date        time.Time `json:"-"`
	DateString  string    `json:"date"`
	Synthesised bool      `json:"synthesised"`
	Tags        []string  `json:"tags"`
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Store) Ensure() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return IOError{Op: "create dir", Path: s.Dir, Err: err}
	}
	return nil
}

func (s Store) path(id string) string {
	return filepath.Join(s.Dir, id+".md")
}

// Today returns the store's current calendar date.
func (s Store) Today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.Local)
}

// Create allocates the smallest free sequence for date and writes a new entry
// containing the frontmatter and one empty top-level bullet.
func (s Store) Create(date time.Time, tags []string) (Entry, error) {
	day := date.Format(dateLayout)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Entry{}, AllocationError{Date: day, Err: err}
	}

	normalized := []string{}
	for _, t := range tags {
		normalized = appendTag(normalized, t)
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	body := []outline.Bullet{{}}

	// Another process may claim the same sequence between the scan and the
	// create; createFileExclusive refuses to overwrite, so rescan and retry.
	for attempt := 0; attempt <= maxSequence; attempt++ {
		seq, err := s.nextSequence(date)
		if err != nil {
			return Entry{}, AllocationError{Date: day, Err: err}
		}
		id := FormatID(date, seq)
		e := Entry{
			ID:      id,
			Date:    date,
			Tags:    normalized,
			Body:    body,
			Path:    s.path(id),
			rawBody: outline.Render(body),
		}
		data, err := e.marshal(e.rawBody)
		if err != nil {
			return Entry{}, AllocationError{Date: day, Err: err}
		}
		err = createFileExclusive(e.Path, data)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return Entry{}, AllocationError{Date: day, Err: err}
		}
		e.Index = s.indexOf(id)
		return e, nil
	}
	return Entry{}, AllocationError{Date: day, Err: errSequenceExhausted}
}

// List returns up to limit entries, most recent first. A limit <= 0 means
// DefaultListLimit; a limit beyond the number of entries returns them all.
func (s Store) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}
	if limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]Summary, 0, len(ids))
	for i, id := range ids {
		e, err := s.read(id)
		var ve ValidationError
		if err != nil && !errors.As(err, &ve) {
			return nil, err
		}
		out = append(out, Summary{
			Index:       i + 1,
			ID:          e.ID,
			Date:        e.Date,
			DateString:  e.DateString(),
			Synthesised: e.Synthesised,
			Tags:        e.Tags,
		})
	}
	return out, nil
}

// Count returns the number of entries on disk.
func (s Store) Count() (int, error) {
	ids, err := s.ids()
	return len(ids), err
}

// ResolveIndex maps a 1-based display index, as shown by List, to an entry.
func (s Store) ResolveIndex(n int) (Entry, error) {
	ids, err := s.ids()
	if err != nil {
		return Entry{}, err
	}
	if n < 1 || n > len(ids) {
		return Entry{}, NotFoundError{Ref: strconv.Itoa(n), Count: len(ids)}
	}
	e, err := s.read(ids[n-1])
	if err != nil {
		return Entry{}, err
	}
	e.Index = n
	return e, nil
}

// Get loads an entry by its YYYYMMDDXX ID.
func (s Store) Get(id string) (Entry, error) {
	if _, _, err := ParseID(id); err != nil {
		return Entry{}, err
	}
	if _, err := os.Stat(s.path(id)); errors.Is(err, os.ErrNotExist) {
		n, _ := s.Count()
		return Entry{}, NotFoundError{Ref: id, Count: n}
	}
	e, err := s.read(id)
	if err != nil {
		return Entry{}, err
	}
	e.Index = s.indexOf(id)
	return e, nil
}

// Resolve accepts either a display index ("3") or an entry ID ("2026012202").
func (s Store) Resolve(ref string) (Entry, error) {
	ref = strings.TrimSpace(ref)
	if IsID(ref) {
		return s.Get(ref)
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid entry reference %q: want a list index or YYYYMMDDXX id", ref)
	}
	return s.ResolveIndex(n)
}

// LoadBody re-reads the entry's body from disk.
func (s Store) LoadBody(e Entry) ([]outline.Bullet, error) {
	fresh, err := s.read(e.ID)
	if err != nil {
		return nil, err
	}
	return fresh.Body, nil
}

// Reload re-reads an entry and validates its body indentation. It is used
// after the file was handed to an external editor.
func (s Store) Reload(e Entry) (Entry, error) {
	fresh, err := s.read(e.ID)
	if err != nil {
		return Entry{}, err
	}
	if err := outline.Validate(fresh.Body); err != nil {
		return Entry{}, ValidationError{Path: fresh.Path, Err: err}
	}
	fresh.Index = e.Index
	return fresh, nil
}

// SaveBody replaces the entry body, keeping the frontmatter currently on disk.
func (s Store) SaveBody(e Entry, bullets []outline.Bullet) error {
	if err := outline.Validate(bullets); err != nil {
		return ValidationError{Path: e.Path, Err: err}
	}
	cur, err := s.read(e.ID)
	if err != nil {
		return err
	}
	return s.write(cur, outline.Render(bullets))
}

// Delete removes the entry file. There is no undo.
func (s Store) Delete(e Entry) error {
	err := os.Remove(s.path(e.ID))
	if errors.Is(err, os.ErrNotExist) {
		n, _ := s.Count()
		return NotFoundError{Ref: e.ID, Count: n}
	}
	if err != nil {
		return IOError{Op: "delete", Path: s.path(e.ID), Err: err}
	}
	return nil
}

func (s Store) read(id string) (Entry, error) {
	p := s.path(id)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			n, _ := s.Count()
			return Entry{}, NotFoundError{Ref: id, Count: n}
		}
		return Entry{}, IOError{Op: "read", Path: p, Err: err}
	}
	e, err := parseEntry(id, p, data)
	if err != nil {
		// e still carries what could be recovered (ID date, body).
		return e, ValidationError{Path: p, Err: err}
	}
	return e, nil
}

func (s Store) write(e Entry, body string) error {
	data, err := e.marshal(body)
	if err != nil {
		return IOError{Op: "encode", Path: e.Path, Err: err}
	}
	if err := writeFileAtomic(e.Path, data); err != nil {
		return IOError{Op: "write", Path: e.Path, Err: err}
	}
	return nil
}

func (s Store) indexOf(id string) int {
	ids, err := s.ids()
	if err != nil {
		return 0
	}
	for i, x := range ids {
		if x == id {
			return i + 1
		}
	}
	return 0
}

// ListAll returns every entry, most recent first.
func (s Store) ListAll() ([]Summary, error) {
	n, err := s.Count()
	if err != nil || n == 0 {
		return []Summary{}, err
	}
	return s.List(n)
}
