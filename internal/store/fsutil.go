package store

import (
	"errors"
	"os"
	"path/filepath"
)

// writeTemp writes data to a synced temp file next to dest and returns its
// path. The caller owns removing it.
func writeTemp(dest string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return "", err
	}
	name := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(name)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		return "", err
	}
	ok = true
	return name, nil
}

// writeFileAtomic replaces dest with data via temp file + rename, so readers
// see either the old or the new content and never a partial file.
func writeFileAtomic(dest string, data []byte) error {
	tmp, err := writeTemp(dest, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// createFileExclusive writes data to dest only if dest does not exist yet,
// returning an error satisfying errors.Is(err, os.ErrExist) otherwise. The
// content is fully written before the name appears.
func createFileExclusive(dest string, data []byte) error {
	tmp, err := writeTemp(dest, data)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp) }()

	if err := os.Link(tmp, dest); err != nil {
		if errors.Is(err, os.ErrExist) {
			return os.ErrExist
		}
		return err
	}
	return nil
}
