package cli

import (
	"io/fs"
	"path/filepath"
)

// walkFiles calls fn for every regular file below dir. Unreadable entries
// are skipped.
func walkFiles(dir string, fn func(path string)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.Type().IsRegular() {
			fn(path)
		}
		return nil
	})
}
