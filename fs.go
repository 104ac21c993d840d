package filecache

import (
	"os"
	"path/filepath"
)

// Filesystem seams, swapped by tests to simulate failures.
var (
	createTempFile = os.CreateTemp
	renameFile     = os.Rename
	removeFile     = os.Remove
	mkdirAll       = os.MkdirAll
)

const (
	dirMode        = 0o755
	tempFilePrefix = ".tmp-"
)

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, so readers see either the previous file or the complete new one.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := createTempFile(filepath.Dir(path), tempFilePrefix+"*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := renameFile(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
