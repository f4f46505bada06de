package fs

import (
	"os"
	"path/filepath"
)

// Local is the local file system. Most methods are just passed on to the
// stdlib.
type Local struct{}

// statically ensure that Local implements FS
var _ FS = &Local{}

// OpenFile opens a file or directory for reading.
func (fs Local) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Stat returns a FileInfo describing the named file. If the file is a
// symbolic link, the returned FileInfo describes the link's target.
func (fs Local) Stat(name string) (os.FileInfo, error) {
	return Stat(name)
}

// Lstat returns the FileInfo structure describing the named file.
// If the file is a symbolic link, the returned FileInfo
// describes the symbolic link.
func (fs Local) Lstat(name string) (os.FileInfo, error) {
	return Lstat(name)
}

// Join joins any number of path elements into a single path, adding a
// Separator if necessary.
func (fs Local) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Clean returns the cleaned path for p.
func (fs Local) Clean(p string) string {
	return filepath.Clean(p)
}
