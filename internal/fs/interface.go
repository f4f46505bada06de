// Package fs provides a thin abstraction over the parts of the local
// file system the scanner touches: stat calls, directory reads and path
// manipulation. File contents are never read.
package fs

import (
	"io"
	"os"
)

// FS bundles the methods needed to traverse a file system.
type FS interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Stat(name string) (os.FileInfo, error)
	Lstat(name string) (os.FileInfo, error)

	Join(elem ...string) string
	Clean(path string) string
}

// File is an open file. Directories are the only thing the scanner
// opens, so reading entry names is all a File has to support.
type File interface {
	io.Closer

	Readdirnames(n int) ([]string, error)
}
