package fs

import "golang.org/x/sys/unix"

// Flags for opening directories during traversal.
const (
	O_RDONLY   int = unix.O_RDONLY
	O_NOFOLLOW int = unix.O_NOFOLLOW
)

// Kernel limits on path and entry name lengths.
const (
	// PathMax is the longest full path the scanner will descend into by
	// default.
	PathMax = unix.PathMax

	// NameMax is the longest single directory entry name.
	NameMax = unix.NAME_MAX
)
