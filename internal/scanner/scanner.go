// Package scanner walks directory trees and reports every entry it can
// reach. Regular files are handed to a Tracker; everything else is
// counted. The scanner never reads file contents.
package scanner

import (
	"context"
	"os"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/owatch/dupescan/internal/errors"
	"github.com/owatch/dupescan/internal/fs"
)

// Tracker receives one call per regular file discovered by a scan.
type Tracker interface {
	Insert(path string, modified time.Time) error
}

// ErrorFunc is called when an error during scanning occurs. When nil is
// returned, the scanner continues, otherwise it aborts and passes the
// error up the call stack.
type ErrorFunc func(file string, err error) error

// ResultFunc is called after a target has been fully scanned.
type ResultFunc func(target string, s ScanStats)

// ScanStats collects statistics for all seen entries of one target.
type ScanStats struct {
	Files, Dirs, Others uint
	Bytes               uint64
}

// Scanner traverses the targets and feeds regular files to a Tracker.
type Scanner struct {
	FS     fs.FS
	Error  ErrorFunc
	Result ResultFunc

	// MaxPathLen bounds the length of any path the scanner descends
	// into. Longer paths are reported through Error as *PathTooLongError
	// and skipped.
	MaxPathLen int

	// Concurrency is the number of targets scanned in parallel. Values
	// below one scan targets one at a time.
	Concurrency uint
}

// NewScanner initializes a new Scanner.
func NewScanner(filesystem fs.FS) *Scanner {
	return &Scanner{
		FS:          filesystem,
		Error:       func(file string, err error) error { return err },
		Result:      func(target string, s ScanStats) {},
		MaxPathLen:  fs.PathMax,
		Concurrency: 1,
	}
}

// Scan traverses the targets. The function Error is called for errors,
// and Result is called for each target once its walk completes. Targets
// are cleaned before walking and scanned concurrently up to Concurrency.
func (s *Scanner) Scan(ctx context.Context, tr Tracker, targets []string) error {
	wg, wgCtx := errgroup.WithContext(ctx)
	limit := int(s.Concurrency)
	if limit < 1 {
		limit = 1
	}
	wg.SetLimit(limit)

	for _, target := range targets {
		target := s.FS.Clean(target)
		wg.Go(func() error {
			log.Debugf("scanning target %v", target)
			stats, err := s.walk(wgCtx, tr, target, ScanStats{})
			if err != nil {
				return err
			}
			s.Result(target, stats)
			return nil
		})
	}

	return wg.Wait()
}

func (s *Scanner) walk(ctx context.Context, tr Tracker, path string, stats ScanStats) (ScanStats, error) {
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if len(path) > s.MaxPathLen {
		return stats, s.Error(path, &PathTooLongError{Path: path, Limit: s.MaxPathLen})
	}

	var fi os.FileInfo
	err := retryTransient(ctx, func() error {
		var lerr error
		fi, lerr = s.FS.Lstat(path)
		return lerr
	})
	if err != nil {
		return stats, s.Error(path, &EntryError{Path: path, Err: err})
	}

	switch {
	case fi.Mode().IsRegular():
		stats.Files++
		stats.Bytes += uint64(fi.Size())
		if err := tr.Insert(path, fi.ModTime()); err != nil {
			return stats, s.Error(path, err)
		}

	case fi.IsDir():
		stats.Dirs++
		return s.walkDir(ctx, tr, path, stats)

	case fi.Mode()&os.ModeSymlink != 0:
		return s.walkLink(ctx, tr, path, stats)

	default:
		stats.Others++
	}

	return stats, nil
}

func (s *Scanner) walkDir(ctx context.Context, tr Tracker, dir string, stats ScanStats) (ScanStats, error) {
	log.Debugf("scanning directory %v", dir)

	names, err := s.readdirnames(ctx, dir)
	if err != nil {
		return stats, s.Error(dir, &EntryError{Path: dir, Err: err})
	}
	sort.Strings(names)

	for _, name := range names {
		// the local fs omits these, an FS implementation may not
		if name == "." || name == ".." {
			continue
		}

		stats, err = s.walk(ctx, tr, s.FS.Join(dir, name), stats)
		if err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// walkLink classifies a symbolic link by its target. A link to a regular
// file is recorded under the link's own path with the target's
// modification time. Links to directories are never followed. A link
// whose target cannot be resolved is reported through Error.
func (s *Scanner) walkLink(ctx context.Context, tr Tracker, path string, stats ScanStats) (ScanStats, error) {
	var fi os.FileInfo
	err := retryTransient(ctx, func() error {
		var serr error
		fi, serr = s.FS.Stat(path)
		return serr
	})
	if err != nil {
		stats.Others++
		return stats, s.Error(path, &EntryError{Path: path, Err: err})
	}

	if fi.Mode().IsRegular() {
		stats.Files++
		stats.Bytes += uint64(fi.Size())
		if err := tr.Insert(path, fi.ModTime()); err != nil {
			return stats, s.Error(path, err)
		}
		return stats, nil
	}

	log.Debugf("not following link %v", path)
	stats.Others++
	return stats, nil
}

// readdirnames opens dir without following a trailing symlink and
// returns its entry names.
func (s *Scanner) readdirnames(ctx context.Context, dir string) ([]string, error) {
	var f fs.File
	err := retryTransient(ctx, func() error {
		var oerr error
		f, oerr = s.FS.OpenFile(dir, fs.O_RDONLY|fs.O_NOFOLLOW, 0)
		return oerr
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	entries, err := f.Readdirnames(-1)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "Readdirnames %v failed", dir)
	}

	err = f.Close()
	if err != nil {
		return nil, err
	}

	return entries, nil
}
