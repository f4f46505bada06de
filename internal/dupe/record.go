package dupe

import (
	"path/filepath"
	"sort"
	"time"
)

// FileRecord is one scanned file tracked by the index.
type FileRecord struct {
	// Path is the file's path exactly as handed to Insert.
	Path string `json:"path"`
	// Name is the base name derived from Path. It is the grouping key.
	Name string `json:"name"`
	// Modified is the file's modification time.
	Modified time.Time `json:"modified"`
}

func newFileRecord(path string, modified time.Time) FileRecord {
	return FileRecord{
		Path:     path,
		Name:     filepath.Base(path),
		Modified: modified,
	}
}

// Chain is the list of records stored in one bucket, ordered by
// modification time, most recent first. Different base names share a
// chain when they hash to the same bucket.
type Chain []FileRecord

// insert places rec before the first record strictly older than it, so
// the chain stays ordered most recent first. Among records with equal
// modification times the earlier insert stays in front.
func (c Chain) insert(rec FileRecord) Chain {
	pos := sort.Search(len(c), func(i int) bool {
		return c[i].Modified.Before(rec.Modified)
	})
	c = append(c, FileRecord{})
	copy(c[pos+1:], c[pos:])
	c[pos] = rec
	return c
}

// Filter returns the records in c whose base name equals name, in chain
// order. The result shares no storage with c.
func (c Chain) Filter(name string) Chain {
	var out Chain
	for _, rec := range c {
		if rec.Name == name {
			out = append(out, rec)
		}
	}
	return out
}

// Group collects the records of a single base name within one bucket.
type Group struct {
	Name  string `json:"name"`
	Files Chain  `json:"files"`
}

// Groups splits c by base name. Groups appear in order of each name's
// first occurrence in the chain, and records within a group keep their
// chain order.
func (c Chain) Groups() []Group {
	if len(c) == 0 {
		return nil
	}

	var groups []Group
	byName := make(map[string]int)
	for _, rec := range c {
		i, ok := byName[rec.Name]
		if !ok {
			i = len(groups)
			byName[rec.Name] = i
			groups = append(groups, Group{Name: rec.Name})
		}
		groups[i].Files = append(groups[i].Files, rec)
	}
	return groups
}
