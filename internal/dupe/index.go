// Package dupe implements the duplicate-name index that groups scanned
// files by base name.
//
// The index is a chained hash table with a fixed number of buckets,
// allocated once by Init and never resized. Records whose base names
// hash to the same bucket share a chain, and each chain is kept ordered
// by modification time, most recent first. All records with the same
// base name land in the same bucket, so finding a name means hashing it
// and filtering one chain.
package dupe

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/owatch/dupescan/internal/errors"
)

// DefaultTableSize is the number of buckets allocated when Options leaves
// TableSize zero.
const DefaultTableSize = 512000

// maxTableSize caps the bucket table. A larger table cannot be usefully
// allocated and almost certainly indicates a corrupt configuration value.
const maxTableSize = 1 << 30

var (
	// ErrNotInitialized is returned when an operation runs before Init or
	// after Close.
	ErrNotInitialized = errors.New("duplicate index is not initialized")

	// ErrAlreadyInitialized is returned by Init when the bucket table
	// already exists.
	ErrAlreadyInitialized = errors.New("duplicate index is already initialized")

	// ErrAllocation is returned by Init when the bucket table cannot be
	// allocated with the configured size.
	ErrAllocation = errors.New("cannot allocate bucket table")
)

// Options configures an Index.
type Options struct {
	// TableSize is the number of buckets. Zero selects DefaultTableSize.
	// More buckets mean fewer collisions and more base memory.
	TableSize int
}

// Index maps file base names to chains of records. The zero value is not
// usable; create one with New and allocate its table with Init.
//
// All methods are safe for concurrent use. Insert and Close take the
// write lock, Find and Each the read lock, and Count reads an atomic
// counter without locking.
type Index struct {
	opts Options

	mu      sync.RWMutex
	buckets []Chain // nil until Init, nil again after Close
	count   atomic.Uint64
}

// New returns an unallocated index. Init must be called before any other
// operation.
func New(opts Options) *Index {
	if opts.TableSize == 0 {
		opts.TableSize = DefaultTableSize
	}
	return &Index{opts: opts}
}

// Init allocates the bucket table. Calling Init on an index that is
// already initialized returns ErrAlreadyInitialized and leaves the
// existing table untouched.
func (idx *Index) Init() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.buckets != nil {
		return ErrAlreadyInitialized
	}

	size := idx.opts.TableSize
	if size <= 0 || size > maxTableSize {
		return errors.Wrapf(ErrAllocation, "table size %d", size)
	}

	idx.buckets = make([]Chain, size)
	idx.count.Store(0)
	return nil
}

// Insert records the file at path with its modification time. The record
// is placed in its bucket's chain before the first strictly older entry,
// so chains stay ordered most recent first and ties preserve insertion
// order. Duplicate paths are not detected; each call adds a record.
func (idx *Index) Insert(path string, modified time.Time) error {
	rec := newFileRecord(path, modified)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.buckets == nil {
		return ErrNotInitialized
	}

	b := bucketFor(rec.Name, len(idx.buckets))
	idx.buckets[b] = idx.buckets[b].insert(rec)
	idx.count.Add(1)
	return nil
}

// Find returns every record whose base name equals name, ordered most
// recent first. A name with no records yields an empty chain and no
// error. The result shares no storage with the index.
func (idx *Index) Find(name string) (Chain, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.buckets == nil {
		return nil, ErrNotInitialized
	}

	c := idx.buckets[bucketFor(name, len(idx.buckets))]
	return c.Filter(name), nil
}

// Each calls fn once per non-empty bucket in ascending bucket order,
// passing the bucket index and its chain. Iteration stops at the first
// error, which is returned. The chain is the index's own storage; fn
// must not modify it or call back into the index.
func (idx *Index) Each(fn func(bucket int, c Chain) error) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.buckets == nil {
		return ErrNotInitialized
	}

	for i, c := range idx.buckets {
		if len(c) == 0 {
			continue
		}
		if err := fn(i, c); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of records inserted since Init.
func (idx *Index) Count() uint64 {
	return idx.count.Load()
}

// TableSize returns the number of allocated buckets, or zero while the
// index is uninitialized.
func (idx *Index) TableSize() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.buckets)
}

// Close releases the bucket table and every chain. After Close the index
// reports ErrNotInitialized until Init is called again.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.buckets == nil {
		return ErrNotInitialized
	}

	for i := range idx.buckets {
		idx.buckets[i] = nil
	}
	idx.buckets = nil
	idx.count.Store(0)
	return nil
}
