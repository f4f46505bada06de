package report

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/minio/sha256-simd"

	"github.com/owatch/dupescan/internal/dupe"
	"github.com/owatch/dupescan/internal/errors"
	"github.com/owatch/dupescan/internal/scanner"
)

// Report is the state of a duplicate index after a scan, ready to be
// written out as JSON.
type Report struct {
	Time     time.Time `json:"time"`
	Hostname string    `json:"hostname,omitempty"`
	Username string    `json:"username,omitempty"`
	UID      uint32    `json:"uid,omitempty"`
	GID      uint32    `json:"gid,omitempty"`
	Paths    []string  `json:"paths"`

	ProgramVersion string `json:"program_version,omitempty"`

	FileCount uint64       `json:"file_count"`
	TableSize int          `json:"table_size"`
	Summary   *ScanSummary `json:"summary,omitempty"`
	Groups    []dupe.Group `json:"groups"`
}

// ScanSummary aggregates the per-target statistics of one scan.
type ScanSummary struct {
	ScanStart time.Time `json:"scan_start"`
	ScanEnd   time.Time `json:"scan_end"`

	Files  uint   `json:"files"`
	Dirs   uint   `json:"dirs"`
	Others uint   `json:"others"`
	Bytes  uint64 `json:"bytes"`
}

// Add merges the statistics of one scanned target into the summary.
func (s *ScanSummary) Add(st scanner.ScanStats) {
	s.Files += st.Files
	s.Dirs += st.Dirs
	s.Others += st.Others
	s.Bytes += st.Bytes
}

// NewReport returns an initialized report for the current user and time.
// Paths are made absolute where possible.
func NewReport(paths []string, hostname string, t time.Time) (*Report, error) {
	absPaths := make([]string, 0, len(paths))
	for _, path := range paths {
		p, err := filepath.Abs(path)
		if err == nil {
			absPaths = append(absPaths, p)
		} else {
			absPaths = append(absPaths, path)
		}
	}

	r := &Report{
		Paths:    absPaths,
		Time:     t,
		Hostname: hostname,
	}

	err := r.fillUserInfo()
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Report) fillUserInfo() error {
	usr, err := user.Current()
	if err != nil {
		return nil
	}
	r.Username = usr.Username

	r.UID, r.GID, err = uidGidInt(usr)
	return err
}

// Collect gathers every group in the index in bucket order and records
// the index counters.
func (r *Report) Collect(idx *dupe.Index) error {
	r.FileCount = idx.Count()
	r.TableSize = idx.TableSize()

	return idx.Each(func(_ int, c dupe.Chain) error {
		r.Groups = append(r.Groups, c.Groups()...)
		return nil
	})
}

// Write writes the report as indented JSON to w and returns the SHA-256
// of the written bytes.
func (r *Report) Write(w io.Writer) ([]byte, error) {
	hash := sha256.New()

	enc := json.NewEncoder(io.MultiWriter(w, hash))
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}

	return hash.Sum(nil), nil
}

// Export writes the report to path and returns the hex encoded SHA-256
// of the file contents. A path ending in ".zst" is compressed with
// zstd; the digest then covers the compressed bytes.
func (r *Report) Export(path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "Create")
	}

	hash := sha256.New()
	var w io.Writer = io.MultiWriter(f, hash)

	var zw *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		zw, err = zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			// Disable CRC, the digest covers the whole file anyway.
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			_ = f.Close()
			return "", err
		}
		w = zw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err = enc.Encode(r)

	if zw != nil {
		err = errors.CombineErrors(err, zw.Close())
	}
	err = errors.CombineErrors(err, f.Close())
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
