package report

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/minio/sha256-simd"

	"github.com/owatch/dupescan/internal/dupe"
	"github.com/owatch/dupescan/internal/errors"
	"github.com/owatch/dupescan/internal/scanner"
)

func testIndex(t *testing.T) *dupe.Index {
	t.Helper()
	idx := dupe.New(dupe.Options{TableSize: 16})
	if err := idx.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	mtime := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	for i, path := range []string{"/srv/a/app.log", "/srv/b/app.log", "/srv/c/readme"} {
		if err := idx.Insert(path, mtime.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}
	return idx
}

func testReport(t *testing.T) *Report {
	t.Helper()
	r, err := NewReport([]string{"/srv"}, "testhost", time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	r.ProgramVersion = "dupescan test"

	summary := &ScanSummary{}
	summary.Add(scanner.ScanStats{Files: 3, Dirs: 3, Bytes: 100})
	summary.Add(scanner.ScanStats{Others: 1})
	r.Summary = summary

	if err := r.Collect(testIndex(t)); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return r
}

func checkReport(t *testing.T, got Report) {
	t.Helper()
	if got.FileCount != 3 {
		t.Errorf("FileCount = %d, want 3", got.FileCount)
	}
	if got.TableSize != 16 {
		t.Errorf("TableSize = %d, want 16", got.TableSize)
	}
	if len(got.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(got.Groups))
	}
	if got.Summary == nil || got.Summary.Files != 3 || got.Summary.Others != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if got.Hostname != "testhost" {
		t.Errorf("Hostname = %q", got.Hostname)
	}
}

func TestReportWrite(t *testing.T) {
	r := testReport(t)

	var buf bytes.Buffer
	digest, err := r.Write(&buf)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	if !bytes.Equal(digest, sum[:]) {
		t.Errorf("digest does not match written bytes")
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	checkReport(t, got)
}

func TestReportExport(t *testing.T) {
	r := testReport(t)
	path := filepath.Join(t.TempDir(), "report.json")

	digest, err := r.Export(path)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(data)
	if digest != hex.EncodeToString(sum[:]) {
		t.Errorf("digest %v does not match file contents", digest)
	}

	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	checkReport(t, got)
}

func TestReportExportCreateError(t *testing.T) {
	r := testReport(t)
	path := filepath.Join(t.TempDir(), "missing", "report.json")

	_, err := r.Export(path)
	if err == nil {
		t.Fatal("Export into a missing directory succeeded")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not carry the create failure", err)
	}
}

func TestReportExportZstd(t *testing.T) {
	r := testReport(t)
	path := filepath.Join(t.TempDir(), "report.json.zst")

	digest, err := r.Export(path)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(data)
	if digest != hex.EncodeToString(sum[:]) {
		t.Errorf("digest does not cover the compressed file")
	}

	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("zstd.NewReader: %v", err)
	}
	defer dec.Close()

	var got Report
	if err := json.NewDecoder(dec).Decode(&got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	checkReport(t, got)
}
