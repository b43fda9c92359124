package datafile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "raw1.fastq"), []byte("data"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	fs := NewFilesystem()

	ok, err := fs.Exists(context.Background(), dir, "raw1.fastq")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatalf("expected file to be reported present")
	}

	ok, err = fs.Exists(context.Background(), dir, "missing.fastq")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("missing file reported present")
	}
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	fs := NewFilesystem()
	cases := []string{"../secret", "a/../../secret", "/etc/passwd", "", "  "}
	for _, name := range cases {
		if _, err := fs.Exists(context.Background(), t.TempDir(), name); err == nil {
			t.Fatalf("expected rejection for %q", name)
		}
	}
}

func TestFilesystemAllowsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "raw"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "raw", "r1.fastq"), []byte("data"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	fs := NewFilesystem()
	ok, err := fs.Exists(context.Background(), dir, "raw/r1.fastq")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatalf("expected nested file to be reported present")
	}
}

func TestMemoryProber(t *testing.T) {
	m := NewMemory()
	ok, err := m.Exists(context.Background(), "data", "raw1.fastq")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("empty prober reported a file present")
	}
	m.Add("data", "raw1.fastq")
	ok, err = m.Exists(context.Background(), "data", "raw1.fastq")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatalf("registered file not reported present")
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Setenv("STUDYCORE_DATAFILE_DRIVER", "")
	p, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if p.Driver() != DriverFilesystem {
		t.Fatalf("default driver = %s", p.Driver())
	}

	t.Setenv("STUDYCORE_DATAFILE_DRIVER", "memory")
	p, err = Open(context.Background())
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if p.Driver() != DriverMemory {
		t.Fatalf("memory driver = %s", p.Driver())
	}

	t.Setenv("STUDYCORE_DATAFILE_DRIVER", "bogus")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenS3RequiresBucket(t *testing.T) {
	t.Setenv("STUDYCORE_DATAFILE_DRIVER", "s3")
	t.Setenv("STUDYCORE_DATAFILE_S3_BUCKET", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected error when bucket is unset")
	}
}
