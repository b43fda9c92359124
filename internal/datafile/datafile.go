// Package datafile probes for the presence of declared data files. The
// validator treats it as an external collaborator: given the document's
// directory context and a declared filename it answers whether the artifact
// exists, against a local filesystem, an S3-compatible object store, or an
// in-memory set for tests.
package datafile

import (
	"context"
	"fmt"
	"os"
)

// Driver identifies a concrete presence-probe backend.
type Driver string

const (
	// DriverFilesystem probes the local filesystem (default, dev).
	DriverFilesystem Driver = "fs"
	// DriverS3 probes an S3 / MinIO compatible object store.
	DriverS3 Driver = "s3"
	// DriverMemory probes an in-memory set (tests).
	DriverMemory Driver = "memory"
)

// Prober reports whether a declared data file exists relative to the
// document's directory context.
type Prober interface {
	Exists(ctx context.Context, dir, name string) (bool, error)
	Driver() Driver
}

// Open selects a Prober implementation using environment variables.
//
//	STUDYCORE_DATAFILE_DRIVER: fs|s3|memory (default fs)
//	(S3 specific variables documented in s3.go)
func Open(ctx context.Context) (Prober, error) {
	driver := os.Getenv("STUDYCORE_DATAFILE_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(), nil
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown datafile driver %s", driver)
	}
}
