// Package farmindex implements an embedded, append-oriented record
// store with a secondary index: it ingests rows from a CSV or JSON
// input file, assigns each row a stable numeric id, and maintains a
// disk-resident AVL tree keyed by a per-row opaque identifier (gid) so
// rows can be looked up, ordered, and range-scanned without touching
// the input again. Construction of the byte formats lives in
// internal/indexfile and internal/schema; this package is the indexer
// that drives them.
package farmindex

import (
	"github.com/datahen/farmindex/internal/indexfile"
)

// Config carries everything an Indexer needs to build and navigate one
// index file. It is a plain struct, constructed by the caller (the CLI
// wrapper or a test), with no configuration framework behind it.
type Config struct {
	// InputPath is the CSV or JSON file being indexed.
	InputPath string
	// IndexPath is the on-disk index file. Created if absent.
	IndexPath string
	// InputKind declares how InputPath should be scanned.
	InputKind indexfile.InputKind
	// RetryLimit bounds bulk-build retry loops run by a caller (e.g. the
	// CLI). The indexer itself does not retry; it is carried here so
	// callers have one place to read it from.
	RetryLimit int
}

// Status is the result of a healthcheck or build attempt: which of the
// lifecycle states the index file is currently in.
type Status int

const (
	// StatusNew means no index file exists yet, or it is empty.
	StatusNew Status = iota
	// StatusIndexing means a header is present but indexed = false and
	// no more specific diagnosis applies.
	StatusIndexing
	// StatusIncomplete means the input fingerprint still matches but the
	// on-disk node count disagrees with the file length: a build was
	// interrupted and can be resumed.
	StatusIncomplete
	// StatusCorrupted means the header or file length violates a
	// structural invariant.
	StatusCorrupted
	// StatusIndexed means the index is complete and consistent.
	StatusIndexed
	// StatusWrongInputFile means the input file's fingerprint no longer
	// matches the one recorded at build time.
	StatusWrongInputFile
)

// StatusError pairs a build/healthcheck error with the Status it left
// the index in, so a caller (e.g. the CLI) can pick an exit code or a
// retry strategy off Status rather than parsing the error text.
type StatusError struct {
	Status Status
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return e.Status.String()
	}
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error { return e.Err }

// ClassifyBuildError wraps an error returned by Indexer.Build with the
// Status Build reported alongside it, provided the status is one a
// caller would want to branch on (WrongInputFile, Corrupted). Other
// statuses are returned unwrapped since they carry no actionable
// distinction beyond "retry".
func ClassifyBuildError(status Status, err error) error {
	if err == nil {
		return nil
	}
	switch status {
	case StatusWrongInputFile, StatusCorrupted:
		return &StatusError{Status: status, Err: err}
	default:
		return err
	}
}

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusIndexing:
		return "indexing"
	case StatusIncomplete:
		return "incomplete"
	case StatusCorrupted:
		return "corrupted"
	case StatusIndexed:
		return "indexed"
	case StatusWrongInputFile:
		return "wrong_input_file"
	default:
		return "unknown"
	}
}
