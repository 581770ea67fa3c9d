// Package source provides structure retrieval and acceptance evaluation
// for candidate proteins.
package source

import (
	"context"
	"fmt"

	"pdbselect/internal/model"
)

// DataSource is the capability set the registry depends on. The concrete
// implementation is RCSBSource; the interface allows an alternate structure
// source to be substituted without touching the registry.
type DataSource interface {
	// FetchRaw returns the raw structure file bytes for the id, from the
	// local cache when present, downloading otherwise.
	FetchRaw(ctx context.Context, id string) ([]byte, error)

	// FunctionSummary returns best-effort header metadata for the id.
	FunctionSummary(ctx context.Context, id string) (model.FunctionSummary, error)

	// Validate evaluates the structure against the criteria. Fetch and
	// decode failures are folded into a failed result, never returned as
	// errors.
	Validate(ctx context.Context, id string, c model.Criteria) model.ValidationResult
}

// FetchError reports a structure download that returned a non-success
// HTTP status. Distinguishable from format failures so callers can treat
// it as potentially transient.
type FetchError struct {
	ID         string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.ID, e.Status)
}

// ParseError reports structure bytes that could not be decoded. Permanent
// for a given file: retrying the download will not help unless the upstream
// entry changes.
type ParseError struct {
	ID  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.ID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
