// Package errors defines the scanner error taxonomy. Only project-not-found is
// a hard failure; every other condition is absorbed locally and degrades the
// result's completeness, not its availability.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// ErrorType categorizes scan errors.
type ErrorType string

const (
	ErrorTypeProjectNotFound ErrorType = "project_not_found"
	ErrorTypeFileRead        ErrorType = "file_read"
	ErrorTypeClassification  ErrorType = "classification_ambiguous"
	ErrorTypeReference       ErrorType = "reference_unresolved"
	ErrorTypeCacheCorrupted  ErrorType = "cache_corrupted"
	ErrorTypeCacheMismatch   ErrorType = "cache_mismatch"
)

// ErrProjectNotFound is the sentinel for the single hard failure the pipeline
// can surface. Use errors.Is against it regardless of the wrapping.
var ErrProjectNotFound = errors.New("project path invalid")

// ProjectNotFoundError reports an inaccessible project root. It aborts the
// whole scan and is surfaced to the caller.
type ProjectNotFoundError struct {
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewProjectNotFoundError creates a project-not-found error for the given root.
func NewProjectNotFoundError(path string, err error) *ProjectNotFoundError {
	return &ProjectNotFoundError{
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ProjectNotFoundError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("project path invalid: %s: %v", e.Path, e.Underlying)
	}
	return fmt.Sprintf("project path invalid: %s", e.Path)
}

// Unwrap returns the sentinel so errors.Is(err, ErrProjectNotFound) holds, plus
// the original I/O error for errors.As inspection.
func (e *ProjectNotFoundError) Unwrap() []error {
	if e.Underlying != nil {
		return []error{ErrProjectNotFound, e.Underlying}
	}
	return []error{ErrProjectNotFound}
}

// FileReadError reports a single unreadable file. The file is skipped with a
// warning and the scan continues.
type FileReadError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileReadError creates a file read error with context.
func NewFileReadError(op, path string, err error) *FileReadError {
	return &FileReadError{
		Type:       ErrorTypeFileRead,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

func (e *FileReadError) Unwrap() error {
	return e.Underlying
}

// CacheError reports unreadable or mismatched cache state. Both flavors are
// treated as cache-absent by the scanner, triggering a fresh scan.
type CacheError struct {
	Type       ErrorType
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewCacheCorruptedError creates an error for an unreadable cache document.
func NewCacheCorruptedError(path string, err error) *CacheError {
	return &CacheError{
		Type:       ErrorTypeCacheCorrupted,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewCacheMismatchError creates an error for a cache entry whose stored project
// path does not match the requested path.
func NewCacheMismatchError(path string) *CacheError {
	return &CacheError{
		Type:      ErrorTypeCacheMismatch,
		Path:      path,
		Timestamp: time.Now(),
	}
}

func (e *CacheError) Error() string {
	if e.Type == ErrorTypeCacheMismatch {
		return fmt.Sprintf("cache entry is for a different project path: %s", e.Path)
	}
	return fmt.Sprintf("cache corrupted at %s: %v", e.Path, e.Underlying)
}

func (e *CacheError) Unwrap() error {
	return e.Underlying
}

// IsInaccessible reports whether err indicates a path that cannot be used at
// all, either missing or denied by permissions.
func IsInaccessible(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrPermission)
}
