// Package cache persists the last scan snapshot per project so repeat reads
// skip the filesystem walk. The cache is a plain JSON document; anything
// unreadable, unparsable or belonging to a different project counts as absent.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/uimap/internal/debug"
	uimaperrors "github.com/standardbeagle/uimap/internal/errors"
	"github.com/standardbeagle/uimap/internal/types"
)

const snapshotFile = "scan.json"

// Document is the on-disk cache shape. ProjectPath guards against a cache
// directory copied between projects; Digest fingerprints the snapshot content
// independent of scan timestamps.
type Document struct {
	ProjectPath string            `json:"projectPath"`
	ScanResult  *types.ScanResult `json:"scanResult"`
	CachedAt    time.Time         `json:"cachedAt"`
	Digest      string            `json:"digest,omitempty"`
}

// Store reads and writes one project's snapshot under its cache directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// the first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, snapshotFile)
}

// Load returns the cached snapshot for projectPath. A missing file returns
// (nil, nil); everything else that keeps the snapshot from loading, including
// a file that exists but cannot be read, returns a typed error the caller
// downgrades to a warning.
func (s *Store) Load(projectPath string) (*types.ScanResult, error) {
	path := s.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, uimaperrors.NewCacheCorruptedError(path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, uimaperrors.NewCacheCorruptedError(path, err)
	}
	if doc.ScanResult == nil {
		return nil, uimaperrors.NewCacheCorruptedError(path, nil)
	}
	if doc.ProjectPath != projectPath {
		return nil, uimaperrors.NewCacheMismatchError(path)
	}
	if doc.Digest != "" && doc.Digest != Digest(doc.ScanResult) {
		return nil, uimaperrors.NewCacheCorruptedError(path, nil)
	}

	debug.LogCache("hit for %s (cached %s)", projectPath, doc.CachedAt.Format(time.RFC3339))
	return doc.ScanResult, nil
}

// Save writes the snapshot atomically: a temp file in the same directory is
// renamed over the previous snapshot.
func (s *Store) Save(result *types.ScanResult) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	doc := Document{
		ProjectPath: result.ProjectPath,
		ScanResult:  result,
		CachedAt:    time.Now().UTC(),
		Digest:      Digest(result),
	}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, snapshotFile+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		os.Remove(tmpName)
		return err
	}
	debug.LogCache("saved snapshot for %s", result.ProjectPath)
	return nil
}

// Invalidate removes the snapshot. Missing files are not an error.
func (s *Store) Invalidate() error {
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Digest fingerprints a snapshot's content. Timestamps and pipeline stats are
// excluded so two scans of an unchanged tree produce the same digest.
func Digest(result *types.ScanResult) string {
	stable := *result
	stable.ScannedAt = time.Time{}
	stable.Stats = types.ScanStats{}
	data, err := json.Marshal(&stable)
	if err != nil {
		return ""
	}
	sum := xxhash.Sum64(data)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (56 - 8*i))
	}
	return hex.EncodeToString(buf[:])
}
