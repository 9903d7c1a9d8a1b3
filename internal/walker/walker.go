// Package walker enumerates candidate source files under a project's
// framework-conventional directories. Individual unreadable entries are skipped
// with a warning; only an inaccessible root is fatal.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/uimap/internal/config"
	"github.com/standardbeagle/uimap/internal/debug"
	uimaperrors "github.com/standardbeagle/uimap/internal/errors"
	"github.com/standardbeagle/uimap/internal/types"
)

// conventionalRoots are the directory names a React/Next.js/Vite project keeps
// UI source under. When at least one exists, walking is restricted to them.
var conventionalRoots = []string{
	"app", "pages", "src", "components", "hooks", "lib", "utils",
	"context", "contexts", "providers", "actions",
}

// WalkedFile is one candidate source file in deterministic walk order.
type WalkedFile struct {
	// Path is absolute.
	Path string
	// RelPath is slash-separated and relative to the project root.
	RelPath string
	// Order is the walk position, used for last-wins collision resolution.
	Order int
}

// FileWalker enumerates candidate files for a configured project.
type FileWalker struct {
	cfg      *config.Config
	excludes []string
}

// New creates a walker. Build output directories declared by the project's own
// tooling are added to the configured exclusions.
func New(cfg *config.Config) *FileWalker {
	excludes := make([]string, 0, len(cfg.Exclude)+4)
	excludes = append(excludes, cfg.Exclude...)
	excludes = append(excludes, config.NewBuildOutputDetector(cfg.Project.Root).DetectOutputDirectories()...)
	return &FileWalker{cfg: cfg, excludes: excludes}
}

// Walk returns all candidate files under the project root in deterministic
// order. It fails only when the root itself is inaccessible (or disappears
// mid-walk); per-file errors become warnings.
func (w *FileWalker) Walk(ctx context.Context) ([]WalkedFile, []types.Warning, error) {
	root := w.cfg.Project.Root

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil, uimaperrors.NewProjectNotFoundError(root, err)
	}

	roots := w.candidateRoots(root)
	debug.LogWalk("walking %s (restricted roots: %v)", root, roots)

	var files []WalkedFile
	var warnings []types.Warning
	order := 0
	checked := 0

	for _, dir := range roots {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if walkErr != nil {
				// Root disappearing mid-walk is the one fatal condition.
				if path == dir && uimaperrors.IsInaccessible(walkErr) {
					if _, rootErr := os.Stat(root); rootErr != nil {
						return uimaperrors.NewProjectNotFoundError(root, rootErr)
					}
				}
				warnings = append(warnings, types.Warning{
					Code:   types.WarnFileRead,
					Path:   path,
					Detail: walkErr.Error(),
				})
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if path != dir && w.shouldExcludeDir(rel, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			// Periodically confirm the root still exists so a deleted project
			// aborts instead of producing a partial result.
			checked++
			if checked%256 == 0 {
				if _, rootErr := os.Stat(root); rootErr != nil {
					return uimaperrors.NewProjectNotFoundError(root, rootErr)
				}
			}

			if !w.shouldInclude(rel) {
				return nil
			}

			fi, statErr := d.Info()
			if statErr != nil {
				warnings = append(warnings, types.Warning{
					Code:   types.WarnFileRead,
					Path:   path,
					Detail: statErr.Error(),
				})
				return nil
			}
			if fi.Size() > w.cfg.Scan.MaxFileSize {
				debug.LogWalk("skipping oversized file %s (%d bytes)", rel, fi.Size())
				return nil
			}

			files = append(files, WalkedFile{Path: path, RelPath: rel, Order: order})
			order++
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, warnings, ctx.Err()
			}
			return nil, warnings, err
		}
	}

	debug.LogWalk("walk complete: %d candidate files, %d warnings", len(files), len(warnings))
	return files, warnings, nil
}

// candidateRoots returns the conventional source directories that exist under
// root, or root itself when none do (unrecognized layouts degrade gracefully).
func (w *FileWalker) candidateRoots(root string) []string {
	var roots []string
	seen := make(map[string]bool)

	add := func(dir string) {
		if seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}

	for _, name := range conventionalRoots {
		add(filepath.Join(root, name))
	}

	// src already covers its own subtree; drop nested duplicates.
	if seen[filepath.Join(root, "src")] {
		filtered := roots[:0]
		srcPrefix := filepath.Join(root, "src") + string(os.PathSeparator)
		for _, r := range roots {
			if !strings.HasPrefix(r, srcPrefix) {
				filtered = append(filtered, r)
			}
		}
		roots = filtered
	}

	if len(roots) == 0 {
		return []string{root}
	}
	return roots
}

func (w *FileWalker) shouldExcludeDir(rel, name string) bool {
	if strings.HasPrefix(name, ".") || name == "node_modules" {
		return true
	}
	for _, pattern := range w.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
			return true
		}
	}
	return false
}

func (w *FileWalker) shouldInclude(rel string) bool {
	for _, pattern := range w.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	for _, pattern := range w.cfg.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
