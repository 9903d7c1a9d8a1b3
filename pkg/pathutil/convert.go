// Package pathutil converts between absolute and relative paths.
//
// The scanner uses absolute paths internally for consistency and to avoid
// ambiguity, but user-facing output should use project-relative paths for
// readability and portability. This package is the conversion layer at the
// output boundary.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/uimap/internal/types"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or the path is already
// relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.tsx", "/home/user/project") → "src/main.tsx"
//   - ToRelative("/other/location/file.tsx", "/home/user/project") → "/other/location/file.tsx" (outside root)
//   - ToRelative("src/main.tsx", "/home/user/project") → "src/main.tsx" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}

	// A leading ".." means the file sits outside the root; the absolute path
	// is clearer in that case.
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return filepath.ToSlash(relPath)
}

// ToRelativeScanResult returns a copy of the snapshot with every filePath and
// warning path converted to project-relative form. The input is not modified;
// cached snapshots keep absolute paths.
func ToRelativeScanResult(result *types.ScanResult, rootDir string) *types.ScanResult {
	if result == nil {
		return nil
	}
	out := *result

	out.Pages = make([]types.PageInfo, len(result.Pages))
	for i, p := range result.Pages {
		p.FilePath = ToRelative(p.FilePath, rootDir)
		out.Pages[i] = p
	}
	out.Components = make([]types.ComponentInfo, len(result.Components))
	for i, c := range result.Components {
		c.FilePath = ToRelative(c.FilePath, rootDir)
		out.Components[i] = c
	}
	out.Hooks = make([]types.HookInfo, len(result.Hooks))
	for i, h := range result.Hooks {
		h.FilePath = ToRelative(h.FilePath, rootDir)
		out.Hooks[i] = h
	}
	out.Contexts = make([]types.ContextInfo, len(result.Contexts))
	for i, c := range result.Contexts {
		c.FilePath = ToRelative(c.FilePath, rootDir)
		out.Contexts[i] = c
	}
	out.Utilities = make([]types.UtilityInfo, len(result.Utilities))
	for i, u := range result.Utilities {
		u.FilePath = ToRelative(u.FilePath, rootDir)
		out.Utilities[i] = u
	}
	out.ServerActionFiles = make([]types.ServerActionFile, len(result.ServerActionFiles))
	for i, s := range result.ServerActionFiles {
		s.FilePath = ToRelative(s.FilePath, rootDir)
		out.ServerActionFiles[i] = s
	}
	if len(result.Warnings) > 0 {
		out.Warnings = make([]types.Warning, len(result.Warnings))
		for i, w := range result.Warnings {
			w.Path = ToRelative(w.Path, rootDir)
			out.Warnings[i] = w
		}
	}

	return &out
}
