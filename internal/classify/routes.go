package classify

import (
	"fmt"
	"path"
	"strings"

	"github.com/standardbeagle/uimap/internal/types"
)

// appRouterFiles maps App Router special basenames to their page role.
var appRouterFiles = map[string]struct{ layout, loading, errorPage bool }{
	"page":      {},
	"layout":    {layout: true},
	"loading":   {loading: true},
	"error":     {errorPage: true},
	"not-found": {errorPage: true},
}

// routeFromSegments converts directory segments to a URL route. Dynamic
// segments become :param, catch-alls become a terminal *, route groups and
// parallel slots vanish from the URL.
func routeFromSegments(segments []string, filePath string) (string, []types.Warning) {
	var parts []string
	var warnings []types.Warning
	for i, seg := range segments {
		switch {
		case seg == "":
			continue
		case strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")"):
			// Route group: organizational only.
		case strings.HasPrefix(seg, "@"):
			// Parallel route slot: not part of the URL.
		case strings.HasPrefix(seg, "[[...") && strings.HasSuffix(seg, "]]"),
			strings.HasPrefix(seg, "[...") && strings.HasSuffix(seg, "]"):
			parts = append(parts, "*")
			if i != len(segments)-1 {
				warnings = append(warnings, types.Warning{
					Code:   types.WarnRouteDerivation,
					Path:   filePath,
					Detail: fmt.Sprintf("catch-all segment %q is not terminal", seg),
				})
			}
		case strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]"):
			name := seg[1 : len(seg)-1]
			if name == "" {
				warnings = append(warnings, types.Warning{
					Code:   types.WarnRouteDerivation,
					Path:   filePath,
					Detail: "empty dynamic segment",
				})
				continue
			}
			parts = append(parts, ":"+name)
		default:
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return "/", warnings
	}
	return "/" + strings.Join(parts, "/"), warnings
}

// appRoute derives the route for an App Router special file. relPath is the
// file's path relative to the app directory, slash-separated.
func appRoute(relPath, filePath string) (string, []types.Warning) {
	dir := path.Dir(relPath)
	if dir == "." {
		return "/", nil
	}
	return routeFromSegments(strings.Split(dir, "/"), filePath)
}

// pagesRoute derives the route for a Pages Router file. relPath is relative to
// the pages directory, slash-separated, extension already stripped.
func pagesRoute(relPath, filePath string) (string, []types.Warning) {
	segments := strings.Split(relPath, "/")
	if last := segments[len(segments)-1]; last == "index" {
		segments = segments[:len(segments)-1]
	}
	return routeFromSegments(segments, filePath)
}

// reactRouterRoute normalizes a path literal from a Route declaration. It
// keeps the library's own :param and * syntax and only guarantees a leading
// slash for non-relative paths.
func reactRouterRoute(declared string) string {
	if declared == "" || declared == "/" {
		return "/"
	}
	if strings.HasPrefix(declared, "/") {
		return declared
	}
	return "/" + declared
}
