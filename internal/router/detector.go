// Package router classifies a project's routing convention from directory
// layout, dependency manifests and bundler configuration. The detected tag is
// computed once per scan and gates all downstream route derivation.
package router

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/uimap/internal/debug"
	"github.com/standardbeagle/uimap/internal/types"
)

var routeExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
}

// Detection is the routing convention and framework detected for one project.
type Detection struct {
	RouterType types.RouterType
	Framework  types.Framework
	// RouterRoot is the absolute path of the directory routes derive from
	// ("app" or "pages"); empty for react-router and unknown projects.
	RouterRoot string
}

// Detect classifies the project under root. Precedence: an app directory with
// page/layout files wins, then a pages directory with route files, then a
// router-library dependency or config reference, then unknown.
func Detect(root string) Detection {
	deps := readPackageDependencies(root)
	framework := detectFramework(root, deps)

	if appDir, ok := findRouterDir(root, "app", hasAppRouterFiles); ok {
		debug.Log("ROUTER", "detected nextjs-app at %s", appDir)
		return Detection{RouterType: types.RouterNextJSApp, Framework: framework, RouterRoot: appDir}
	}
	if pagesDir, ok := findRouterDir(root, "pages", hasRouteFiles); ok {
		debug.Log("ROUTER", "detected nextjs-pages at %s", pagesDir)
		return Detection{RouterType: types.RouterNextJSPages, Framework: framework, RouterRoot: pagesDir}
	}
	if hasReactRouter(root, deps) {
		debug.Log("ROUTER", "detected react-router project")
		return Detection{RouterType: types.RouterReactRouter, Framework: framework}
	}

	debug.Log("ROUTER", "no routing convention recognized, degrading to unknown")
	return Detection{RouterType: types.RouterUnknown, Framework: framework}
}

// findRouterDir checks root/<name> and root/src/<name> for a directory that
// satisfies the given content probe.
func findRouterDir(root, name string, probe func(string) bool) (string, bool) {
	for _, dir := range []string{
		filepath.Join(root, name),
		filepath.Join(root, "src", name),
	} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() && probe(dir) {
			return dir, true
		}
	}
	return "", false
}

// hasAppRouterFiles reports whether dir contains at least one App Router
// special file (page/layout) at any depth.
func hasAppRouterFiles(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return fs.SkipAll
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		base := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		if (base == "page" || base == "layout") && routeExtensions[filepath.Ext(d.Name())] {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// hasRouteFiles reports whether dir contains at least one route-capable file.
func hasRouteFiles(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found {
			return fs.SkipAll
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if routeExtensions[filepath.Ext(d.Name())] {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

func readPackageDependencies(root string) map[string]string {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil
	}
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if json.Unmarshal(data, &pkg) != nil {
		return nil
	}
	deps := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for k, v := range pkg.Dependencies {
		deps[k] = v
	}
	for k, v := range pkg.DevDependencies {
		deps[k] = v
	}
	return deps
}

func detectFramework(root string, deps map[string]string) types.Framework {
	if _, ok := deps["next"]; ok {
		return types.FrameworkNextJS
	}
	if _, ok := deps["vite"]; ok {
		return types.FrameworkVite
	}
	for _, name := range []string{"vite.config.js", "vite.config.ts", "vite.config.mjs"} {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			return types.FrameworkVite
		}
	}
	if _, ok := deps["react"]; ok {
		return types.FrameworkReact
	}
	return types.FrameworkUnknown
}

func hasReactRouter(root string, deps map[string]string) bool {
	for _, name := range []string{"react-router-dom", "react-router", "@remix-run/router"} {
		if _, ok := deps[name]; ok {
			return true
		}
	}
	return configReferencesRouter(root)
}
