// Package resolve turns per-file facts into cross-entity edges. It runs only
// after every file has been classified, so both sides of every edge are drawn
// from the same complete universe of names.
package resolve

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/uimap/internal/debug"
	"github.com/standardbeagle/uimap/internal/types"
)

// Resolver links JSX tags, called identifiers and imports against the entity
// universe built from all classified files.
type Resolver struct {
	maxWorkers int
}

// New creates a resolver that fans resolution out over at most maxWorkers
// goroutines.
func New(maxWorkers int) *Resolver {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Resolver{maxWorkers: maxWorkers}
}

// Resolve mutates the classified files in place: forward edges (rendered
// components, server-action data deps) and reverse edges (usedIn lists) are
// filled, and every unresolved or fuzzily matched reference yields a warning.
func (r *Resolver) Resolve(ctx context.Context, files []*types.ClassifiedFile) ([]types.Warning, error) {
	u := buildUniverse(files)

	edges := make([]*fileEdges, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxWorkers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			edges[i] = resolveFile(file, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Reverse edges touch shared entities; apply them sequentially in walk
	// order so output is deterministic.
	var warnings []types.Warning
	for _, e := range edges {
		warnings = append(warnings, r.apply(e, u)...)
	}
	debug.LogResolve("resolved %d files, %d warnings", len(files), len(warnings))
	return warnings, nil
}

// fileEdges is the forward resolution of one file, computed without touching
// shared state.
type fileEdges struct {
	file          *types.ClassifiedFile
	renders       []string
	hooksUsed     []string
	contextsUsed  []string
	utilitiesUsed []string
	serverActions []types.DataDependency
	warnings      []types.Warning
}

func resolveFile(file *types.ClassifiedFile, u *universe) *fileEdges {
	e := &fileEdges{file: file}
	if file.Kind == types.KindSkipped || file.Kind == types.KindServerActionFile {
		return e
	}

	for _, tag := range file.Facts.JSXTags {
		if name, warning, ok := u.resolveComponent(tag, file.FilePath); ok {
			if name != selfComponentName(file) {
				e.renders = appendUnique(e.renders, name)
			}
			if warning != nil {
				e.warnings = append(e.warnings, *warning)
			}
		} else if warning != nil {
			e.warnings = append(e.warnings, *warning)
		}
	}

	for _, ident := range file.Facts.CalledIdents {
		if hook, ok := u.hooks[ident]; ok && hook.FilePath != file.FilePath {
			e.hooksUsed = appendUnique(e.hooksUsed, hook.Name)
			continue
		}
		if util, ok := u.utilityByExport[ident]; ok && util.FilePath != file.FilePath {
			if _, isComponent := u.components[ident]; isComponent {
				// A component and a utility export share this name; the
				// component keeps the reference.
				e.warnings = append(e.warnings, types.Warning{
					Code:   types.WarnAmbiguousName,
					Path:   file.FilePath,
					Detail: ident + " matches both a component and a utility export; resolved as component",
				})
				continue
			}
			e.utilitiesUsed = appendUnique(e.utilitiesUsed, util.Name)
		}
	}

	for _, imp := range file.Facts.Imports {
		if ctxInfo, ok := u.contextNames[imp.LocalName]; ok && ctxInfo.FilePath != file.FilePath {
			e.contextsUsed = appendUnique(e.contextsUsed, ctxInfo.Name)
		}
		if target := u.fileForImport(file.FilePath, imp.Source); target != nil {
			switch target.Kind {
			case types.KindServerActionFile:
				e.serverActions = append(e.serverActions, types.DataDependency{
					Type:   types.DataDepServerAction,
					Source: imp.LocalName,
				})
			case types.KindUtility:
				if target.Utility.FilePath != file.FilePath {
					e.utilitiesUsed = appendUnique(e.utilitiesUsed, target.Utility.Name)
				}
			}
		}
	}

	return e
}

// apply writes one file's edges onto the shared entities.
func (r *Resolver) apply(e *fileEdges, u *universe) []types.Warning {
	file := e.file
	owner := ownerRef(file)

	switch file.Kind {
	case types.KindPage:
		file.Page.Components = append(file.Page.Components, e.renders...)
		file.Page.DataDependencies = append(file.Page.DataDependencies, e.serverActions...)
		for _, name := range e.renders {
			if comp, ok := u.components[name]; ok {
				comp.UsedInPages = appendUnique(comp.UsedInPages, file.Page.Route)
			}
		}
	case types.KindComponent:
		file.Component.DataDependencies = append(file.Component.DataDependencies, e.serverActions...)
		for _, name := range e.renders {
			if comp, ok := u.components[name]; ok {
				comp.UsedInComponents = appendUnique(comp.UsedInComponents, file.Component.Name)
			}
		}
	}

	// Routes declared inside this file render components too.
	for _, page := range file.ExtraPages {
		for _, name := range page.Components {
			if comp, ok := u.components[name]; ok {
				comp.UsedInPages = appendUnique(comp.UsedInPages, page.Route)
			}
		}
	}

	if owner != "" {
		for _, name := range e.hooksUsed {
			if hook, ok := u.hooks[name]; ok {
				hook.UsedIn = appendUnique(hook.UsedIn, owner)
			}
		}
		for _, name := range e.contextsUsed {
			if ctxInfo, ok := u.contextsByName[name]; ok {
				ctxInfo.UsedIn = appendUnique(ctxInfo.UsedIn, owner)
			}
		}
		for _, name := range e.utilitiesUsed {
			if util, ok := u.utilities[name]; ok {
				util.UsedIn = appendUnique(util.UsedIn, owner)
			}
		}
	}

	// A hook's dependencies are the other hooks and utilities it calls.
	if file.Kind == types.KindHook {
		for _, name := range e.hooksUsed {
			if name != file.Hook.Name {
				file.Hook.Dependencies = appendUnique(file.Hook.Dependencies, name)
			}
		}
		for _, name := range e.utilitiesUsed {
			file.Hook.Dependencies = appendUnique(file.Hook.Dependencies, name)
		}
	}

	return e.warnings
}

// ownerRef is the identifier an entity appears under in usedIn lists: routes
// for pages, names for everything else.
func ownerRef(file *types.ClassifiedFile) string {
	switch file.Kind {
	case types.KindPage:
		return file.Page.Route
	case types.KindComponent:
		return file.Component.Name
	case types.KindHook:
		return file.Hook.Name
	case types.KindContext:
		return file.Context.Name
	case types.KindUtility:
		return file.Utility.Name
	}
	return ""
}

func selfComponentName(file *types.ClassifiedFile) string {
	if file.Kind == types.KindComponent {
		return file.Component.Name
	}
	return ""
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// importExtensions are tried, in order, when resolving an extensionless
// relative import specifier to a file.
var importExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

func normalizeImportKey(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	for _, ext := range importExtensions {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}
