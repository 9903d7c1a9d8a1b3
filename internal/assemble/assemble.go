// Package assemble merges resolved per-file entities into one immutable
// ScanResult with deterministic ordering.
package assemble

import (
	"fmt"
	"sort"
	"time"

	"github.com/standardbeagle/uimap/internal/debug"
	"github.com/standardbeagle/uimap/internal/types"
)

// Input carries everything the assembler folds into a snapshot.
type Input struct {
	ProjectPath string
	ProjectName string
	Framework   types.Framework
	RouterType  types.RouterType
	Files       []*types.ClassifiedFile
	// Warnings are scan-level warnings from the walker, resolver and cache;
	// per-file warnings are collected from Files directly.
	Warnings []types.Warning
	Stats    types.ScanStats
}

// Assemble builds the final snapshot. Entities sharing a name within one kind
// collide last-wins by walk order, and every collision leaves a warning.
func Assemble(in Input) *types.ScanResult {
	files := make([]*types.ClassifiedFile, len(in.Files))
	copy(files, in.Files)
	sort.Slice(files, func(i, j int) bool { return files[i].WalkOrder < files[j].WalkOrder })

	result := &types.ScanResult{
		ProjectPath:       in.ProjectPath,
		ProjectName:       in.ProjectName,
		Framework:         in.Framework,
		RouterType:        in.RouterType,
		ScannedAt:         time.Now().UTC(),
		Pages:             []types.PageInfo{},
		Components:        []types.ComponentInfo{},
		Hooks:             []types.HookInfo{},
		Contexts:          []types.ContextInfo{},
		Utilities:         []types.UtilityInfo{},
		ServerActionFiles: []types.ServerActionFile{},
		Warnings:          in.Warnings,
		Stats:             in.Stats,
	}

	pages := make(map[string]*types.PageInfo)
	components := make(map[string]*types.ComponentInfo)
	hooks := make(map[string]*types.HookInfo)
	contexts := make(map[string]*types.ContextInfo)
	utilities := make(map[string]*types.UtilityInfo)

	collide := func(kind, name, oldPath, newPath string) {
		result.Warnings = append(result.Warnings, types.Warning{
			Code:   types.WarnNameCollision,
			Path:   newPath,
			Detail: fmt.Sprintf("%s %q already defined in %s; later definition wins", kind, name, oldPath),
		})
	}

	for _, file := range files {
		result.Warnings = append(result.Warnings, file.Warnings...)

		switch file.Kind {
		case types.KindPage:
			if old, ok := pages[pageKey(file.Page)]; ok {
				collide("page", file.Page.Route, old.FilePath, file.Page.FilePath)
			}
			pages[pageKey(file.Page)] = file.Page
		case types.KindComponent:
			if old, ok := components[file.Component.Name]; ok {
				collide("component", file.Component.Name, old.FilePath, file.Component.FilePath)
			}
			components[file.Component.Name] = file.Component
		case types.KindHook:
			if old, ok := hooks[file.Hook.Name]; ok {
				collide("hook", file.Hook.Name, old.FilePath, file.Hook.FilePath)
			}
			hooks[file.Hook.Name] = file.Hook
		case types.KindContext:
			if old, ok := contexts[file.Context.Name]; ok {
				collide("context", file.Context.Name, old.FilePath, file.Context.FilePath)
			}
			contexts[file.Context.Name] = file.Context
		case types.KindUtility:
			if old, ok := utilities[file.Utility.Name]; ok {
				collide("utility", file.Utility.Name, old.FilePath, file.Utility.FilePath)
			}
			utilities[file.Utility.Name] = file.Utility
		case types.KindServerActionFile:
			result.ServerActionFiles = append(result.ServerActionFiles, *file.ServerAction)
		}

		for _, page := range file.ExtraPages {
			if old, ok := pages[pageKey(page)]; ok {
				collide("page", page.Route, old.FilePath, page.FilePath)
			}
			pages[pageKey(page)] = page
		}
	}

	for _, page := range pages {
		result.Pages = append(result.Pages, *page)
	}
	for _, comp := range components {
		sort.Strings(comp.UsedInPages)
		sort.Strings(comp.UsedInComponents)
		result.Components = append(result.Components, *comp)
	}
	for _, hook := range hooks {
		sort.Strings(hook.Dependencies)
		sort.Strings(hook.UsedIn)
		result.Hooks = append(result.Hooks, *hook)
	}
	for _, ctxInfo := range contexts {
		sort.Strings(ctxInfo.UsedIn)
		result.Contexts = append(result.Contexts, *ctxInfo)
	}
	for _, util := range utilities {
		sort.Strings(util.UsedIn)
		result.Utilities = append(result.Utilities, *util)
	}

	sort.Slice(result.Pages, func(i, j int) bool {
		if result.Pages[i].Route != result.Pages[j].Route {
			return result.Pages[i].Route < result.Pages[j].Route
		}
		return result.Pages[i].FilePath < result.Pages[j].FilePath
	})
	sort.Slice(result.Components, func(i, j int) bool { return result.Components[i].Name < result.Components[j].Name })
	sort.Slice(result.Hooks, func(i, j int) bool { return result.Hooks[i].Name < result.Hooks[j].Name })
	sort.Slice(result.Contexts, func(i, j int) bool { return result.Contexts[i].Name < result.Contexts[j].Name })
	sort.Slice(result.Utilities, func(i, j int) bool { return result.Utilities[i].Name < result.Utilities[j].Name })
	sort.Slice(result.ServerActionFiles, func(i, j int) bool {
		return result.ServerActionFiles[i].FilePath < result.ServerActionFiles[j].FilePath
	})

	debug.Log("ASSEMBLE", "snapshot: %d pages, %d components, %d hooks, %d contexts, %d utilities, %d action files",
		len(result.Pages), len(result.Components), len(result.Hooks), len(result.Contexts),
		len(result.Utilities), len(result.ServerActionFiles))
	return result
}

// pageKey dedupes pages. Layout, loading and error files share a route with
// the page itself, so the role participates in the key.
func pageKey(page *types.PageInfo) string {
	switch {
	case page.IsLayout:
		return page.Route + "\x00layout"
	case page.IsLoading:
		return page.Route + "\x00loading"
	case page.IsError:
		return page.Route + "\x00error"
	}
	return page.Route
}
