package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/uimap/internal/debug"
	uimaperrors "github.com/standardbeagle/uimap/internal/errors"
	"github.com/standardbeagle/uimap/internal/router"
	"github.com/standardbeagle/uimap/internal/types"
)

// frameworkDataFuncs are exported names that make the framework load data for
// a route.
var frameworkDataFuncs = map[string]bool{
	"getServerSideProps":   true,
	"getStaticProps":       true,
	"getStaticPaths":       true,
	"generateStaticParams": true,
	"loader":               true,
	"action":               true,
}

// Classifier assigns exactly one entity kind to each walked file. It owns a
// tree-sitter parser and therefore must not be shared across goroutines; the
// scan pipeline creates one per worker.
type Classifier struct {
	parser    *Parser
	detection router.Detection
	root      string
}

// NewClassifier creates a classifier for one project scan.
func NewClassifier(root string, detection router.Detection) *Classifier {
	return &Classifier{
		parser:    NewParser(),
		detection: detection,
		root:      root,
	}
}

// Close releases the parser resources.
func (c *Classifier) Close() {
	c.parser.Close()
}

// ClassifyFile reads and classifies one file. Classification is total: the
// result always carries a kind, with KindSkipped plus a warning for files that
// cannot be read, parsed or matched to any entity shape.
func (c *Classifier) ClassifyFile(path, relPath string, order int) types.ClassifiedFile {
	result := types.ClassifiedFile{
		Kind:      types.KindSkipped,
		FilePath:  path,
		WalkOrder: order,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		readErr := uimaperrors.NewFileReadError("classify", path, err)
		result.Warnings = append(result.Warnings, types.Warning{
			Code:   types.WarnFileRead,
			Path:   path,
			Detail: readErr.Error(),
		})
		return result
	}

	ext := strings.ToLower(filepath.Ext(path))
	tree := c.parser.Parse(ext, content)
	if tree == nil {
		result.Warnings = append(result.Warnings, types.Warning{
			Code:   types.WarnUnclassifiable,
			Path:   path,
			Detail: "file could not be parsed",
		})
		return result
	}
	defer tree.Close()

	analysis := extractAnalysis(tree.RootNode(), content)
	analysis.Facts.HasClientDirective, analysis.Facts.HasServerDirective = leadingDirectives(content)
	c.attachFrameworkDataDeps(analysis)
	result.Facts = analysis.Facts

	c.classify(&result, analysis, content, relPath)
	debug.LogClassify("%s -> %s", relPath, result.Kind)
	return result
}

// classify applies the precedence order: page, hook, context, component,
// server-action file, utility, skipped. The server directive ranks below the
// entity shapes: a route file or hook marked "use server" is still a page or
// hook first.
func (c *Classifier) classify(result *types.ClassifiedFile, analysis *fileAnalysis, content []byte, relPath string) {
	if page, warnings, ok := c.classifyPage(result.FilePath, analysis); ok {
		result.Kind = types.KindPage
		result.Page = page
		result.Warnings = append(result.Warnings, warnings...)
		return
	}

	if c.detection.RouterType == types.RouterReactRouter {
		result.ExtraPages = c.routePages(result.FilePath, analysis)
	}

	if hook := c.classifyHook(result.FilePath, analysis); hook != nil {
		result.Kind = types.KindHook
		result.Hook = hook
		return
	}

	if ctxInfo := c.classifyContext(result.FilePath, analysis); ctxInfo != nil {
		result.Kind = types.KindContext
		result.Context = ctxInfo
		return
	}

	if component := c.classifyComponent(result.FilePath, analysis, content); component != nil {
		result.Kind = types.KindComponent
		result.Component = component
		return
	}

	if analysis.Facts.HasServerDirective {
		result.Kind = types.KindServerActionFile
		result.ServerAction = &types.ServerActionFile{
			FilePath: result.FilePath,
			Actions:  exportedFunctionNames(analysis),
		}
		return
	}

	if len(analysis.Facts.ExportedNames) > 0 || analysis.Facts.DefaultExport != "" {
		result.Kind = types.KindUtility
		result.Utility = &types.UtilityInfo{
			Name:     entityNameFromFile(result.FilePath),
			FilePath: result.FilePath,
			Exports:  allExportNames(analysis),
		}
		return
	}

	result.Warnings = append(result.Warnings, types.Warning{
		Code:   types.WarnUnclassifiable,
		Path:   result.FilePath,
		Detail: fmt.Sprintf("%s exports nothing recognizable", relPath),
	})
}

// classifyPage matches App Router and Pages Router conventions. _document and
// API routes fall through to regular classification.
func (c *Classifier) classifyPage(path string, analysis *fileAnalysis) (*types.PageInfo, []types.Warning, bool) {
	if c.detection.RouterRoot == "" || !withinDir(path, c.detection.RouterRoot) {
		return nil, nil, false
	}
	rel, err := filepath.Rel(c.detection.RouterRoot, path)
	if err != nil {
		return nil, nil, false
	}
	rel = filepath.ToSlash(rel)
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))

	switch c.detection.RouterType {
	case types.RouterNextJSApp:
		role, ok := appRouterFiles[base]
		if !ok {
			return nil, nil, false
		}
		route, warnings := appRoute(rel, path)
		return c.newPage(route, path, analysis, role.layout, role.loading, role.errorPage), warnings, true

	case types.RouterNextJSPages:
		if strings.HasPrefix(rel, "api/") || base == "_document" {
			return nil, nil, false
		}
		switch base {
		case "_app":
			return c.newPage("/", path, analysis, true, false, false), nil, true
		case "_error", "404", "500":
			return c.newPage("/"+base, path, analysis, false, false, true), nil, true
		}
		route, warnings := pagesRoute(strings.TrimSuffix(rel, filepath.Ext(rel)), path)
		return c.newPage(route, path, analysis, false, false, false), warnings, true
	}
	return nil, nil, false
}

func (c *Classifier) newPage(route, path string, analysis *fileAnalysis, layout, loading, errorPage bool) *types.PageInfo {
	return &types.PageInfo{
		Route:            route,
		FileName:         filepath.Base(path),
		FilePath:         path,
		IsLayout:         layout,
		IsLoading:        loading,
		IsError:          errorPage,
		Components:       []string{},
		LinksTo:          append([]string{}, analysis.Facts.NavTargets...),
		DataDependencies: append([]types.DataDependency{}, analysis.Facts.DataDeps...),
	}
}

// routePages materializes react-router Route declarations found in this file.
// The declaring file keeps its own classification; each route becomes a page
// rendered by the named component.
func (c *Classifier) routePages(path string, analysis *fileAnalysis) []*types.PageInfo {
	var pages []*types.PageInfo
	for _, decl := range analysis.RouteDecls {
		page := &types.PageInfo{
			Route:            reactRouterRoute(decl.Path),
			FileName:         filepath.Base(path),
			FilePath:         path,
			Components:       []string{},
			LinksTo:          []string{},
			DataDependencies: []types.DataDependency{},
		}
		if decl.Component != "" {
			page.Components = append(page.Components, decl.Component)
		}
		pages = append(pages, page)
	}
	return pages
}

func (c *Classifier) classifyHook(path string, analysis *fileAnalysis) *types.HookInfo {
	for _, fn := range analysis.Functions {
		if (fn.IsExported || fn.IsDefault) && isHookName(fn.Name) {
			return &types.HookInfo{
				Name:         fn.Name,
				FilePath:     path,
				Dependencies: []string{},
				UsedIn:       []string{},
			}
		}
	}
	return nil
}

func (c *Classifier) classifyContext(path string, analysis *fileAnalysis) *types.ContextInfo {
	if !analysis.HasCreateContext {
		return nil
	}
	info := &types.ContextInfo{FilePath: path, UsedIn: []string{}}
	if len(analysis.ContextVars) > 0 {
		info.Name = analysis.ContextVars[0]
	} else {
		info.Name = entityNameFromFile(path)
	}
	for _, name := range allExportNames(analysis) {
		if strings.HasSuffix(name, "Provider") {
			info.ProviderName = name
			break
		}
	}
	return info
}

func (c *Classifier) classifyComponent(path string, analysis *fileAnalysis, content []byte) *types.ComponentInfo {
	fn, ok := pickComponentFunction(analysis)
	if !ok {
		return nil
	}
	name := fn.Name
	if name == "" {
		name = entityNameFromFile(path)
	}
	return &types.ComponentInfo{
		Name:              name,
		FileName:          filepath.Base(path),
		FilePath:          path,
		IsClientComponent: analysis.Facts.HasClientDirective,
		Props:             extractProps(fn, analysis.TypeDecls, content),
		UsedInPages:       []string{},
		UsedInComponents:  []string{},
		DataDependencies:  append([]types.DataDependency{}, analysis.Facts.DataDeps...),
	}
}

// pickComponentFunction selects the file's primary component: the default
// export when it renders JSX, otherwise the first exported PascalCase
// JSX-returning function.
func pickComponentFunction(analysis *fileAnalysis) (funcDecl, bool) {
	for _, fn := range analysis.Functions {
		if fn.IsDefault && fn.HasJSX {
			return fn, true
		}
	}
	for _, fn := range analysis.Functions {
		if fn.IsExported && fn.HasJSX && isPascalCase(fn.Name) {
			return fn, true
		}
	}
	return funcDecl{}, false
}

func (c *Classifier) attachFrameworkDataDeps(analysis *fileAnalysis) {
	for _, name := range analysis.Facts.ExportedNames {
		if frameworkDataFuncs[name] {
			analysis.addDataDep(types.DataDepFrameworkFunc, name)
		}
	}
}

func exportedFunctionNames(analysis *fileAnalysis) []string {
	var names []string
	for _, fn := range analysis.Functions {
		if (fn.IsExported || fn.IsDefault) && fn.Name != "" {
			names = append(names, fn.Name)
		}
	}
	if names == nil {
		names = []string{}
	}
	return names
}

func allExportNames(analysis *fileAnalysis) []string {
	names := append([]string{}, analysis.Facts.ExportedNames...)
	if d := analysis.Facts.DefaultExport; d != "" {
		for _, n := range names {
			if n == d {
				return names
			}
		}
		names = append(names, d)
	}
	return names
}

// entityNameFromFile derives a PascalCase entity name from a file basename.
// index files take the parent directory's name.
func entityNameFromFile(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if base == "index" {
		base = filepath.Base(filepath.Dir(path))
	}
	parts := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if b.Len() == 0 {
		return base
	}
	return b.String()
}

func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// leadingDirectives scans the lines before the first statement for the client
// and server module directives. Comments and blank lines may precede them.
func leadingDirectives(content []byte) (client, server bool) {
	inBlockComment := false
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if inBlockComment {
			if idx := strings.Index(line, "*/"); idx >= 0 {
				line = strings.TrimSpace(line[idx+2:])
				inBlockComment = false
			} else {
				continue
			}
		}
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "/*") {
			if !strings.Contains(line, "*/") {
				inBlockComment = true
			}
			continue
		}
		directive := strings.TrimSuffix(line, ";")
		switch directive {
		case `"use client"`, `'use client'`:
			return true, false
		case `"use server"`, `'use server'`:
			return false, true
		default:
			return false, false
		}
	}
	return false, false
}
