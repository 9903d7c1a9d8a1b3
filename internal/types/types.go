// Package types defines the entity model produced by a scan. The JSON shape of
// ScanResult is a published contract: the HTTP gateway, the editor tree view and
// the prompt generator all consume these field names verbatim.
package types

import "time"

// RouterType identifies the routing convention detected for a project.
type RouterType string

const (
	RouterNextJSApp   RouterType = "nextjs-app"
	RouterNextJSPages RouterType = "nextjs-pages"
	RouterReactRouter RouterType = "react-router"
	RouterUnknown     RouterType = "unknown"
)

// Framework identifies the build/runtime framework of a project.
type Framework string

const (
	FrameworkNextJS  Framework = "nextjs"
	FrameworkVite    Framework = "vite"
	FrameworkReact   Framework = "react"
	FrameworkUnknown Framework = "unknown"
)

// DataDependencyType tags the category of a data dependency.
type DataDependencyType string

const (
	DataDepFetch         DataDependencyType = "fetch"
	DataDepServerAction  DataDependencyType = "server-action"
	DataDepFrameworkFunc DataDependencyType = "framework-data-function"
	DataDepQueryHook     DataDependencyType = "query-hook"
)

// DataDependency records one data-loading edge of a page or component.
type DataDependency struct {
	Type   DataDependencyType `json:"type"`
	Source string             `json:"source"`
}

// PropInfo describes one declared prop of a component.
// Type is the textual type signature as written; unannotated props use "unknown".
type PropInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// PageInfo describes one route-bearing file. At most one of IsLayout, IsLoading
// and IsError is true; a plain page has all three false.
type PageInfo struct {
	Route            string           `json:"route"`
	FileName         string           `json:"fileName"`
	FilePath         string           `json:"filePath"`
	IsLayout         bool             `json:"isLayout"`
	IsLoading        bool             `json:"isLoading"`
	IsError          bool             `json:"isError"`
	Components       []string         `json:"components"`
	LinksTo          []string         `json:"linksTo"`
	DataDependencies []DataDependency `json:"dataDependencies"`
}

// ComponentInfo describes one React component. UsedInPages and UsedInComponents
// are derived during assembly from the forward edges of referencing entities and
// must never be authored independently.
type ComponentInfo struct {
	Name              string           `json:"name"`
	FileName          string           `json:"fileName"`
	FilePath          string           `json:"filePath"`
	IsClientComponent bool             `json:"isClientComponent"`
	Props             []PropInfo       `json:"props"`
	UsedInPages       []string         `json:"usedInPages"`
	UsedInComponents  []string         `json:"usedInComponents"`
	DataDependencies  []DataDependency `json:"dataDependencies"`
}

// HookInfo describes one custom hook (exported function named use*).
type HookInfo struct {
	Name         string   `json:"name"`
	FilePath     string   `json:"filePath"`
	Dependencies []string `json:"dependencies"`
	UsedIn       []string `json:"usedIn"`
}

// ContextInfo describes a React context together with its provider component.
type ContextInfo struct {
	Name         string   `json:"name"`
	ProviderName string   `json:"providerName"`
	FilePath     string   `json:"filePath"`
	UsedIn       []string `json:"usedIn"`
}

// UtilityInfo describes a module of exported helper functions or constants.
type UtilityInfo struct {
	Name     string   `json:"name"`
	FilePath string   `json:"filePath"`
	Exports  []string `json:"exports"`
	UsedIn   []string `json:"usedIn"`
}

// ServerActionFile is a lightweight record of a file carrying the server
// directive; it is not a full entity.
type ServerActionFile struct {
	FilePath string   `json:"filePath"`
	Actions  []string `json:"actions"`
}

// WarningCode classifies a non-fatal degradation recorded during a scan.
type WarningCode string

const (
	WarnFileRead        WarningCode = "file-read"
	WarnUnclassifiable  WarningCode = "unclassifiable"
	WarnNameCollision   WarningCode = "name-collision"
	WarnCaseMismatch    WarningCode = "case-mismatch"
	WarnAmbiguousName   WarningCode = "ambiguous-name"
	WarnCacheRead       WarningCode = "cache-read"
	WarnCacheWrite      WarningCode = "cache-write"
	WarnRouteDerivation WarningCode = "route-derivation"
)

// Warning records one degraded condition. A scan that dropped anything always
// carries the matching warnings, so a partial result is never silent.
type Warning struct {
	Code   WarningCode `json:"code"`
	Path   string      `json:"path,omitempty"`
	Detail string      `json:"detail"`
}

// ScanStats summarizes pipeline work for status display and diagnostics.
type ScanStats struct {
	FilesWalked      int           `json:"filesWalked"`
	FilesClassified  int           `json:"filesClassified"`
	FilesSkipped     int           `json:"filesSkipped"`
	WalkDuration     time.Duration `json:"walkDuration"`
	ClassifyDuration time.Duration `json:"classifyDuration"`
	ResolveDuration  time.Duration `json:"resolveDuration"`
	TotalDuration    time.Duration `json:"totalDuration"`
}

// ScanResult is the whole-snapshot output of one scan. It is assembled once and
// never mutated afterwards; consumers treat it as a value.
type ScanResult struct {
	ProjectPath       string             `json:"projectPath"`
	ProjectName       string             `json:"projectName"`
	Framework         Framework          `json:"framework"`
	RouterType        RouterType         `json:"routerType"`
	ScannedAt         time.Time          `json:"scannedAt"`
	Pages             []PageInfo         `json:"pages"`
	Components        []ComponentInfo    `json:"components"`
	Hooks             []HookInfo         `json:"hooks"`
	Contexts          []ContextInfo      `json:"contexts"`
	Utilities         []UtilityInfo      `json:"utilities"`
	ServerActionFiles []ServerActionFile `json:"serverActionFiles"`
	Warnings          []Warning          `json:"warnings,omitempty"`
	Stats             ScanStats          `json:"stats"`
}

// EntityCount returns the total number of full entities in the snapshot.
func (r *ScanResult) EntityCount() int {
	return len(r.Pages) + len(r.Components) + len(r.Hooks) + len(r.Contexts) + len(r.Utilities)
}
