package types

// EntityKind tags the classification outcome for one walked file.
// Classification is total: every file yields exactly one kind, where
// KindSkipped means the file was dropped with a warning.
type EntityKind int

const (
	KindSkipped EntityKind = iota
	KindPage
	KindComponent
	KindHook
	KindContext
	KindUtility
	KindServerActionFile
)

func (k EntityKind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindComponent:
		return "component"
	case KindHook:
		return "hook"
	case KindContext:
		return "context"
	case KindUtility:
		return "utility"
	case KindServerActionFile:
		return "server-action-file"
	default:
		return "skipped"
	}
}

// ImportBinding records one imported name and the module specifier it came from.
// Default imports carry the local binding name; namespace imports the alias.
type ImportBinding struct {
	LocalName string
	Source    string
}

// FileFacts holds everything the reference resolver needs about one file's body,
// extracted during classification so the resolver never re-reads sources.
// JSXTags and CalledIdents keep first-seen order; duplicates are removed.
type FileFacts struct {
	Imports       []ImportBinding
	ExportedNames []string
	DefaultExport string

	// JSXTags are PascalCase element names rendered by this file.
	JSXTags []string
	// CalledIdents are bare identifiers invoked as functions.
	CalledIdents []string
	// NavTargets are static navigation targets from Link/NavLink elements and
	// router.push/navigate/redirect calls. Dynamic targets are omitted.
	NavTargets []string
	// DataDeps are the locally detectable data dependencies (fetch URLs,
	// query-hook calls, framework data functions). Server-action edges are
	// completed by the resolver once the action-file universe is known.
	DataDeps []DataDependency

	HasClientDirective bool
	HasServerDirective bool
}

// ClassifiedFile is the per-file output of the classifier: exactly one entity
// payload populated according to Kind, plus the body facts for edge resolution.
// WalkOrder preserves the deterministic walk position for last-wins collision
// handling during assembly.
type ClassifiedFile struct {
	Kind      EntityKind
	FilePath  string
	WalkOrder int

	Page         *PageInfo
	// ExtraPages carries react-router routes declared inside a component file
	// (<Route> elements or createBrowserRouter literals) alongside the file's
	// own entity.
	ExtraPages   []*PageInfo
	Component    *ComponentInfo
	Hook         *HookInfo
	Context      *ContextInfo
	Utility      *UtilityInfo
	ServerAction *ServerActionFile

	Facts    FileFacts
	Warnings []Warning
}
