package classify

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/uimap/internal/types"
)

// funcDecl is one function found in a file: a declaration, or a variable bound
// to an arrow/function expression.
type funcDecl struct {
	Name       string
	IsExported bool
	IsDefault  bool
	HasJSX     bool
	// ParamsNode is the formal_parameters node (or single arrow parameter),
	// kept for props extraction.
	ParamsNode *tree_sitter.Node
}

// routeDecl is one react-router route declared in JSX or a router literal.
type routeDecl struct {
	Path      string
	Component string
}

// fileAnalysis is the full syntactic read of one file: serializable facts for
// the resolver plus parser-level detail the classifier consumes immediately.
type fileAnalysis struct {
	Facts             types.FileFacts
	Functions         []funcDecl
	TypeDecls         map[string]*tree_sitter.Node
	ContextVars       []string
	RouteDecls        []routeDecl
	HasCreateContext  bool
}

// orderedSet preserves first-seen order while deduplicating.
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

var queryHookSuffixes = []string{"Query", "Queries", "Mutation", "SWR"}

func isQueryHook(name string) bool {
	if !isHookName(name) {
		return false
	}
	for _, suffix := range queryHookSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return name == "useSWR" || name == "useFetch"
}

// extractAnalysis performs the single syntactic pass over a parsed file.
func extractAnalysis(root *tree_sitter.Node, content []byte) *fileAnalysis {
	a := &fileAnalysis{TypeDecls: make(map[string]*tree_sitter.Node)}

	jsxTags := newOrderedSet()
	calledIdents := newOrderedSet()
	navTargets := newOrderedSet()
	exported := newOrderedSet()

	walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			a.extractImport(n, content)

		case "export_statement":
			a.extractExport(n, content, exported)

		case "function_declaration", "generator_function_declaration":
			a.recordFunction(n, content)

		case "variable_declarator":
			a.recordVariableFunction(n, content)

		case "interface_declaration", "type_alias_declaration":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				a.TypeDecls[nodeText(nameNode, content)] = n
			}

		case "jsx_opening_element", "jsx_self_closing_element":
			a.extractJSXElement(n, content, jsxTags, navTargets)

		case "call_expression":
			a.extractCall(n, content, calledIdents, navTargets)
		}
		return true
	})

	a.Facts.JSXTags = jsxTags.items
	a.Facts.CalledIdents = calledIdents.items
	a.Facts.NavTargets = navTargets.items
	a.Facts.ExportedNames = exported.items

	// Mark functions exported through a trailing export clause
	// (export { Button }) after the declaration.
	for i := range a.Functions {
		if exported.seen[a.Functions[i].Name] {
			a.Functions[i].IsExported = true
		}
		if a.Functions[i].Name == a.Facts.DefaultExport {
			a.Functions[i].IsDefault = true
		}
	}

	return a
}

func (a *fileAnalysis) extractImport(n *tree_sitter.Node, content []byte) {
	sourceNode := n.ChildByFieldName("source")
	source, ok := stringValue(sourceNode, content)
	if !ok {
		return
	}
	clause := childByKind(n, "import_clause")
	if clause == nil {
		// Side-effect import (import "./styles.css").
		return
	}
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			a.Facts.Imports = append(a.Facts.Imports, types.ImportBinding{
				LocalName: nodeText(child, content),
				Source:    source,
			})
		case "namespace_import":
			if ident := childByKind(child, "identifier"); ident != nil {
				a.Facts.Imports = append(a.Facts.Imports, types.ImportBinding{
					LocalName: nodeText(ident, content),
					Source:    source,
				})
			}
		case "named_imports":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				// The local binding is the alias when present, otherwise the
				// imported name itself: last identifier child either way.
				var local string
				for k := uint(0); k < spec.ChildCount(); k++ {
					if sc := spec.Child(k); sc != nil && sc.Kind() == "identifier" {
						local = nodeText(sc, content)
					}
				}
				if local != "" {
					a.Facts.Imports = append(a.Facts.Imports, types.ImportBinding{
						LocalName: local,
						Source:    source,
					})
				}
			}
		}
	}
}

func (a *fileAnalysis) extractExport(n *tree_sitter.Node, content []byte, exported *orderedSet) {
	isDefault := hasChildWithText(n, content, "default")

	// export default <identifier>;
	if isDefault {
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			switch child.Kind() {
			case "identifier":
				a.Facts.DefaultExport = nodeText(child, content)
			case "function_declaration", "class_declaration":
				if nameNode := child.ChildByFieldName("name"); nameNode != nil {
					a.Facts.DefaultExport = nodeText(nameNode, content)
				}
			case "call_expression":
				// export default memo(Button) / forwardRef(...): use the
				// first identifier argument as the exported component.
				if args := child.ChildByFieldName("arguments"); args != nil {
					if ident := childByKind(args, "identifier"); ident != nil {
						a.Facts.DefaultExport = nodeText(ident, content)
					}
				}
			case "arrow_function", "function_expression", "function":
				// Anonymous default export; the classifier names it from the
				// file.
				params := child.ChildByFieldName("parameters")
				if params == nil {
					params = child.ChildByFieldName("parameter")
				}
				a.Functions = append(a.Functions, funcDecl{
					IsDefault:  true,
					IsExported: true,
					HasJSX:     containsJSX(child.ChildByFieldName("body")),
					ParamsNode: params,
				})
			}
		}
	}

	// export { a, b as c }
	if clause := childByKind(n, "export_clause"); clause != nil {
		for i := uint(0); i < clause.ChildCount(); i++ {
			spec := clause.Child(i)
			if spec == nil || spec.Kind() != "export_specifier" {
				continue
			}
			var local, exportedName string
			for j := uint(0); j < spec.ChildCount(); j++ {
				if sc := spec.Child(j); sc != nil && sc.Kind() == "identifier" {
					name := nodeText(sc, content)
					if local == "" {
						local = name
					}
					exportedName = name
				}
			}
			if exportedName == "default" {
				a.Facts.DefaultExport = local
			} else if exportedName != "" {
				exported.add(exportedName)
			}
		}
		return
	}

	// export const / export function / export class
	for _, kind := range []string{"lexical_declaration", "variable_declaration"} {
		if decl := childByKind(n, kind); decl != nil {
			for i := uint(0); i < decl.ChildCount(); i++ {
				d := decl.Child(i)
				if d == nil || d.Kind() != "variable_declarator" {
					continue
				}
				if nameNode := d.ChildByFieldName("name"); nameNode != nil && nameNode.Kind() == "identifier" {
					exported.add(nodeText(nameNode, content))
				}
			}
		}
	}
	for _, kind := range []string{"function_declaration", "generator_function_declaration", "class_declaration", "abstract_class_declaration", "interface_declaration", "type_alias_declaration", "enum_declaration"} {
		if decl := childByKind(n, kind); decl != nil {
			if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
				name := nodeText(nameNode, content)
				if !isDefault {
					exported.add(name)
				}
			}
		}
	}
}

func (a *fileAnalysis) recordFunction(n *tree_sitter.Node, content []byte) {
	nameNode := n.ChildByFieldName("name")
	name := nodeText(nameNode, content)

	parent := n.Parent()
	isExported := parent != nil && parent.Kind() == "export_statement"
	isDefault := isExported && hasChildWithText(parent, content, "default")

	a.Functions = append(a.Functions, funcDecl{
		Name:       name,
		IsExported: isExported,
		IsDefault:  isDefault,
		HasJSX:     containsJSX(n.ChildByFieldName("body")),
		ParamsNode: n.ChildByFieldName("parameters"),
	})
}

func (a *fileAnalysis) recordVariableFunction(n *tree_sitter.Node, content []byte) {
	valueNode := n.ChildByFieldName("value")
	if valueNode == nil {
		return
	}
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil || nameNode.Kind() != "identifier" {
		return
	}
	name := nodeText(nameNode, content)

	fn := valueNode
	switch valueNode.Kind() {
	case "arrow_function", "function_expression", "function", "generator_function":
	case "call_expression":
		// const Button = memo(() => ...) / forwardRef((props, ref) => ...)
		args := valueNode.ChildByFieldName("arguments")
		if args == nil {
			return
		}
		inner := childByKind(args, "arrow_function")
		if inner == nil {
			inner = childByKind(args, "function_expression")
		}
		if inner == nil {
			return
		}
		fn = inner
	default:
		return
	}

	exported := false
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == "export_statement" {
			exported = true
			break
		}
		if p.Kind() == "program" {
			break
		}
	}

	params := fn.ChildByFieldName("parameters")
	if params == nil {
		params = fn.ChildByFieldName("parameter")
	}

	a.Functions = append(a.Functions, funcDecl{
		Name:       name,
		IsExported: exported,
		HasJSX:     containsJSX(fn.ChildByFieldName("body")),
		ParamsNode: params,
	})
}

// linkTagAttrs maps navigation components to the attribute carrying the target.
var linkTagAttrs = map[string]string{
	"Link":    "href",
	"NavLink": "to",
}

func (a *fileAnalysis) extractJSXElement(n *tree_sitter.Node, content []byte, jsxTags, navTargets *orderedSet) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	tag := nodeText(nameNode, content)
	if tag == "" {
		return
	}
	// Compound usages (Dialog.Trigger) count toward the base component.
	base := tag
	if idx := strings.IndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	if isPascalCase(base) {
		jsxTags.add(base)
	}

	switch tag {
	case "Link", "NavLink":
		// next/link and react-router use different target attributes; accept
		// either to stay convention-agnostic.
		if target, ok := a.jsxAttrString(n, content, linkTagAttrs[tag]); ok {
			navTargets.add(target)
		} else if target, ok := a.jsxAttrString(n, content, "href"); ok {
			navTargets.add(target)
		} else if target, ok := a.jsxAttrString(n, content, "to"); ok {
			navTargets.add(target)
		}
	case "Route":
		a.extractRouteElement(n, content)
	}
}

// jsxAttrString returns the static string value of a JSX attribute.
func (a *fileAnalysis) jsxAttrString(n *tree_sitter.Node, content []byte, attr string) (string, bool) {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || child.Kind() != "jsx_attribute" {
			continue
		}
		nameNode := child.Child(0)
		if nameNode == nil || nodeText(nameNode, content) != attr {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			vc := child.Child(j)
			if vc == nil {
				continue
			}
			if v, ok := stringValue(vc, content); ok {
				return v, true
			}
			if vc.Kind() == "jsx_expression" {
				for k := uint(0); k < vc.ChildCount(); k++ {
					if v, ok := stringValue(vc.Child(k), content); ok {
						return v, true
					}
				}
			}
		}
		return "", false
	}
	return "", false
}

// extractRouteElement records a react-router <Route path=... element={<X/>}>.
func (a *fileAnalysis) extractRouteElement(n *tree_sitter.Node, content []byte) {
	path, ok := a.jsxAttrString(n, content, "path")
	if !ok {
		return
	}
	decl := routeDecl{Path: path}

	// element={<Dashboard />} or component={Dashboard}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || child.Kind() != "jsx_attribute" {
			continue
		}
		attrName := nodeText(child.Child(0), content)
		if attrName != "element" && attrName != "component" && attrName != "Component" {
			continue
		}
		walk(child, func(inner *tree_sitter.Node) bool {
			if decl.Component != "" {
				return false
			}
			switch inner.Kind() {
			case "jsx_self_closing_element", "jsx_opening_element":
				if nameNode := inner.ChildByFieldName("name"); nameNode != nil {
					decl.Component = nodeText(nameNode, content)
				}
				return false
			case "identifier":
				name := nodeText(inner, content)
				if isPascalCase(name) {
					decl.Component = name
					return false
				}
			}
			return true
		})
	}

	a.RouteDecls = append(a.RouteDecls, decl)
}

// httpMethods are member calls on an axios-style client treated as fetches.
var httpMethods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true, "patch": true,
}

func (a *fileAnalysis) extractCall(n *tree_sitter.Node, content []byte, calledIdents, navTargets *orderedSet) {
	fnNode := n.ChildByFieldName("function")
	if fnNode == nil {
		return
	}

	switch fnNode.Kind() {
	case "identifier":
		name := nodeText(fnNode, content)
		calledIdents.add(name)

		switch {
		case name == "fetch":
			if url, ok := a.firstStringArg(n, content); ok {
				a.addDataDep(types.DataDepFetch, url)
			}
		case name == "createContext":
			a.recordCreateContext(n, content)
		case name == "createBrowserRouter" || name == "createHashRouter" || name == "createMemoryRouter":
			a.extractRouterLiteral(n, content)
		case name == "navigate" || name == "redirect":
			if target, ok := a.firstStringArg(n, content); ok {
				navTargets.add(target)
			}
		case isQueryHook(name):
			a.addDataDep(types.DataDepQueryHook, name)
		}

	case "member_expression":
		objNode := fnNode.ChildByFieldName("object")
		propNode := fnNode.ChildByFieldName("property")
		obj := nodeText(objNode, content)
		prop := nodeText(propNode, content)

		switch {
		case obj == "axios" && httpMethods[prop]:
			if url, ok := a.firstStringArg(n, content); ok {
				a.addDataDep(types.DataDepFetch, url)
			}
		case obj == "React" && prop == "createContext":
			a.recordCreateContext(n, content)
		case (obj == "router" || obj == "history") && (prop == "push" || prop == "replace"):
			if target, ok := a.firstStringArg(n, content); ok {
				navTargets.add(target)
			}
		}
	}
}

func (a *fileAnalysis) firstStringArg(call *tree_sitter.Node, content []byte) (string, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		child := args.Child(i)
		if child == nil {
			continue
		}
		if v, ok := stringValue(child, content); ok {
			return v, true
		}
		// First real argument wasn't static; don't scan further.
		if child.Kind() != "(" && child.Kind() != "," && child.Kind() != ")" && child.Kind() != "comment" {
			return "", false
		}
	}
	return "", false
}

func (a *fileAnalysis) addDataDep(depType types.DataDependencyType, source string) {
	for _, d := range a.Facts.DataDeps {
		if d.Type == depType && d.Source == source {
			return
		}
	}
	a.Facts.DataDeps = append(a.Facts.DataDeps, types.DataDependency{Type: depType, Source: source})
}

// recordCreateContext tracks const Foo = createContext(...) bindings.
func (a *fileAnalysis) recordCreateContext(call *tree_sitter.Node, content []byte) {
	a.HasCreateContext = true
	parent := call.Parent()
	if parent != nil && parent.Kind() == "variable_declarator" {
		if nameNode := parent.ChildByFieldName("name"); nameNode != nil && nameNode.Kind() == "identifier" {
			a.ContextVars = append(a.ContextVars, nodeText(nameNode, content))
		}
	}
}

// extractRouterLiteral reads path/element pairs from createBrowserRouter
// object literals.
func (a *fileAnalysis) extractRouterLiteral(call *tree_sitter.Node, content []byte) {
	walk(call, func(n *tree_sitter.Node) bool {
		if n.Kind() != "object" {
			return true
		}
		var decl routeDecl
		for i := uint(0); i < n.ChildCount(); i++ {
			pair := n.Child(i)
			if pair == nil || pair.Kind() != "pair" {
				continue
			}
			key := nodeText(pair.ChildByFieldName("key"), content)
			valueNode := pair.ChildByFieldName("value")
			switch key {
			case "path":
				if v, ok := stringValue(valueNode, content); ok {
					decl.Path = v
				}
			case "element", "Component":
				walk(valueNode, func(inner *tree_sitter.Node) bool {
					if decl.Component != "" {
						return false
					}
					switch inner.Kind() {
					case "jsx_self_closing_element", "jsx_opening_element":
						decl.Component = nodeText(inner.ChildByFieldName("name"), content)
						return false
					case "identifier":
						if name := nodeText(inner, content); isPascalCase(name) {
							decl.Component = name
							return false
						}
					}
					return true
				})
			}
		}
		if decl.Path != "" {
			a.RouteDecls = append(a.RouteDecls, decl)
		}
		return true
	})
}
