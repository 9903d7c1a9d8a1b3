package classify

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/uimap/internal/types"
)

// extractProps derives the prop list of a component from its first parameter.
// A named props type is resolved against same-file interface and type-alias
// declarations; destructured parameters without annotations yield props typed
// "unknown". Cross-file prop types are out of reach and produce no props.
func extractProps(fn funcDecl, typeDecls map[string]*tree_sitter.Node, content []byte) []types.PropInfo {
	param := firstParameter(fn.ParamsNode)
	if param == nil {
		return nil
	}

	// Annotated parameter: follow the type.
	if annotation := param.ChildByFieldName("type"); annotation != nil {
		if typeNode := annotationType(annotation); typeNode != nil {
			switch typeNode.Kind() {
			case "type_identifier":
				if decl, ok := typeDecls[nodeText(typeNode, content)]; ok {
					return propsFromTypeDecl(decl, content)
				}
				return nil
			case "object_type":
				return propsFromObjectType(typeNode, content)
			}
		}
		return nil
	}

	// Unannotated destructuring: names only.
	pattern := param
	if inner := param.ChildByFieldName("pattern"); inner != nil {
		pattern = inner
	}
	if pattern.Kind() != "object_pattern" {
		return nil
	}
	var props []types.PropInfo
	for i := uint(0); i < pattern.ChildCount(); i++ {
		child := pattern.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "shorthand_property_identifier_pattern":
			props = append(props, types.PropInfo{Name: nodeText(child, content), Type: "unknown", Required: true})
		case "object_assignment_pattern":
			// { size = "md" }: a default makes the prop optional.
			if left := child.ChildByFieldName("left"); left != nil {
				props = append(props, types.PropInfo{Name: nodeText(left, content), Type: "unknown", Required: false})
			}
		case "pair_pattern":
			if key := child.ChildByFieldName("key"); key != nil {
				props = append(props, types.PropInfo{Name: nodeText(key, content), Type: "unknown", Required: true})
			}
		}
	}
	return props
}

// firstParameter returns the first parameter node of a formal_parameters list,
// or the node itself for a single bare arrow parameter.
func firstParameter(params *tree_sitter.Node) *tree_sitter.Node {
	if params == nil {
		return nil
	}
	if params.Kind() != "formal_parameters" {
		return params
	}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "required_parameter", "optional_parameter", "identifier", "object_pattern":
			return child
		}
	}
	return nil
}

// annotationType unwraps a type_annotation node to the type itself.
func annotationType(annotation *tree_sitter.Node) *tree_sitter.Node {
	for i := uint(0); i < annotation.ChildCount(); i++ {
		child := annotation.Child(i)
		if child != nil && child.Kind() != ":" {
			return child
		}
	}
	return nil
}

// propsFromTypeDecl reads props off an interface or type-alias declaration.
func propsFromTypeDecl(decl *tree_sitter.Node, content []byte) []types.PropInfo {
	switch decl.Kind() {
	case "interface_declaration":
		if body := decl.ChildByFieldName("body"); body != nil {
			return propsFromObjectType(body, content)
		}
	case "type_alias_declaration":
		if value := decl.ChildByFieldName("value"); value != nil && value.Kind() == "object_type" {
			return propsFromObjectType(value, content)
		}
	}
	return nil
}

// propsFromObjectType reads property signatures from an object_type or
// interface_body node.
func propsFromObjectType(body *tree_sitter.Node, content []byte) []types.PropInfo {
	var props []types.PropInfo
	for i := uint(0); i < body.ChildCount(); i++ {
		sig := body.Child(i)
		if sig == nil || sig.Kind() != "property_signature" {
			continue
		}
		nameNode := sig.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		prop := types.PropInfo{
			Name:     nodeText(nameNode, content),
			Type:     "unknown",
			Required: !hasChildWithText(sig, content, "?"),
		}
		if annotation := sig.ChildByFieldName("type"); annotation != nil {
			if typeNode := annotationType(annotation); typeNode != nil {
				prop.Type = nodeText(typeNode, content)
			}
		}
		props = append(props, prop)
	}
	return props
}
