package classify

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// walk visits node and its children depth-first. The visitor returns false to
// prune the subtree below the current node.
func walk(node *tree_sitter.Node, visit func(*tree_sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil {
			walk(child, visit)
		}
	}
}

// nodeText returns the source text of node.
func nodeText(node *tree_sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start >= end || end > uint(len(content)) {
		return ""
	}
	return string(content[start:end])
}

// childByKind returns the first direct child of the given kind.
func childByKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// hasChildWithText reports whether node has a direct child with exactly text.
func hasChildWithText(node *tree_sitter.Node, content []byte, text string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && nodeText(child, content) == text {
			return true
		}
	}
	return false
}

// stringValue extracts a static string value from a "string" node or a
// "template_string" without substitutions. Returns "", false for dynamic
// values; unresolvable targets are ignored, never guessed.
func stringValue(node *tree_sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case "string":
		text := nodeText(node, content)
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
		return "", false
	case "template_string":
		if childByKind(node, "template_substitution") != nil {
			return "", false
		}
		text := nodeText(node, content)
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
		return "", false
	}
	return "", false
}

// containsJSX reports whether the subtree renders any JSX.
func containsJSX(node *tree_sitter.Node) bool {
	found := false
	walk(node, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			found = true
		}
		return !found
	})
	return found
}

// isPascalCase reports whether name begins with an uppercase ASCII letter.
func isPascalCase(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// isHookName reports whether name follows the custom-hook convention (use
// followed by an uppercase letter).
func isHookName(name string) bool {
	return len(name) > 3 && strings.HasPrefix(name, "use") && name[3] >= 'A' && name[3] <= 'Z'
}
