// Package classify turns walked source files into typed entities: pages,
// components, hooks, contexts, utilities and server-action files. It parses
// with tree-sitter grammars for the JS/TS family and never type-checks.
package classify

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Parser wraps per-extension tree-sitter parsers. A Parser is not safe for
// concurrent use; each classification worker owns one.
type Parser struct {
	parsers   map[string]*tree_sitter.Parser
	languages map[string]*tree_sitter.Language
}

// NewParser creates parsers for .js/.jsx (JavaScript grammar, JSX included),
// .ts (TypeScript) and .tsx (TSX).
func NewParser() *Parser {
	p := &Parser{
		parsers:   make(map[string]*tree_sitter.Parser, 4),
		languages: make(map[string]*tree_sitter.Language, 4),
	}
	p.setup(tree_sitter.NewLanguage(tree_sitter_javascript.Language()), ".js", ".jsx")
	p.setup(tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()), ".ts")
	p.setup(tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()), ".tsx")
	return p
}

func (p *Parser) setup(language *tree_sitter.Language, exts ...string) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(language); err != nil {
		return
	}
	for _, ext := range exts {
		p.parsers[ext] = parser
		p.languages[ext] = language
	}
}

// Supports reports whether files with the given extension can be parsed.
func (p *Parser) Supports(ext string) bool {
	_, ok := p.parsers[ext]
	return ok
}

// Parse parses content for the given extension. Returns nil when the extension
// is unsupported or parsing produced no tree. Callers must Close the tree.
func (p *Parser) Parse(ext string, content []byte) *tree_sitter.Tree {
	parser, ok := p.parsers[ext]
	if !ok {
		return nil
	}
	// Tree-sitter mutates input buffers via CGO; parse a defensive copy.
	buf := make([]byte, len(content))
	copy(buf, content)
	return parser.Parse(buf, nil)
}

// Close releases the underlying parsers.
func (p *Parser) Close() {
	seen := make(map[*tree_sitter.Parser]bool, len(p.parsers))
	for _, parser := range p.parsers {
		if !seen[parser] {
			seen[parser] = true
			parser.Close()
		}
	}
}
