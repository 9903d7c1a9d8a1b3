package router

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/t14raptor/go-fast/ast"
	"github.com/t14raptor/go-fast/parser"
)

// configFiles are bundler configs that may pull in a router library when the
// dependency manifest alone is inconclusive (e.g. workspace-hoisted deps).
var configFiles = []string{
	"vite.config.js",
	"vite.config.cjs",
	"next.config.js",
	"next.config.cjs",
	"webpack.config.js",
}

// configReferencesRouter parses bundler config files for react-router
// requires. Configs are frequently CommonJS, which go-fast handles directly;
// a parse failure (ESM config) falls back to a plain text scan.
func configReferencesRouter(root string) bool {
	for _, name := range configFiles {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		content := string(data)

		program, err := parser.ParseFile(content)
		if err != nil {
			// ESM or syntax go-fast can't handle; degrade to a text scan.
			if strings.Contains(content, "react-router") {
				return true
			}
			continue
		}
		for _, stmt := range program.Body {
			if statementRequiresRouter(stmt.Stmt) {
				return true
			}
		}
	}
	return false
}

func statementRequiresRouter(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		for _, decl := range s.List {
			if decl.Initializer != nil && expressionRequiresRouter(decl.Initializer.Expr) {
				return true
			}
		}
	case *ast.ExpressionStatement:
		if s.Expression != nil && expressionRequiresRouter(s.Expression.Expr) {
			return true
		}
	}
	return false
}

func expressionRequiresRouter(expr ast.Expr) bool {
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		return false
	}
	ident, ok := call.Callee.Expr.(*ast.Identifier)
	if !ok || ident.Name != "require" {
		return false
	}
	for _, arg := range call.ArgumentList {
		if lit, ok := arg.Expr.(*ast.StringLiteral); ok {
			if strings.Contains(lit.Value, "react-router") {
				return true
			}
		}
	}
	return false
}
