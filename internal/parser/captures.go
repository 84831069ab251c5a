// Copyright 2026 The GitAI Authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/gitai-dev/gitai/internal/queryreg"
)

func (m *Manager) captureFunctions(lang Language, grammar *sitter.Language, root *sitter.Node, content []byte, out *StructuralSummary) error {
	q, err := m.registry.Compiled(string(lang), queryreg.KindFunction, grammar)
	if err != nil {
		return err
	}
	if q == nil {
		return nil
	}

	forEachMatch(q, root, func(captures map[string]*sitter.Node) {
		decl := captures["function.definition"]
		nameNode := captures["function.name"]
		if decl == nil || nameNode == nil {
			return
		}
		fn := Function{
			Name:       nodeText(nameNode, content),
			StartLine:  int(decl.StartPoint().Row) + 1,
			EndLine:    int(decl.EndPoint().Row) + 1,
			Visibility: visibilityFor(lang, nodeText(nameNode, content)),
		}
		if p := captures["function.parameters"]; p != nil {
			fn.Parameters = splitParams(lang, nodeText(p, content))
		}
		if r := captures["function.return_type"]; r != nil {
			fn.ReturnType = nodeText(r, content)
		}
		fn.IsAsync = declIsAsync(decl, content)
		out.Functions = append(out.Functions, fn)
	})
	return nil
}

func (m *Manager) captureClasses(lang Language, grammar *sitter.Language, root *sitter.Node, content []byte, out *StructuralSummary) error {
	q, err := m.registry.Compiled(string(lang), queryreg.KindClass, grammar)
	if err != nil {
		return err
	}
	if q == nil {
		return nil
	}

	forEachMatch(q, root, func(captures map[string]*sitter.Node) {
		decl := captures["class.definition"]
		nameNode := captures["class.name"]
		if decl == nil || nameNode == nil {
			return
		}
		cls := Class{
			Name:      nodeText(nameNode, content),
			StartLine: int(decl.StartPoint().Row) + 1,
			EndLine:   int(decl.EndPoint().Row) + 1,
		}
		if s := captures["class.extends"]; s != nil {
			cls.Superclass = nodeText(s, content)
		}
		if i := captures["class.implements"]; i != nil {
			cls.Interfaces = append(cls.Interfaces, nodeText(i, content))
		}
		cls.Methods, cls.Fields = membersWithinDecl(decl, content, out.Functions)
		out.Classes = append(out.Classes, cls)
	})
	return nil
}

func (m *Manager) captureComments(lang Language, grammar *sitter.Language, root *sitter.Node, content []byte, out *StructuralSummary) error {
	q, err := m.registry.Compiled(string(lang), queryreg.KindComment, grammar)
	if err != nil {
		return err
	}
	if q == nil {
		return nil
	}

	forEachMatch(q, root, func(captures map[string]*sitter.Node) {
		node := captures["comment"]
		if node == nil {
			return
		}
		text := nodeText(node, content)
		out.Comments = append(out.Comments, Comment{
			Text:        text,
			Line:        int(node.StartPoint().Row) + 1,
			IsDocComment: isDocComment(lang, text, node, root),
		})
	})
	return nil
}

func (m *Manager) captureCalls(lang Language, grammar *sitter.Language, root *sitter.Node, content []byte, out *StructuralSummary) error {
	q, err := m.registry.Compiled(string(lang), queryreg.KindCall, grammar)
	if err != nil {
		return err
	}
	if q == nil {
		return nil
	}

	forEachMatch(q, root, func(captures map[string]*sitter.Node) {
		callee := captures["call.callee"]
		expr := captures["call.expression"]
		if callee == nil || expr == nil {
			return
		}
		out.Calls = append(out.Calls, Call{
			Callee:      nodeText(callee, content),
			Line:        int(expr.StartPoint().Row) + 1,
			IsMethodCall: isMethodCallee(expr, content),
		})
	})
	return nil
}

// forEachMatch runs q against root and invokes fn once per match, with
// captures indexed by their query capture name.
func forEachMatch(q *sitter.Query, root *sitter.Node, fn func(captures map[string]*sitter.Node)) {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, root)

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		captures := make(map[string]*sitter.Node, len(match.Captures))
		for _, c := range match.Captures {
			captures[q.CaptureNameForId(c.Index)] = c.Node
		}
		fn(captures)
	}
}

func nodeText(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return string(content[n.StartByte():n.EndByte()])
}

// isMethodCallee reports whether a call's callee expression text (the
// function operand when the grammar names one, else the whole call)
// contains "." or "::".
func isMethodCallee(expr *sitter.Node, content []byte) bool {
	text := nodeText(expr, content)
	if fn := expr.ChildByFieldName("function"); fn != nil {
		text = nodeText(fn, content)
	}
	return strings.Contains(text, ".") || strings.Contains(text, "::")
}

func declIsAsync(decl *sitter.Node, content []byte) bool {
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		if child.Type() == "async" || nodeText(child, content) == "async" {
			return true
		}
	}
	return false
}

func visibilityFor(lang Language, name string) Visibility {
	if lang == LanguageGo {
		if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
			return VisibilityPublic
		}
		return VisibilityPrivate
	}
	if len(name) > 0 && name[0] == '_' {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

func splitParams(lang Language, raw string) []string {
	if raw == "" {
		return nil
	}
	trimmed := trimOuterParens(raw)
	if trimmed == "" {
		return nil
	}
	return splitTopLevel(trimmed, ',')
}

func trimOuterParens(s string) string {
	if len(s) >= 2 && (s[0] == '(' || s[0] == '[') {
		return s[1 : len(s)-1]
	}
	return s
}

// splitTopLevel splits s on sep, ignoring seps nested inside (), [], {}
// and <> (a '>' that follows '=' or '-' is an arrow, not a closer).
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}':
			depth--
		case '>':
			if i > 0 && (s[i-1] == '=' || s[i-1] == '-') {
				continue
			}
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, trimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if start < len(s) {
		parts = append(parts, trimSpace(s[start:]))
	}
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// isDocComment reports whether a comment is a doc comment: its text starts
// with `///`, `//!` or `/**`, or it immediately precedes a function or
// class declaration with no blank line between them — the common
// convention across Go doc comments, JSDoc, Python docstrings-as-comments
// and Rustdoc `///` blocks.
func isDocComment(lang Language, text string, node, root *sitter.Node) bool {
	if strings.HasPrefix(text, "///") || strings.HasPrefix(text, "//!") || strings.HasPrefix(text, "/**") {
		return true
	}
	parent := node.Parent()
	if parent == nil {
		return false
	}
	idx := -1
	for i := 0; i < int(parent.ChildCount()); i++ {
		if parent.Child(i) == node {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= int(parent.ChildCount()) {
		return false
	}
	next := parent.Child(idx + 1)
	switch next.Type() {
	case "function_declaration", "method_declaration", "function_definition",
		"class_declaration", "class_definition", "function_item", "struct_item",
		"trait_item", "class_specifier", "interface_declaration":
		return next.StartPoint().Row-node.EndPoint().Row <= 1
	}
	return false
}

// membersWithinDecl splits previously-captured functions into those whose
// line range falls inside the class declaration's range (methods) versus
// leaves field declarations to the caller's class-specific capture (left
// empty here; most grammars expose fields only via language-specific
// queries not yet modeled).
func membersWithinDecl(decl *sitter.Node, content []byte, functions []Function) (methods []string, fields []string) {
	start := int(decl.StartPoint().Row) + 1
	end := int(decl.EndPoint().Row) + 1
	for _, fn := range functions {
		if fn.StartLine >= start && fn.EndLine <= end {
			methods = append(methods, fn.Name)
		}
	}
	return methods, nil
}

func extractImports(lang Language, root *sitter.Node, content []byte) []string {
	var imports []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_spec": // Go
			if path := n.ChildByFieldName("path"); path != nil {
				imports = append(imports, unquote(nodeText(path, content)))
			}
		case "import_statement", "import_declaration": // JS/TS/Java
			imports = append(imports, nodeText(n, content))
		case "import_from_statement": // Python
			imports = append(imports, nodeText(n, content))
		case "use_declaration": // Rust
			imports = append(imports, nodeText(n, content))
		case "preproc_include": // C/C++
			imports = append(imports, nodeText(n, content))
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	_ = lang
	return imports
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}
