// Package extractor walks a parsed Python module and collects its docstring,
// top-level functions, and classes with their direct methods.
package extractor

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Jef808/pyextract/internal/parser"
)

// statementKind is the closed set of top-level statement classifications.
// Anything that is not a definition is ignored and never traversed.
type statementKind int

const (
	kindFunctionDef statementKind = iota
	kindClassDef
	kindOther
)

// classify maps a tree-sitter statement node to its kind, unwrapping
// decorated definitions to the definition they wrap.
func classify(node *sitter.Node) (statementKind, *sitter.Node) {
	if node.Type() == "decorated_definition" {
		if def := node.ChildByFieldName("definition"); def != nil {
			node = def
		}
	}
	switch node.Type() {
	case "function_definition":
		return kindFunctionDef, node
	case "class_definition":
		return kindClassDef, node
	default:
		return kindOther, node
	}
}

// Extract builds the Module record for a parsed source file. Statements are
// visited in source order; only the top level and, for classes, the first
// level of the class body are examined.
func Extract(tree *parser.Tree) *Module {
	mod := &Module{
		Docstring: blockDocstring(tree.RootNode(), tree),
		Functions: []Function{},
		Classes:   []Class{},
	}

	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		switch kind, def := classify(child); kind {
		case kindFunctionDef:
			mod.Functions = append(mod.Functions, extractFunction(def, tree))
		case kindClassDef:
			mod.Classes = append(mod.Classes, extractClass(def, tree))
		case kindOther:
			// imports, assignments, control flow: nothing to record
		}
	}

	return mod
}

// extractFunction builds a Function record from a function_definition node.
func extractFunction(node *sitter.Node, tree *parser.Tree) Function {
	fn := Function{
		Content: tree.Content(node),
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		fn.Name = tree.Content(nameNode)
	}
	fn.Docstring = blockDocstring(node.ChildByFieldName("body"), tree)
	return fn
}

// extractClass builds a Class record from a class_definition node.
func extractClass(node *sitter.Node, tree *parser.Tree) Class {
	cls := Class{
		Bases:   []string{},
		Methods: []Function{},
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		cls.Name = tree.Content(nameNode)
	}
	cls.Bases = extractBases(node.ChildByFieldName("superclasses"), tree)

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	cls.Docstring = blockDocstring(body, tree)

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if kind, def := classify(child); kind == kindFunctionDef {
			cls.Methods = append(cls.Methods, extractFunction(def, tree))
		}
	}

	return cls
}

// extractBases reads the class header's argument list. A simple name yields
// its identifier text; any other base expression falls back to its full
// source text. Keyword arguments (metaclass=...) are not bases.
func extractBases(args *sitter.Node, tree *parser.Tree) []string {
	bases := []string{}
	if args == nil {
		return bases
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		switch child.Type() {
		case "comment", "keyword_argument":
			continue
		default:
			bases = append(bases, tree.Content(child))
		}
	}
	return bases
}

// blockDocstring returns the docstring of a module or block node: the value
// of its first statement when that statement is a bare string literal, nil
// otherwise. Only the first statement is ever considered.
func blockDocstring(block *sitter.Node, tree *parser.Tree) *string {
	if block == nil {
		return nil
	}
	var first *sitter.Node
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		first = child
		break
	}
	if first == nil || first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return nil
	}

	expr := first.NamedChild(0)
	switch expr.Type() {
	case "string":
		value := cleanDocstring(stringValue(tree.Content(expr)))
		return &value
	case "concatenated_string":
		var sb strings.Builder
		for i := 0; i < int(expr.NamedChildCount()); i++ {
			part := expr.NamedChild(i)
			if part.Type() == "string" {
				sb.WriteString(stringValue(tree.Content(part)))
			}
		}
		value := cleanDocstring(sb.String())
		return &value
	}
	return nil
}

// stringValue converts a string literal's raw text into its string value:
// quote delimiters removed and escape sequences interpreted, unless the
// literal carries a raw prefix.
func stringValue(raw string) string {
	var prefix string
	for len(raw) > 0 && strings.ContainsRune("rRbBuUfF", rune(raw[0])) {
		prefix += string(raw[0])
		raw = raw[1:]
	}
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(raw) >= 2*len(q) && strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) {
			raw = raw[len(q) : len(raw)-len(q)]
			break
		}
	}
	if strings.ContainsAny(prefix, "rR") {
		return raw
	}
	return unescape(raw)
}

// unescape interprets Python escape sequences. Unrecognized escapes keep
// their backslash, as Python leaves them.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			i++
			continue
		}
		i++
		switch c := s[i]; c {
		case '\n':
			i++ // line continuation
		case '\\', '\'', '"':
			sb.WriteByte(c)
			i++
		case 'a':
			sb.WriteByte('\a')
			i++
		case 'b':
			sb.WriteByte('\b')
			i++
		case 'f':
			sb.WriteByte('\f')
			i++
		case 'n':
			sb.WriteByte('\n')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case 'v':
			sb.WriteByte('\v')
			i++
		case 'x':
			i += writeHexEscape(&sb, s[i+1:], 2, 'x')
		case 'u':
			i += writeHexEscape(&sb, s[i+1:], 4, 'u')
		case 'U':
			i += writeHexEscape(&sb, s[i+1:], 8, 'U')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			value, digits := 0, 0
			for digits < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7' {
				value = value*8 + int(s[i]-'0')
				digits++
				i++
			}
			sb.WriteByte(byte(value))
		default:
			sb.WriteByte('\\')
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// writeHexEscape consumes width hex digits after a \x, \u, or \U marker and
// returns how many input bytes were used (marker included). A malformed
// escape is kept literally.
func writeHexEscape(sb *strings.Builder, s string, width int, marker byte) int {
	if len(s) >= width {
		if value, err := strconv.ParseUint(s[:width], 16, 32); err == nil {
			sb.WriteRune(rune(value))
			return 1 + width
		}
	}
	sb.WriteByte('\\')
	sb.WriteByte(marker)
	return 1
}

// cleanDocstring normalizes a docstring's whitespace the way CPython's
// ast.get_docstring does (inspect.cleandoc, minus tab expansion): the first
// line loses its leading whitespace, later lines lose their common
// indentation, and blank lines at both ends are dropped.
func cleanDocstring(doc string) string {
	lines := strings.Split(doc, "\n")

	margin := -1
	for _, line := range lines[1:] {
		stripped := strings.TrimLeft(line, " \t")
		if stripped == "" {
			continue
		}
		if indent := len(line) - len(stripped); margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " \t")
	if margin > 0 {
		for i, line := range lines[1:] {
			if len(line) >= margin {
				lines[i+1] = line[margin:]
			} else {
				lines[i+1] = strings.TrimLeft(line, " \t")
			}
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}

	return strings.Join(lines, "\n")
}
