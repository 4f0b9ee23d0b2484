// Package parser turns Python source text into a syntax tree with exact
// source-span recovery for every node.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SyntaxError reports the position of the first unparseable construct.
type SyntaxError struct {
	Line   int // 1-based
	Column int // 1-based
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d", e.Line, e.Column)
}

// Tree is a parsed Python module. It keeps the source alongside the
// tree-sitter tree so node spans can be resolved back to the exact text
// they were parsed from.
type Tree struct {
	source []byte
	tree   *sitter.Tree
}

// RootNode returns the module node whose children are the top-level statements.
func (t *Tree) RootNode() *sitter.Node {
	return t.tree.RootNode()
}

// Content returns the exact substring of the original source covered by node.
func (t *Tree) Content(node *sitter.Node) string {
	return node.Content(t.source)
}

// Source returns the raw text the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// Close releases the underlying tree-sitter tree. The Tree must not be used
// afterwards.
func (t *Tree) Close() {
	t.tree.Close()
}

// Parser parses Python source files. A Parser is not safe for concurrent
// use; construct one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser for the Python grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses source into a syntax tree. It returns a *SyntaxError when the
// text is not valid Python; there is no partial recovery.
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		pt := root.StartPoint()
		if bad := firstErrorNode(root); bad != nil {
			pt = bad.StartPoint()
		}
		tree.Close()
		return nil, &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
	}

	return &Tree{source: source, tree: tree}, nil
}

// firstErrorNode finds the leftmost ERROR or missing node.
func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
