package cst

import (
	"strings"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Node is a single tree node: a token leaf or an interior node. Nodes are
// built bottom-up by the parser and are immutable once their Tree is
// constructed. Byte spans relate a node to its source region; the tree keeps
// no other reference back into the source.
type Node struct {
	kind     Symbol
	field    Field
	hasError bool

	tree     *Tree
	parent   *Node
	index    int
	children []*Node

	// fullStart and fullEnd extend the lexeme span over adjacent trivia
	// (whitespace between structural tokens, line endings on line-oriented
	// frontmatter tokens). Leaf full spans tile the source exactly.
	fullStart  int
	start, end int
	fullEnd    int
	startPoint tokenizer.Position
	endPoint   tokenizer.Position
}

// Child pairs a node with the field it occupies in its parent, if any.
// The parser assembles interior nodes from Child slices.
type Child struct {
	Field Field
	Node  *Node
}

// NewLeaf builds a leaf node for a single token.
func NewLeaf(kind Symbol, fullStart, start, end, fullEnd int, startPoint, endPoint tokenizer.Position) *Node {
	return &Node{
		kind:       kind,
		hasError:   kind == SymbolError,
		fullStart:  fullStart,
		start:      start,
		end:        end,
		fullEnd:    fullEnd,
		startPoint: startPoint,
		endPoint:   endPoint,
	}
}

// NewNode builds an interior node from ordered children. The node's span is
// the union of its children's spans; an error anywhere below propagates to
// HasError. children must not be empty.
func NewNode(kind Symbol, children []Child) *Node {
	n := &Node{
		kind:     kind,
		hasError: kind == SymbolError,
		children: make([]*Node, len(children)),
	}
	for i, c := range children {
		c.Node.field = c.Field
		n.children[i] = c.Node
		if c.Node.hasError {
			n.hasError = true
		}
	}
	first, last := n.children[0], n.children[len(n.children)-1]
	n.fullStart = first.fullStart
	n.start = first.start
	n.end = last.end
	n.fullEnd = last.fullEnd
	n.startPoint = first.startPoint
	n.endPoint = last.endPoint
	return n
}

// NewMissing builds a zero-width node standing in for a construct the source
// lacks, anchored at the byte offset where it was expected.
func NewMissing(kind Symbol, at int, point tokenizer.Position) *Node {
	return &Node{
		kind:       kind,
		hasError:   kind == SymbolError,
		fullStart:  at,
		start:      at,
		end:        at,
		fullEnd:    at,
		startPoint: point,
		endPoint:   point,
	}
}

// Kind returns the node's symbol.
func (n *Node) Kind() Symbol { return n.kind }

// KindName returns the node's public symbol name.
func (n *Node) KindName() string { return n.kind.String() }

// IsNamed reports whether the node participates in named traversal.
func (n *Node) IsNamed() bool { return n.kind.IsNamed() }

// IsLeaf reports whether the node is a token leaf.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// IsError reports whether the node itself is an error leaf or error node.
func (n *Node) IsError() bool { return n.kind == SymbolError }

// HasError reports whether the node or any descendant is an error.
func (n *Node) HasError() bool { return n.hasError }

// Field returns the field this node occupies in its parent, or FieldNone.
func (n *Node) Field() Field { return n.field }

// StartByte returns the byte offset where the node's lexeme begins.
func (n *Node) StartByte() int { return n.start }

// EndByte returns the byte offset one past the node's last byte.
func (n *Node) EndByte() int { return n.end }

// FullStartByte returns StartByte extended to cover leading trivia.
func (n *Node) FullStartByte() int { return n.fullStart }

// FullEndByte returns EndByte extended to cover trailing trivia. Full spans
// of sibling leaves abut; a document's leaf full spans tile the source.
func (n *Node) FullEndByte() int { return n.fullEnd }

// StartPoint returns the line/column position of StartByte. Lines and
// columns are 1-indexed; Offset equals StartByte.
func (n *Node) StartPoint() tokenizer.Position { return n.startPoint }

// EndPoint returns the line/column position of EndByte.
func (n *Node) EndPoint() tokenizer.Position { return n.endPoint }

// Text returns the source text the node's lexeme span covers.
func (n *Node) Text() string {
	return n.tree.source[n.start:n.end]
}

// ChildCount returns the number of children, anonymous leaves included.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child in source order, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// NamedChildCount returns the number of named children.
func (n *Node) NamedChildCount() int {
	count := 0
	for _, c := range n.children {
		if c.IsNamed() {
			count++
		}
	}
	return count
}

// NamedChild returns the i-th named child in source order, or nil.
func (n *Node) NamedChild(i int) *Node {
	for _, c := range n.children {
		if c.IsNamed() {
			if i == 0 {
				return c
			}
			i--
		}
	}
	return nil
}

// ChildByField returns the first child occupying field f, or nil.
func (n *Node) ChildByField(f Field) *Node {
	for _, c := range n.children {
		if c.field == f {
			return c
		}
	}
	return nil
}

// ChildByFieldName returns the first child occupying the field with the
// given public name, or nil.
func (n *Node) ChildByFieldName(name string) *Node {
	f, ok := Grammar().FieldForName(name)
	if !ok {
		return nil
	}
	return n.ChildByField(f)
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// NextSibling returns the following child of the node's parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.index + 1)
}

// PrevSibling returns the preceding child of the node's parent, or nil.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.index - 1)
}

// Walk calls fn for the node and every descendant in source order. fn
// returning false stops descent into that subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// String renders the named structure as an s-expression, with field labels
// on field children: (yaml_line key: (key) value: (value)). Anonymous leaves
// are omitted. Intended for debugging and tests.
func (n *Node) String() string {
	var sb strings.Builder
	n.sexp(&sb)
	return sb.String()
}

func (n *Node) sexp(sb *strings.Builder) {
	if !n.IsNamed() {
		return
	}
	if n.field != FieldNone {
		sb.WriteString(n.field.String())
		sb.WriteString(": ")
	}
	sb.WriteByte('(')
	sb.WriteString(n.kind.String())
	for _, c := range n.children {
		if !c.IsNamed() {
			continue
		}
		sb.WriteByte(' ')
		c.sexp(sb)
	}
	sb.WriteByte(')')
}

// Tree is an immutable parse result: the source text and the document root.
// A tree exclusively owns its nodes; nothing is shared between trees, so
// separate parses may run concurrently without synchronization.
type Tree struct {
	source string
	root   *Node
}

// NewTree finalizes a bottom-up built tree: parent, sibling and source
// wiring happens here, in one walk. The tree must not be modified after.
func NewTree(source string, root *Node) *Tree {
	t := &Tree{source: source, root: root}
	wire(root, t)
	return t
}

func wire(n *Node, t *Tree) {
	n.tree = t
	for i, c := range n.children {
		c.parent = n
		c.index = i
		wire(c, t)
	}
}

// Root returns the document node.
func (t *Tree) Root() *Node { return t.root }

// Source returns the text the tree was parsed from.
func (t *Tree) Source() string { return t.source }

// HasError reports whether the tree contains any error node.
func (t *Tree) HasError() bool { return t.root.hasError }
