// Package tokenizer provides mode-sensitive tokenization for the dotprompt
// template format.
//
// The same characters tokenize differently inside frontmatter, template
// text, and handlebars expressions, so the active mode is an explicit
// argument to every Next call. The tokenizer keeps no mode state of its own;
// the parser owns the syntactic context and supplies it.
package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-dotprompt/pkg/cst"
)

// Mode selects which lexical sub-automaton scans the next token.
type Mode int

const (
	// ModeDocumentStart scans the document prologue: header comments,
	// the opening frontmatter delimiter, or the first template token.
	ModeDocumentStart Mode = iota

	// ModeFrontmatter scans at the start of a frontmatter line: the
	// closing delimiter, a YAML key, or an indented continuation run.
	ModeFrontmatter

	// ModeFrontmatterColon scans the colon after a YAML key.
	ModeFrontmatterColon

	// ModeFrontmatterValue scans the remainder of a YAML line after the
	// colon. Next returns nil when the line carries no value.
	ModeFrontmatterValue

	// ModeTemplate scans template text and construct openers.
	ModeTemplate

	// ModeExpression scans inside {{...}}.
	ModeExpression

	// ModeDoubleString and ModeSingleString scan string bodies, including
	// the closing quote.
	ModeDoubleString
	ModeSingleString

	// ModeShortComment scans a {{! ... }} body and its closing braces.
	ModeShortComment

	// ModeLongComment scans a {{!-- ... --}} body and its closing marker.
	ModeLongComment

	// ModeMarker scans a <<<dotprompt: ... >>> body and its closing marker.
	ModeMarker
)

// Token is a single lexeme with its covered source region. The full span
// extends the lexeme span over adjacent trivia (whitespace between
// structural tokens, line endings on line-oriented frontmatter tokens); the
// full spans of a document's tokens tile the input exactly.
type Token struct {
	kind       cst.Symbol
	text       string
	fullStart  int
	start, end int
	fullEnd    int
	startPoint tokenizer.Position
	endPoint   tokenizer.Position
}

// Kind returns the token's symbol.
func (t *Token) Kind() cst.Symbol { return t.kind }

// Text returns the lexeme text, trivia excluded.
func (t *Token) Text() string { return t.text }

// StartByte returns the byte offset where the lexeme begins.
func (t *Token) StartByte() int { return t.start }

// EndByte returns the byte offset one past the lexeme's last byte.
func (t *Token) EndByte() int { return t.end }

// FullStartByte returns StartByte extended back over leading trivia.
func (t *Token) FullStartByte() int { return t.fullStart }

// FullEndByte returns EndByte extended forward over trailing trivia.
func (t *Token) FullEndByte() int { return t.fullEnd }

// StartPoint returns the 1-indexed line/column position of StartByte.
func (t *Token) StartPoint() tokenizer.Position { return t.startPoint }

// EndPoint returns the 1-indexed line/column position of EndByte.
func (t *Token) EndPoint() tokenizer.Position { return t.endPoint }

// Leaf converts the token into a syntax tree leaf.
func (t *Token) Leaf() *cst.Node {
	return cst.NewLeaf(t.kind, t.fullStart, t.start, t.end, t.fullEnd, t.startPoint, t.endPoint)
}
