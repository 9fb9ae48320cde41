// Package dotprompt provides parsing for dotprompt template files.
//
// A dotprompt file carries an optional # license header, an optional YAML
// frontmatter section fenced by --- lines, and a template body mixing
// literal text with handlebars constructs ({{expr}}, {{#block}}...{{/block}},
// {{! comments }}) and <<<dotprompt: ... >>> markers.
//
// Parsing produces a concrete syntax tree (pkg/cst): a lossless view of the
// source in which every byte is covered, byte spans and line/column points
// are attached to every node, and malformed input becomes error nodes
// inside the tree rather than a returned error. Parse never fails; use
// Validate or Tree.HasError to detect malformed input.
//
// This parser uses recursive descent with a mode-sensitive tokenizer. Each
// production rule in the grammar corresponds to a parse function in
// internal/parser/parser.go.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple
// goroutines. Each call creates its own parser instance with no shared
// mutable state, and the returned tree is immutable.
//
//	// ✅ SAFE: Concurrent parsing
//	go func() { dotprompt.Parse(input1) }()
//	go func() { dotprompt.Parse(input2) }()
//
// # Parsing APIs
//
// The package provides three entry points:
//
//   - Parse(string) - Parses a template from a string in memory
//   - ParseReader(io.Reader) - Parses a template from any io.Reader
//   - Validate(string) - Reports the first syntax error, nil when clean
//
// # Example usage with Parse:
//
//	tree := dotprompt.Parse(`---
//	model: gemini-pro
//	---
//	Hello {{name}}!`)
//
//	doc := tree.Root()
//	fmt.Println(doc.String())
//	// (document (frontmatter (yaml_line key: (key) value: (value))) ...
package dotprompt

import (
	"fmt"
	"io"

	"github.com/shapestone/shape-dotprompt/internal/parser"
	"github.com/shapestone/shape-dotprompt/pkg/cst"
)

// Parse parses a dotprompt template from a string.
//
// The result is always a complete tree: malformed constructs appear as
// error nodes with byte spans, and the tree's leaves cover every input
// byte. Inspect the tree with the pkg/cst traversal API.
//
// Example:
//
//	tree := dotprompt.Parse("Hello {{name}}!")
//	body := tree.Root().NamedChild(0) // (template_body ...)
func Parse(input string) *cst.Tree {
	p := parser.NewParser(input)
	return p.Parse()
}

// ParseReader parses a dotprompt template from an io.Reader.
//
// The reader can be any io.Reader implementation: os.File, strings.Reader,
// bytes.Buffer, network streams. The source is read fully before parsing;
// tree nodes index into it by byte offset, so the text must be resident
// anyway. The only error returned is a read error.
//
// Example:
//
//	file, err := os.Open("greeting.prompt")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	tree, err := dotprompt.ParseReader(file)
//	if err != nil {
//	    return fmt.Errorf("reading failed: %w", err)
//	}
func ParseReader(reader io.Reader) (*cst.Tree, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Validate parses the input and reports its first syntax error.
//
// Returns nil when the template is well formed. The error names the line
// and column of the first error node in the tree, which is also where
// editing tools should point.
func Validate(input string) error {
	tree := Parse(input)
	if !tree.HasError() {
		return nil
	}
	var first *cst.Node
	tree.Root().Walk(func(n *cst.Node) bool {
		if first != nil {
			return false
		}
		if n.IsError() {
			first = n
			return false
		}
		return true
	})
	pos := first.StartPoint()
	if first.StartByte() == first.EndByte() {
		return fmt.Errorf("invalid template: incomplete construct at line %d, column %d", pos.Line, pos.Column)
	}
	return fmt.Errorf("invalid template: unexpected %q at line %d, column %d", first.Text(), pos.Line, pos.Column)
}

// Grammar returns the descriptor mapping the tree's numeric symbol and
// field identifiers to stable names. External bindings should use it
// instead of hard-coding symbol values.
func Grammar() *cst.Language {
	return cst.Grammar()
}
