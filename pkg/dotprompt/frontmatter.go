package dotprompt

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-dotprompt/pkg/cst"
)

// Frontmatter decodes the tree's frontmatter section into a map.
//
// The section between the --- delimiters is handed to a YAML decoder as-is,
// continuation lines included, so nested values come back as nested maps.
// Returns nil with no error when the document has no frontmatter.
//
// Example:
//
//	tree := dotprompt.Parse("---\nmodel: gemini-pro\n---\nHi")
//	meta, err := dotprompt.Frontmatter(tree)
//	// meta["model"] == "gemini-pro"
func Frontmatter(tree *cst.Tree) (map[string]any, error) {
	var fm *cst.Node
	for i := 0; ; i++ {
		child := tree.Root().NamedChild(i)
		if child == nil {
			return nil, nil
		}
		if child.Kind() == cst.SymbolFrontmatter {
			fm = child
			break
		}
	}

	open := fm.Child(0)
	inner := fm.Child(fm.ChildCount() - 1)
	end := inner.StartByte()
	if inner.Kind() != cst.SymbolFrontmatterDelimiter {
		// unterminated frontmatter runs to end of input
		end = fm.FullEndByte()
	}
	section := tree.Source()[open.FullEndByte():end]

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(section), &meta); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	return meta, nil
}
