package dotprompt

import (
	"testing"

	"github.com/shapestone/shape-dotprompt/pkg/cst"
)

// FuzzParse tests the Parse function with random inputs
func FuzzParse(f *testing.F) {
	// Seed corpus with representative templates
	f.Add("")
	f.Add("# header\n---\nmodel: gemini-pro\n---\nHello {{name}}")
	f.Add("{{#if user}}Hi{{else}}Bye{{/if}}")
	f.Add("{{helper key=\"val\" 'w' -1.5 true @index}}")
	f.Add("{{!-- comment --}}{{! short }}")
	f.Add("<<<dotprompt: role=system >>>")
	f.Add("---\nkey:\n  nested: 1\n")
	f.Add("{{unclosed")
	f.Add("{{/stray}}{{#a}}{{/b}}")
	f.Add("---\n!!bad\n---")

	f.Fuzz(func(t *testing.T, data string) {
		// Parse should not crash on any input, and the tree must cover
		// every input byte in order
		tree := Parse(data)
		offset := 0
		tree.Root().Walk(func(n *cst.Node) bool {
			if !n.IsLeaf() || n.FullStartByte() == n.FullEndByte() {
				return true
			}
			if n.FullStartByte() != offset {
				t.Fatalf("Leaf %s starts at %d, expected %d (input %q)",
					n.KindName(), n.FullStartByte(), offset, data)
			}
			offset = n.FullEndByte()
			return true
		})
		if offset != len(data) {
			t.Fatalf("Coverage ends at %d of %d (input %q)", offset, len(data), data)
		}
	})
}

// FuzzValidate tests that Validate never panics and agrees with HasError
func FuzzValidate(f *testing.F) {
	f.Add("---\na: 1\n---\nok {{x}}")
	f.Add("{{name")
	f.Add("junk }} <<< {{")

	f.Fuzz(func(t *testing.T, data string) {
		err := Validate(data)
		if hasErr := Parse(data).HasError(); hasErr != (err != nil) {
			t.Fatalf("Validate=%v but HasError=%v (input %q)", err, hasErr, data)
		}
	})
}
