package dotprompt

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shapestone/shape-dotprompt/pkg/cst"
)

// TestParse_NeverFails tests that every input yields a tree
func TestParse_NeverFails(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"---\nmodel: x\n---\nbody",
		"{{unclosed",
		"{{/stray}}",
		"\x00\xff garbage {{",
	}

	for _, input := range inputs {
		tree := Parse(input)
		if tree == nil || tree.Root() == nil {
			t.Errorf("Expected a tree for %q", input)
			continue
		}
		if tree.Source() != input {
			t.Errorf("Expected tree to keep its source for %q", input)
		}
	}
}

// TestParse_Structure tests the documented example shape
func TestParse_Structure(t *testing.T) {
	tree := Parse("---\nmodel: gemini-pro\n---\nHello {{name}}!")

	want := "(document " +
		"(frontmatter (frontmatter_delimiter) (yaml_line key: (key) value: (value)) (frontmatter_delimiter)) " +
		"(template_body (text) (handlebars_expression (variable_reference (path))) (text)))"
	if got := tree.Root().String(); got != want {
		t.Errorf("Tree mismatch\n  got:  %s\n  want: %s", got, want)
	}

	line := tree.Root().NamedChild(0).NamedChild(1)
	if got := line.ChildByFieldName("key").Text(); got != "model" {
		t.Errorf("Expected key model, got %q", got)
	}
	if got := line.ChildByFieldName("value").Text(); got != "gemini-pro" {
		t.Errorf("Expected value gemini-pro, got %q", got)
	}
}

// TestParseReader tests reader-based parsing and read error passthrough
func TestParseReader(t *testing.T) {
	tree, err := ParseReader(strings.NewReader("Hello {{name}}"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tree.Source() != "Hello {{name}}" {
		t.Errorf("Unexpected source %q", tree.Source())
	}

	readErr := errors.New("broken pipe")
	if _, err := ParseReader(&failingReader{err: readErr}); !errors.Is(err, readErr) {
		t.Errorf("Expected the read error back, got %v", err)
	}
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

var _ io.Reader = (*failingReader)(nil)

// TestValidate tests error reporting positions
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		substr  string
	}{
		{"empty", "", false, ""},
		{"clean document", "---\na: 1\n---\nhi {{name}}", false, ""},
		{"unclosed expression", "{{name", true, "incomplete construct"},
		{"bad frontmatter line", "---\n!!bad\n---\n", true, "line 2"},
		{"stray rune in expression", "{{a % b}}", true, "%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("Expected error to mention %q, got %q", tt.substr, err.Error())
			}
		})
	}
}

// TestGrammar tests that the descriptor round-trips tree kinds to names
func TestGrammar(t *testing.T) {
	lang := Grammar()
	tree := Parse("{{name}}")

	tree.Root().Walk(func(n *cst.Node) bool {
		if lang.SymbolName(n.Kind()) != n.KindName() {
			t.Errorf("Descriptor name mismatch for %s", n.KindName())
		}
		if lang.SymbolIsNamed(n.Kind()) != n.IsNamed() {
			t.Errorf("Descriptor named-ness mismatch for %s", n.KindName())
		}
		return true
	})

	if s, ok := lang.SymbolForName("document", true); !ok || s != tree.Root().Kind() {
		t.Error("Expected the document symbol through the descriptor")
	}
}

// TestParse_ConcurrentUse tests that parallel parses do not interfere
func TestParse_ConcurrentUse(t *testing.T) {
	input := "---\na: 1\n---\n{{#each xs}}{{this}}{{/each}}"
	want := Parse(input).Root().String()

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- Parse(input).Root().String()
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != want {
			t.Errorf("Concurrent parse diverged:\n  got:  %s\n  want: %s", got, want)
		}
	}
}
