package dotprompt

import "testing"

// TestFrontmatter tests decoding the section between the delimiters
func TestFrontmatter(t *testing.T) {
	input := "---\nmodel: gemini-pro\nconfig:\n  temperature: 0.3\n---\nHello"
	meta, err := Frontmatter(Parse(input))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := meta["model"]; got != "gemini-pro" {
		t.Errorf("Expected model gemini-pro, got %v", got)
	}
	config, ok := meta["config"].(map[string]any)
	if !ok {
		t.Fatalf("Expected nested config map, got %T", meta["config"])
	}
	if got := config["temperature"]; got != 0.3 {
		t.Errorf("Expected temperature 0.3, got %v", got)
	}
}

// TestFrontmatter_Absent tests documents without a frontmatter section
func TestFrontmatter_Absent(t *testing.T) {
	meta, err := Frontmatter(Parse("just text {{x}}"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if meta != nil {
		t.Errorf("Expected nil metadata, got %v", meta)
	}
}

// TestFrontmatter_Empty tests an empty section
func TestFrontmatter_Empty(t *testing.T) {
	meta, err := Frontmatter(Parse("---\n---\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(meta) != 0 {
		t.Errorf("Expected empty metadata, got %v", meta)
	}
}

// TestFrontmatter_Unterminated tests that a missing closing delimiter still
// decodes the entries that are there
func TestFrontmatter_Unterminated(t *testing.T) {
	meta, err := Frontmatter(Parse("---\na: 1"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := meta["a"]; got != 1 {
		t.Errorf("Expected a=1, got %v", got)
	}
}

// TestFrontmatter_Invalid tests YAML decoder errors surfacing
func TestFrontmatter_Invalid(t *testing.T) {
	if _, err := Frontmatter(Parse("---\na: [unclosed\n---\n")); err == nil {
		t.Error("Expected a decode error")
	}
}
