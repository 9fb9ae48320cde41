package cst

import "testing"

// TestSymbolNames tests the name table for representative symbols
func TestSymbolNames(t *testing.T) {
	tests := []struct {
		symbol Symbol
		name   string
		named  bool
	}{
		{SymbolEOF, "end", false},
		{SymbolHeaderComment, "header_comment", true},
		{SymbolColon, ":", false},
		{SymbolOpenBlock, "{{#", false},
		{SymbolOpenLongComment, "{{!--", false},
		{SymbolOpenMarker, "<<<dotprompt:", false},
		{SymbolElse, "else", false},
		{SymbolPath, "path", true},
		{SymbolText, "text", true},
		{SymbolDocument, "document", true},
		{SymbolHandlebarsBlock, "handlebars_block", true},
		{SymbolError, "error", true},
	}

	for _, tt := range tests {
		if got := tt.symbol.String(); got != tt.name {
			t.Errorf("Symbol %d: expected name %q, got %q", tt.symbol, tt.name, got)
		}
		if got := tt.symbol.IsNamed(); got != tt.named {
			t.Errorf("Symbol %s: expected named=%v, got %v", tt.name, tt.named, got)
		}
	}
}

// TestSymbolNames_Complete tests that every symbol has a name
func TestSymbolNames_Complete(t *testing.T) {
	for s := Symbol(0); s < symbolCount; s++ {
		if symbolNames[s] == "" {
			t.Errorf("Symbol %d has no name", s)
		}
	}
	if Symbol(symbolCount).String() != "invalid" {
		t.Error("Expected out-of-range symbols to stringify as invalid")
	}
}

// TestSymbolClassification tests the token/node split
func TestSymbolClassification(t *testing.T) {
	if !SymbolText.IsToken() {
		t.Error("Expected text to be a token symbol")
	}
	if SymbolDocument.IsToken() {
		t.Error("Expected document to be a node symbol")
	}
}

// TestGrammarDescriptor tests the Language lookup surface
func TestGrammarDescriptor(t *testing.T) {
	lang := Grammar()

	if lang.Version() != LanguageVersion {
		t.Errorf("Expected version %d, got %d", LanguageVersion, lang.Version())
	}
	if lang.SymbolCount() != uint16(symbolCount) {
		t.Errorf("Expected %d symbols, got %d", symbolCount, lang.SymbolCount())
	}
	if lang.FieldCount() != 3 {
		t.Errorf("Expected 3 fields, got %d", lang.FieldCount())
	}

	if got := lang.SymbolName(SymbolYAMLLine); got != "yaml_line" {
		t.Errorf("Expected yaml_line, got %q", got)
	}
	if !lang.SymbolIsNamed(SymbolKey) {
		t.Error("Expected key to be named")
	}
	if lang.SymbolIsNamed(SymbolEquals) {
		t.Error("Expected = to be anonymous")
	}

	if got := lang.FieldName(FieldName); got != "name" {
		t.Errorf("Expected field name, got %q", got)
	}
	if f, ok := lang.FieldForName("value"); !ok || f != FieldValue {
		t.Errorf("Expected FieldForName(value) to return FieldValue, got %v %v", f, ok)
	}
	if _, ok := lang.FieldForName("nope"); ok {
		t.Error("Expected unknown field name to miss")
	}

	if s, ok := lang.SymbolForName("frontmatter", true); !ok || s != SymbolFrontmatter {
		t.Errorf("Expected SymbolForName(frontmatter) to return the node symbol, got %v %v", s, ok)
	}
	if s, ok := lang.SymbolForName("else", false); !ok || s != SymbolElse {
		t.Errorf("Expected SymbolForName(else) to return the keyword, got %v %v", s, ok)
	}
	if _, ok := lang.SymbolForName("else", true); ok {
		t.Error("Expected no named symbol spelled else")
	}
}
