// Package cst defines the concrete syntax tree produced by the dotprompt
// parser.
//
// The tree is a lossless view of the source: every input byte is covered by
// exactly one leaf, punctuation included. Nodes carry byte spans and
// line/column points, children keep source order, and selected children are
// addressable by field (key, name, value). The Language descriptor maps the
// numeric symbol and field identifiers to stable human-readable names so
// bindings never hard-code them.
package cst

// Symbol identifies a token or node kind in the dotprompt grammar.
//
// Symbols below SymbolDocument are tokens and only ever appear as leaves;
// the rest are interior node kinds. SymbolError is shared by error leaves
// (lexical errors) and error nodes (structural errors).
type Symbol uint16

const (
	// Token symbols.
	SymbolEOF                  Symbol = iota // zero-width end-of-input leaf
	SymbolHeaderComment                      // # ... at start of document
	SymbolFrontmatterDelimiter               // --- on its own line
	SymbolKey                                // YAML key
	SymbolColon                              // :
	SymbolValue                              // YAML value (rest of line)
	SymbolYAMLContent                        // indented continuation run
	SymbolOpenBlock                          // {{#
	SymbolOpenCloseBlock                     // {{/
	SymbolOpenExpression                     // {{
	SymbolCloseBraces                        // }}
	SymbolOpenComment                        // {{!
	SymbolOpenLongComment                    // {{!--
	SymbolCloseLongComment                   // --}}
	SymbolCommentContent                     // comment body
	SymbolEquals                             // =
	SymbolGreaterThan                        // > (partial sigil)
	SymbolElse                               // else keyword
	SymbolTrue                               // true keyword
	SymbolFalse                              // false keyword
	SymbolNumber                             // -?[0-9]+(.[0-9]+)?
	SymbolPath                               // dotted identifier or @reference
	SymbolDoubleQuote                        // "
	SymbolSingleQuote                        // '
	SymbolStringContent                      // string body between quotes
	SymbolOpenMarker                         // <<<dotprompt:
	SymbolMarkerContent                      // opaque marker body
	SymbolCloseMarker                        // >>>
	SymbolText                               // literal template text

	// Node symbols.
	SymbolDocument
	SymbolLicenseHeader
	SymbolFrontmatter
	SymbolYAMLLine
	SymbolTemplateBody
	SymbolHandlebarsBlock
	SymbolBlockExpression
	SymbolCloseBlock
	SymbolHandlebarsExpression
	SymbolHandlebarsComment
	SymbolArgument
	SymbolHashParam
	SymbolVariableReference
	SymbolPartialReference
	SymbolStringLiteral
	SymbolBoolean
	SymbolDotpromptMarker
	SymbolError

	symbolCount
)

// symbolNames maps each symbol to its public name. Anonymous tokens use
// their literal spelling, named symbols use snake_case rule names.
var symbolNames = [symbolCount]string{
	SymbolEOF:                  "end",
	SymbolHeaderComment:        "header_comment",
	SymbolFrontmatterDelimiter: "frontmatter_delimiter",
	SymbolKey:                  "key",
	SymbolColon:                ":",
	SymbolValue:                "value",
	SymbolYAMLContent:          "yaml_content",
	SymbolOpenBlock:            "{{#",
	SymbolOpenCloseBlock:       "{{/",
	SymbolOpenExpression:       "{{",
	SymbolCloseBraces:          "}}",
	SymbolOpenComment:          "{{!",
	SymbolOpenLongComment:      "{{!--",
	SymbolCloseLongComment:     "--}}",
	SymbolCommentContent:       "comment_content",
	SymbolEquals:               "=",
	SymbolGreaterThan:          ">",
	SymbolElse:                 "else",
	SymbolTrue:                 "true",
	SymbolFalse:                "false",
	SymbolNumber:               "number",
	SymbolPath:                 "path",
	SymbolDoubleQuote:          "\"",
	SymbolSingleQuote:          "'",
	SymbolStringContent:        "string_content",
	SymbolOpenMarker:           "<<<dotprompt:",
	SymbolMarkerContent:        "marker_content",
	SymbolCloseMarker:          ">>>",
	SymbolText:                 "text",
	SymbolDocument:             "document",
	SymbolLicenseHeader:        "license_header",
	SymbolFrontmatter:          "frontmatter",
	SymbolYAMLLine:             "yaml_line",
	SymbolTemplateBody:         "template_body",
	SymbolHandlebarsBlock:      "handlebars_block",
	SymbolBlockExpression:      "block_expression",
	SymbolCloseBlock:           "close_block",
	SymbolHandlebarsExpression: "handlebars_expression",
	SymbolHandlebarsComment:    "handlebars_comment",
	SymbolArgument:             "argument",
	SymbolHashParam:            "hash_param",
	SymbolVariableReference:    "variable_reference",
	SymbolPartialReference:     "partial_reference",
	SymbolStringLiteral:        "string_literal",
	SymbolBoolean:              "boolean",
	SymbolDotpromptMarker:      "dotprompt_marker",
	SymbolError:                "error",
}

// symbolNamed marks symbols that participate in named traversal. Punctuation,
// delimiters and bare keywords are anonymous: they appear in the tree for
// byte coverage but are skipped by NamedChild and the s-expression form.
var symbolNamed = [symbolCount]bool{
	SymbolHeaderComment:        true,
	SymbolFrontmatterDelimiter: true,
	SymbolKey:                  true,
	SymbolValue:                true,
	SymbolYAMLContent:          true,
	SymbolCommentContent:       true,
	SymbolNumber:               true,
	SymbolPath:                 true,
	SymbolStringContent:        true,
	SymbolMarkerContent:        true,
	SymbolText:                 true,
	SymbolDocument:             true,
	SymbolLicenseHeader:        true,
	SymbolFrontmatter:          true,
	SymbolYAMLLine:             true,
	SymbolTemplateBody:         true,
	SymbolHandlebarsBlock:      true,
	SymbolBlockExpression:      true,
	SymbolCloseBlock:           true,
	SymbolHandlebarsExpression: true,
	SymbolHandlebarsComment:    true,
	SymbolArgument:             true,
	SymbolHashParam:            true,
	SymbolVariableReference:    true,
	SymbolPartialReference:     true,
	SymbolStringLiteral:        true,
	SymbolBoolean:              true,
	SymbolDotpromptMarker:      true,
	SymbolError:                true,
}

// String returns the symbol's public name.
func (s Symbol) String() string {
	if s >= symbolCount {
		return "invalid"
	}
	return symbolNames[s]
}

// IsToken reports whether s is a leaf-only token symbol.
func (s Symbol) IsToken() bool {
	return s < SymbolDocument
}

// IsNamed reports whether s participates in named traversal.
func (s Symbol) IsNamed() bool {
	return s < symbolCount && symbolNamed[s]
}

// Field identifies a named child slot within its parent node.
// The grammar defines three: key and value on yaml_line and hash_param,
// name on block_expression and close_block.
type Field uint8

const (
	FieldNone Field = iota
	FieldKey
	FieldName
	FieldValue

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldNone:  "",
	FieldKey:   "key",
	FieldName:  "name",
	FieldValue: "value",
}

// String returns the field's public name, or "" for FieldNone.
func (f Field) String() string {
	if f >= fieldCount {
		return ""
	}
	return fieldNames[f]
}

// LanguageVersion is bumped whenever the symbol or field tables change in a
// way external bindings can observe.
const LanguageVersion = 1

// Language is the grammar descriptor external bindings retrieve to map
// opaque symbol and field identifiers to human-readable names. It is a
// stable, versioned value; all methods are safe for concurrent use.
type Language struct {
	version uint32
}

var language = &Language{version: LanguageVersion}

// Grammar returns the descriptor for the dotprompt grammar.
func Grammar() *Language {
	return language
}

// Version returns the descriptor version.
func (l *Language) Version() uint32 { return l.version }

// SymbolCount returns the number of symbols in the grammar, token and node
// kinds combined.
func (l *Language) SymbolCount() uint16 { return uint16(symbolCount) }

// FieldCount returns the number of fields, not counting FieldNone.
func (l *Language) FieldCount() uint16 { return uint16(fieldCount) - 1 }

// SymbolName returns the public name for s, or "invalid" when s is out of
// range.
func (l *Language) SymbolName(s Symbol) string { return s.String() }

// SymbolIsNamed reports whether s participates in named traversal.
func (l *Language) SymbolIsNamed(s Symbol) bool { return s.IsNamed() }

// FieldName returns the public name for f, or "" for FieldNone or an
// out-of-range field.
func (l *Language) FieldName(f Field) string { return f.String() }

// FieldForName returns the field with the given public name.
func (l *Language) FieldForName(name string) (Field, bool) {
	for f := FieldKey; f < fieldCount; f++ {
		if fieldNames[f] == name {
			return f, true
		}
	}
	return FieldNone, false
}

// SymbolForName returns the first symbol with the given public name and
// named classification.
func (l *Language) SymbolForName(name string, named bool) (Symbol, bool) {
	for s := Symbol(0); s < symbolCount; s++ {
		if symbolNames[s] == name && symbolNamed[s] == named {
			return s, true
		}
	}
	return 0, false
}
