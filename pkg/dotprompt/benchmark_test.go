package dotprompt

import (
	"strings"
	"testing"
)

var benchTemplate = "---\n" +
	"model: gemini-pro\n" +
	"temperature: 0.3\n" +
	"---\n" +
	"{{! system prompt }}\n" +
	"You are helping {{user.name}}.\n" +
	"{{#each questions}}\n" +
	"- {{this}} ({{@index}})\n" +
	"{{/each}}\n" +
	"{{#if verbose}}{{> details mode=\"full\"}}{{/if}}\n"

func BenchmarkParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tree := Parse(benchTemplate)
		if tree.HasError() {
			b.Fatal("unexpected parse errors")
		}
	}
}

func BenchmarkParseReader(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		reader := strings.NewReader(benchTemplate)
		_, err := ParseReader(reader)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_TextHeavy(b *testing.B) {
	input := strings.Repeat("Plain prose with { braces } and < angles > but no constructs.\n", 200)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(input)
	}
}

func BenchmarkValidate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := Validate(benchTemplate); err != nil {
			b.Fatal(err)
		}
	}
}
