// Package parser implements recursive descent parsing for the dotprompt
// template format. Each production rule in the grammar corresponds to a
// parse function.
//
// Parsing is total: every input produces a tree, every input byte is
// covered by a leaf, and malformed constructs become error nodes instead of
// returned errors. The parser owns the syntactic context and tells the
// tokenizer which lexical mode to scan in.
package parser

import (
	"strings"

	"github.com/shapestone/shape-dotprompt/internal/tokenizer"
	"github.com/shapestone/shape-dotprompt/pkg/cst"
)

// Parser maintains a single token of pushback over the mode-sensitive
// tokenizer. One slot is enough: the grammar only ever needs to undo the
// lookahead that distinguishes a hash parameter from a plain argument, or
// to hand an end-of-input token back to an enclosing production.
type Parser struct {
	source  string
	tok     *tokenizer.Tokenizer
	pending *tokenizer.Token
}

// NewParser creates a parser for the given input string.
func NewParser(input string) *Parser {
	return &Parser{
		source: input,
		tok:    tokenizer.New(input),
	}
}

// next returns the pushed-back token if one is pending, otherwise scans in
// the given mode.
func (p *Parser) next(mode tokenizer.Mode) *tokenizer.Token {
	if p.pending != nil {
		tk := p.pending
		p.pending = nil
		return tk
	}
	return p.tok.Next(mode)
}

// push stores one token for the following next call. The slot must be
// empty.
func (p *Parser) push(tk *tokenizer.Token) {
	p.pending = tk
}

// missingAt builds a zero-width error node where a required construct was
// absent.
func missingAt(tk *tokenizer.Token) *cst.Node {
	return cst.NewMissing(cst.SymbolError, tk.StartByte(), tk.StartPoint())
}

func leaf(tk *tokenizer.Token) cst.Child {
	return cst.Child{Node: tk.Leaf()}
}

func node(n *cst.Node) cst.Child {
	return cst.Child{Node: n}
}

// Parse parses the input and returns the document tree.
//
// Grammar:
//
//	Document = [ LicenseHeader ] [ Frontmatter ] { Content } EOF ;
//	LicenseHeader = HeaderComment { HeaderComment } ;
func (p *Parser) Parse() *cst.Tree {
	var children []cst.Child

	var header []cst.Child
	tk := p.next(tokenizer.ModeDocumentStart)
	for tk.Kind() == cst.SymbolHeaderComment {
		header = append(header, leaf(tk))
		tk = p.next(tokenizer.ModeDocumentStart)
	}
	if len(header) > 0 {
		children = append(children, node(cst.NewNode(cst.SymbolLicenseHeader, header)))
	}

	if tk.Kind() == cst.SymbolFrontmatterDelimiter {
		children = append(children, node(p.parseFrontmatter(tk)))
	} else {
		p.push(tk)
	}

	var body []cst.Child
	for {
		tk = p.next(tokenizer.ModeTemplate)
		if tk.Kind() == cst.SymbolEOF {
			break
		}
		body = append(body, node(p.parseContent(tk)))
	}
	if len(body) > 0 {
		children = append(children, node(cst.NewNode(cst.SymbolTemplateBody, body)))
	}

	children = append(children, leaf(tk))
	return cst.NewTree(p.source, cst.NewNode(cst.SymbolDocument, children))
}

// parseFrontmatter parses from the opening delimiter to the closing one.
// An unterminated frontmatter runs to end of input and gains a zero-width
// error stand-in for the missing delimiter.
//
// Grammar:
//
//	Frontmatter = "---" { YAMLLine | YAMLContent } "---" ;
func (p *Parser) parseFrontmatter(open *tokenizer.Token) *cst.Node {
	children := []cst.Child{leaf(open)}
	for {
		tk := p.next(tokenizer.ModeFrontmatter)
		switch tk.Kind() {
		case cst.SymbolFrontmatterDelimiter:
			children = append(children, leaf(tk))
			return cst.NewNode(cst.SymbolFrontmatter, children)
		case cst.SymbolEOF:
			children = append(children, node(missingAt(tk)))
			p.push(tk)
			return cst.NewNode(cst.SymbolFrontmatter, children)
		case cst.SymbolKey:
			children = append(children, node(p.parseYAMLLine(tk)))
		default:
			// an indented continuation with no preceding key, or a
			// malformed line turned into an error token
			children = append(children, leaf(tk))
		}
	}
}

// parseYAMLLine parses one key: value entry plus any indented continuation
// lines that follow it.
//
// Grammar:
//
//	YAMLLine = Key ":" [ Value ] { YAMLContent } ;
func (p *Parser) parseYAMLLine(key *tokenizer.Token) *cst.Node {
	children := []cst.Child{{Field: cst.FieldKey, Node: key.Leaf()}}

	colon := p.next(tokenizer.ModeFrontmatterColon)
	switch colon.Kind() {
	case cst.SymbolColon:
		children = append(children, leaf(colon))
		if val := p.next(tokenizer.ModeFrontmatterValue); val != nil {
			children = append(children, cst.Child{Field: cst.FieldValue, Node: val.Leaf()})
		}
	case cst.SymbolEOF:
		children = append(children, node(missingAt(colon)))
		p.push(colon)
		return cst.NewNode(cst.SymbolYAMLLine, children)
	default:
		// the rest of the line was consumed as an error token
		children = append(children, leaf(colon))
		return cst.NewNode(cst.SymbolYAMLLine, children)
	}

	for {
		tk := p.next(tokenizer.ModeFrontmatter)
		if tk.Kind() != cst.SymbolYAMLContent {
			p.push(tk)
			break
		}
		children = append(children, leaf(tk))
	}
	return cst.NewNode(cst.SymbolYAMLLine, children)
}

// parseContent parses one template-body item given its leading token.
//
// Grammar:
//
//	Content = Text | Block | Expression | Comment | Marker ;
func (p *Parser) parseContent(tk *tokenizer.Token) *cst.Node {
	switch tk.Kind() {
	case cst.SymbolOpenBlock:
		return p.parseBlock(tk)
	case cst.SymbolOpenCloseBlock:
		// a close with no open block to match
		closing, _ := p.parseCloseBlock(tk)
		return cst.NewNode(cst.SymbolError, []cst.Child{node(closing)})
	case cst.SymbolOpenExpression:
		return p.parseExpression(tk)
	case cst.SymbolOpenComment:
		return p.parseComment(tk, tokenizer.ModeShortComment, cst.SymbolCloseBraces)
	case cst.SymbolOpenLongComment:
		return p.parseComment(tk, tokenizer.ModeLongComment, cst.SymbolCloseLongComment)
	case cst.SymbolOpenMarker:
		return p.parseMarker(tk)
	default:
		// SymbolText, or an error token
		return tk.Leaf()
	}
}

// parseBlock parses a helper block from its opener through the matching
// close. A close naming a different helper still ends the block but is
// wrapped in an error node; end of input inside the block yields a
// zero-width stand-in for the close.
//
// Grammar:
//
//	Block = "{{#" BlockExpression "}}" { Content } CloseBlock ;
//	BlockExpression = Identifier { Argument | HashParam } ;
func (p *Parser) parseBlock(open *tokenizer.Token) *cst.Node {
	children := []cst.Child{leaf(open)}

	var exprKids []cst.Child
	name := ""
	tk := p.next(tokenizer.ModeExpression)
	if tk.Kind() == cst.SymbolPath {
		name = tk.Text()
		exprKids = append(exprKids, cst.Child{Field: cst.FieldName, Node: tk.Leaf()})
	} else {
		exprKids = append(exprKids, cst.Child{Field: cst.FieldName, Node: missingAt(tk)})
		p.push(tk)
	}

	var closeBraces *cst.Node
	for {
		tk = p.next(tokenizer.ModeExpression)
		if tk.Kind() == cst.SymbolCloseBraces {
			closeBraces = tk.Leaf()
			break
		}
		if tk.Kind() == cst.SymbolEOF {
			closeBraces = missingAt(tk)
			p.push(tk)
			break
		}
		exprKids = append(exprKids, node(p.parseArgument(tk)))
	}
	children = append(children, node(cst.NewNode(cst.SymbolBlockExpression, exprKids)))
	children = append(children, node(closeBraces))

	for {
		tk = p.next(tokenizer.ModeTemplate)
		switch tk.Kind() {
		case cst.SymbolOpenCloseBlock:
			closing, closeName := p.parseCloseBlock(tk)
			// {{/}} closes the innermost block; only a different
			// name is a mismatch
			if closeName != "" && closeName != name {
				closing = cst.NewNode(cst.SymbolError, []cst.Child{node(closing)})
			}
			children = append(children, node(closing))
			return cst.NewNode(cst.SymbolHandlebarsBlock, children)
		case cst.SymbolEOF:
			children = append(children, node(missingAt(tk)))
			p.push(tk)
			return cst.NewNode(cst.SymbolHandlebarsBlock, children)
		default:
			children = append(children, node(p.parseContent(tk)))
		}
	}
}

// parseCloseBlock parses {{/name}} and returns the node plus the helper
// name it closes, "" when the name is absent. The name is optional: {{/}}
// is a legal close carrying no name child.
//
// Grammar:
//
//	CloseBlock = "{{/" [ Identifier ] "}}" ;
func (p *Parser) parseCloseBlock(open *tokenizer.Token) (*cst.Node, string) {
	children := []cst.Child{leaf(open)}
	name := ""

	tk := p.next(tokenizer.ModeExpression)
	switch tk.Kind() {
	case cst.SymbolPath:
		name = tk.Text()
		children = append(children, cst.Child{Field: cst.FieldName, Node: tk.Leaf()})
		tk = p.next(tokenizer.ModeExpression)
	case cst.SymbolCloseBraces:
		// {{/}}: no name, closes the innermost open block
	default:
		children = append(children, cst.Child{Field: cst.FieldName, Node: missingAt(tk)})
	}

	for {
		switch tk.Kind() {
		case cst.SymbolCloseBraces:
			children = append(children, leaf(tk))
			return cst.NewNode(cst.SymbolCloseBlock, children), name
		case cst.SymbolEOF:
			children = append(children, node(missingAt(tk)))
			p.push(tk)
			return cst.NewNode(cst.SymbolCloseBlock, children), name
		default:
			children = append(children, node(cst.NewNode(cst.SymbolError, []cst.Child{leaf(tk)})))
			tk = p.next(tokenizer.ModeExpression)
		}
	}
}

// parseExpression parses {{...}}: a partial reference, the else keyword, or
// an operand followed by arguments.
//
// Grammar:
//
//	Expression = "{{" ( ">" Identifier | "else" | Operand { Argument | HashParam } ) "}}" ;
func (p *Parser) parseExpression(open *tokenizer.Token) *cst.Node {
	children := []cst.Child{leaf(open)}

	tk := p.next(tokenizer.ModeExpression)
	switch tk.Kind() {
	case cst.SymbolGreaterThan:
		children = append(children, leaf(tk))
		nameTok := p.next(tokenizer.ModeExpression)
		if nameTok.Kind() == cst.SymbolPath {
			ref := cst.NewNode(cst.SymbolPartialReference, []cst.Child{leaf(nameTok)})
			children = append(children, node(ref))
		} else {
			children = append(children, node(missingAt(nameTok)))
			p.push(nameTok)
		}
	case cst.SymbolElse:
		children = append(children, leaf(tk))
	case cst.SymbolCloseBraces:
		// {{}} carries nothing to reference
		children = append(children, node(missingAt(tk)))
		children = append(children, leaf(tk))
		return cst.NewNode(cst.SymbolHandlebarsExpression, children)
	case cst.SymbolEOF:
		children = append(children, node(missingAt(tk)))
		p.push(tk)
		return cst.NewNode(cst.SymbolHandlebarsExpression, children)
	default:
		children = append(children, node(p.parseOperand(tk)))
	}

	for {
		tk = p.next(tokenizer.ModeExpression)
		switch tk.Kind() {
		case cst.SymbolCloseBraces:
			children = append(children, leaf(tk))
			return cst.NewNode(cst.SymbolHandlebarsExpression, children)
		case cst.SymbolEOF:
			children = append(children, node(missingAt(tk)))
			p.push(tk)
			return cst.NewNode(cst.SymbolHandlebarsExpression, children)
		default:
			children = append(children, node(p.parseArgument(tk)))
		}
	}
}

// parseArgument parses one expression argument. An identifier followed by =
// becomes a hash parameter; anything else is a positional argument.
//
// Grammar:
//
//	Argument = Operand ;
//	HashParam = Identifier "=" Operand ;
func (p *Parser) parseArgument(tk *tokenizer.Token) *cst.Node {
	if tk.Kind() == cst.SymbolPath && !strings.HasPrefix(tk.Text(), "@") {
		nxt := p.next(tokenizer.ModeExpression)
		if nxt.Kind() == cst.SymbolEquals {
			children := []cst.Child{
				{Field: cst.FieldKey, Node: tk.Leaf()},
				leaf(nxt),
			}
			valTok := p.next(tokenizer.ModeExpression)
			switch valTok.Kind() {
			case cst.SymbolCloseBraces, cst.SymbolEOF:
				children = append(children, cst.Child{Field: cst.FieldValue, Node: missingAt(valTok)})
				p.push(valTok)
			default:
				children = append(children, cst.Child{Field: cst.FieldValue, Node: p.parseOperand(valTok)})
			}
			return cst.NewNode(cst.SymbolHashParam, children)
		}
		p.push(nxt)
	}
	return cst.NewNode(cst.SymbolArgument, []cst.Child{node(p.parseOperand(tk))})
}

// parseOperand turns one expression token into a value node.
//
// Grammar:
//
//	Operand = Identifier | VariableReference | Number | Boolean | String ;
func (p *Parser) parseOperand(tk *tokenizer.Token) *cst.Node {
	switch tk.Kind() {
	case cst.SymbolPath:
		// dotted paths and @-references alike resolve a variable
		return cst.NewNode(cst.SymbolVariableReference, []cst.Child{leaf(tk)})
	case cst.SymbolNumber:
		return tk.Leaf()
	case cst.SymbolTrue, cst.SymbolFalse:
		return cst.NewNode(cst.SymbolBoolean, []cst.Child{leaf(tk)})
	case cst.SymbolDoubleQuote:
		return p.parseStringLiteral(tk, tokenizer.ModeDoubleString, cst.SymbolDoubleQuote)
	case cst.SymbolSingleQuote:
		return p.parseStringLiteral(tk, tokenizer.ModeSingleString, cst.SymbolSingleQuote)
	case cst.SymbolError:
		return tk.Leaf()
	default:
		// punctuation with no place in an expression
		return cst.NewNode(cst.SymbolError, []cst.Child{leaf(tk)})
	}
}

// parseStringLiteral parses from the opening quote through the closing one.
// An unterminated string runs to end of input and gains a stand-in for the
// missing quote.
//
// Grammar:
//
//	String = Quote { StringContent } Quote ;
func (p *Parser) parseStringLiteral(open *tokenizer.Token, mode tokenizer.Mode, quote cst.Symbol) *cst.Node {
	children := []cst.Child{leaf(open)}
	for {
		tk := p.next(mode)
		switch tk.Kind() {
		case quote:
			children = append(children, leaf(tk))
			return cst.NewNode(cst.SymbolStringLiteral, children)
		case cst.SymbolEOF:
			children = append(children, node(missingAt(tk)))
			p.push(tk)
			return cst.NewNode(cst.SymbolStringLiteral, children)
		default:
			children = append(children, leaf(tk))
		}
	}
}

// parseComment parses {{! ... }} or {{!-- ... --}} from its opener through
// the closing marker.
//
// Grammar:
//
//	Comment = "{{!" CommentContent "}}" | "{{!--" CommentContent "--}}" ;
func (p *Parser) parseComment(open *tokenizer.Token, mode tokenizer.Mode, closer cst.Symbol) *cst.Node {
	children := []cst.Child{leaf(open)}
	for {
		tk := p.next(mode)
		switch tk.Kind() {
		case closer:
			children = append(children, leaf(tk))
			return cst.NewNode(cst.SymbolHandlebarsComment, children)
		case cst.SymbolEOF:
			children = append(children, node(missingAt(tk)))
			p.push(tk)
			return cst.NewNode(cst.SymbolHandlebarsComment, children)
		default:
			children = append(children, leaf(tk))
		}
	}
}

// parseMarker parses <<<dotprompt: ... >>>.
//
// Grammar:
//
//	Marker = "<<<dotprompt:" MarkerContent ">>>" ;
func (p *Parser) parseMarker(open *tokenizer.Token) *cst.Node {
	children := []cst.Child{leaf(open)}
	for {
		tk := p.next(tokenizer.ModeMarker)
		switch tk.Kind() {
		case cst.SymbolCloseMarker:
			children = append(children, leaf(tk))
			return cst.NewNode(cst.SymbolDotpromptMarker, children)
		case cst.SymbolEOF:
			children = append(children, node(missingAt(tk)))
			p.push(tk)
			return cst.NewNode(cst.SymbolDotpromptMarker, children)
		default:
			children = append(children, leaf(tk))
		}
	}
}
