package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-dotprompt/pkg/cst"
)

// Tokenizer scans a dotprompt document one token at a time. It is not safe
// for concurrent use; each parse constructs its own.
type Tokenizer struct {
	src   string
	buf   []byte
	off   int
	point tokenizer.Position
}

// New creates a tokenizer over the given source text.
func New(input string) *Tokenizer {
	return &Tokenizer{
		src:   input,
		buf:   []byte(input),
		point: tokenizer.Position{Offset: 0, Line: 1, Column: 1},
	}
}

// openers lists the template construct openers in match order. The longer
// comment opener must precede the short one, and every {{-prefixed opener
// must precede the bare expression opener.
var openers = [...]struct {
	text string
	kind cst.Symbol
}{
	{"{{!--", cst.SymbolOpenLongComment},
	{"{{!", cst.SymbolOpenComment},
	{"{{#", cst.SymbolOpenBlock},
	{"{{/", cst.SymbolOpenCloseBlock},
	{"{{", cst.SymbolOpenExpression},
	{"<<<dotprompt:", cst.SymbolOpenMarker},
}

// Next scans one token in the given mode. It returns nil only in
// ModeFrontmatterValue when the current line carries no value; every other
// call returns a token, with a zero-width EOF token at end of input, so the
// caller always makes progress.
func (t *Tokenizer) Next(mode Mode) *Token {
	switch mode {
	case ModeDocumentStart:
		return t.scanDocumentStart()
	case ModeFrontmatter:
		return t.scanFrontmatter()
	case ModeFrontmatterColon:
		return t.scanColon()
	case ModeFrontmatterValue:
		return t.scanValue()
	case ModeTemplate:
		return t.scanTemplate()
	case ModeExpression:
		return t.scanExpression()
	case ModeDoubleString:
		return t.scanString('"', cst.SymbolDoubleQuote)
	case ModeSingleString:
		return t.scanString('\'', cst.SymbolSingleQuote)
	case ModeShortComment:
		return t.scanCommentBody("}}", cst.SymbolCloseBraces)
	case ModeLongComment:
		return t.scanCommentBody("--}}", cst.SymbolCloseLongComment)
	case ModeMarker:
		return t.scanMarker()
	default:
		return t.scanTemplate()
	}
}

// Offset returns the current byte offset, one past the last consumed byte.
func (t *Tokenizer) Offset() int { return t.off }

// Point returns the current line/column position.
func (t *Tokenizer) Point() tokenizer.Position { return t.point }

// scanDocumentStart scans the document prologue. Blank lines before a header
// comment or the opening delimiter are trivia; when neither follows, the
// cursor is restored so template text keeps every byte it covers.
func (t *Tokenizer) scanDocumentStart() *Token {
	fullStart := t.off
	save := *t
	for !t.eof() {
		le := t.lineEnd()
		if strings.TrimSpace(t.src[t.off:le]) != "" {
			break
		}
		t.advance(le - t.off)
		if !t.eof() {
			t.advance(1)
		}
	}
	if t.eof() {
		if t.off > fullStart {
			// whitespace-only input is template text, not trivia
			*t = save
			return t.scanTemplate()
		}
		return t.make(cst.SymbolEOF, fullStart, t.off, t.point)
	}
	switch {
	case t.src[t.off] == '#':
		start, sp := t.off, t.point
		t.advance(t.lineEnd() - t.off)
		tok := t.make(cst.SymbolHeaderComment, fullStart, start, sp)
		t.absorbLineEnd()
		tok.fullEnd = t.off
		return tok
	case isDelimiterLine(t.src[t.off:t.lineEnd()]):
		return t.scanDelimiter(fullStart)
	}
	*t = save
	return t.scanTemplate()
}

// scanFrontmatter scans at the start of a frontmatter line. Blank lines
// carry no token and become leading trivia of whatever follows.
func (t *Tokenizer) scanFrontmatter() *Token {
	fullStart := t.off
	for !t.eof() {
		le := t.lineEnd()
		if strings.TrimSpace(t.src[t.off:le]) != "" {
			break
		}
		t.advance(le - t.off)
		if !t.eof() {
			t.advance(1)
		}
	}
	if t.eof() {
		return t.make(cst.SymbolEOF, fullStart, t.off, t.point)
	}
	line := t.src[t.off:t.lineEnd()]
	switch {
	case strings.TrimSpace(line) == "---":
		// an indented delimiter still closes the frontmatter
		return t.scanDelimiter(fullStart)
	case line[0] == ' ' || line[0] == '\t':
		return t.scanYAMLContent(fullStart)
	case isIdentStart(line[0]):
		start, sp := t.off, t.point
		for !t.eof() && isKeyByte(t.src[t.off]) {
			t.advance(1)
		}
		return t.make(cst.SymbolKey, fullStart, start, sp)
	default:
		return t.scanLineError(fullStart)
	}
}

// scanDelimiter consumes a --- delimiter line. Surrounding indentation and
// the line ending are trivia.
func (t *Tokenizer) scanDelimiter(fullStart int) *Token {
	t.skipSpaces()
	start, sp := t.off, t.point
	t.advance(3)
	tok := t.make(cst.SymbolFrontmatterDelimiter, fullStart, start, sp)
	t.absorbLineEnd()
	tok.fullEnd = t.off
	return tok
}

// scanYAMLContent consumes a run of indented continuation lines as one
// opaque token. The run ends at a blank line, a delimiter, or a line
// starting in column one; only the final line ending is trivia.
func (t *Tokenizer) scanYAMLContent(fullStart int) *Token {
	start, sp := t.off, t.point
	end, ep := t.off, t.point
	for !t.eof() {
		le := t.lineEnd()
		line := t.src[t.off:le]
		if line == "" || (line[0] != ' ' && line[0] != '\t') {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			break
		}
		t.advance(le - t.off)
		end, ep = t.off, t.point
		if !t.eof() {
			t.advance(1)
		}
	}
	return &Token{
		kind:       cst.SymbolYAMLContent,
		text:       t.src[start:end],
		fullStart:  fullStart,
		start:      start,
		end:        end,
		fullEnd:    t.off,
		startPoint: sp,
		endPoint:   ep,
	}
}

// scanColon scans the separator after a YAML key. When nothing but
// whitespace follows on the line, the colon closes the line and its ending
// becomes trailing trivia, so the value scan can report an absent value.
func (t *Tokenizer) scanColon() *Token {
	fullStart := t.off
	t.skipSpaces()
	if t.eof() {
		return t.make(cst.SymbolEOF, fullStart, t.off, t.point)
	}
	if t.src[t.off] != ':' {
		return t.scanLineError(fullStart)
	}
	start, sp := t.off, t.point
	t.advance(1)
	tok := t.make(cst.SymbolColon, fullStart, start, sp)
	probe := t.off
	for probe < len(t.src) && isSpaceByte(t.src[probe]) {
		probe++
	}
	if probe >= len(t.src) || t.src[probe] == '\n' {
		t.absorbLineEnd()
		tok.fullEnd = t.off
	}
	return tok
}

// scanValue scans the remainder of a YAML line after the colon. It returns
// nil when the colon already closed the line.
func (t *Tokenizer) scanValue() *Token {
	if t.eof() || t.point.Column == 1 {
		return nil
	}
	fullStart := t.off
	t.skipSpaces()
	start, sp := t.off, t.point
	t.advance(t.lineEnd() - t.off)
	tok := t.make(cst.SymbolValue, fullStart, start, sp)
	t.absorbLineEnd()
	tok.fullEnd = t.off
	return tok
}

// scanLineError consumes the rest of the current line as an error token,
// line ending included as trivia, so a malformed frontmatter line never
// stalls the scan.
func (t *Tokenizer) scanLineError(fullStart int) *Token {
	start, sp := t.off, t.point
	t.advance(t.lineEnd() - t.off)
	tok := t.make(cst.SymbolError, fullStart, start, sp)
	t.absorbLineEnd()
	tok.fullEnd = t.off
	return tok
}

// scanTemplate scans literal text or a construct opener. Text owns every
// byte it covers; a brace or angle bracket that does not begin an opener is
// plain text.
func (t *Tokenizer) scanTemplate() *Token {
	if t.eof() {
		return t.make(cst.SymbolEOF, t.off, t.off, t.point)
	}
	start, sp := t.off, t.point
	if kind, n := t.openerAt(t.off); n > 0 {
		t.advance(n)
		return t.make(kind, start, start, sp)
	}
	i := t.off + 1
	for i < len(t.src) {
		next := t.findOpenerByte(i)
		if next < 0 {
			i = len(t.src)
			break
		}
		i = next
		if _, n := t.openerAt(i); n > 0 {
			break
		}
		i++
	}
	t.advance(i - t.off)
	return t.make(cst.SymbolText, start, start, sp)
}

// findOpenerByte returns the offset of the next byte at or after from that
// could begin a construct opener, or -1.
func (t *Tokenizer) findOpenerByte(from int) int {
	brace := tokenizer.FindByte(t.buf[from:], '{')
	angle := tokenizer.FindByte(t.buf[from:], '<')
	switch {
	case brace < 0 && angle < 0:
		return -1
	case brace < 0:
		return from + angle
	case angle < 0 || brace < angle:
		return from + brace
	default:
		return from + angle
	}
}

func (t *Tokenizer) openerAt(off int) (cst.Symbol, int) {
	for _, o := range openers {
		if strings.HasPrefix(t.src[off:], o.text) {
			return o.kind, len(o.text)
		}
	}
	return cst.SymbolError, 0
}

// scanExpression scans inside {{...}}. Whitespace, newlines included, is
// leading trivia; an unrecognizable rune becomes a one-rune error token so
// the scan always advances.
func (t *Tokenizer) scanExpression() *Token {
	fullStart := t.off
	for !t.eof() && (isSpaceByte(t.src[t.off]) || t.src[t.off] == '\n') {
		t.advance(1)
	}
	if t.eof() {
		return t.make(cst.SymbolEOF, fullStart, t.off, t.point)
	}
	start, sp := t.off, t.point
	c := t.src[t.off]
	switch {
	case t.hasPrefix("}}"):
		t.advance(2)
		return t.make(cst.SymbolCloseBraces, fullStart, start, sp)
	case c == '"':
		t.advance(1)
		return t.make(cst.SymbolDoubleQuote, fullStart, start, sp)
	case c == '\'':
		t.advance(1)
		return t.make(cst.SymbolSingleQuote, fullStart, start, sp)
	case c == '=':
		t.advance(1)
		return t.make(cst.SymbolEquals, fullStart, start, sp)
	case c == '>':
		t.advance(1)
		return t.make(cst.SymbolGreaterThan, fullStart, start, sp)
	case isDigit(c) || (c == '-' && t.off+1 < len(t.src) && isDigit(t.src[t.off+1])):
		return t.scanNumber(fullStart)
	case c == '@' && t.off+1 < len(t.src) && isIdentStart(t.src[t.off+1]):
		t.advance(1)
		t.scanPathTail()
		return t.make(cst.SymbolPath, fullStart, start, sp)
	case isIdentStart(c):
		t.scanPathTail()
		tok := t.make(cst.SymbolPath, fullStart, start, sp)
		switch tok.text {
		case "else":
			tok.kind = cst.SymbolElse
		case "true":
			tok.kind = cst.SymbolTrue
		case "false":
			tok.kind = cst.SymbolFalse
		}
		return tok
	default:
		_, size := utf8.DecodeRuneInString(t.src[t.off:])
		t.advance(size)
		return t.make(cst.SymbolError, fullStart, start, sp)
	}
}

// scanNumber consumes -?[0-9]+(.[0-9]+)?. The dot is only part of the
// number when a digit follows it.
func (t *Tokenizer) scanNumber(fullStart int) *Token {
	start, sp := t.off, t.point
	if t.src[t.off] == '-' {
		t.advance(1)
	}
	for !t.eof() && isDigit(t.src[t.off]) {
		t.advance(1)
	}
	if t.off+1 < len(t.src) && t.src[t.off] == '.' && isDigit(t.src[t.off+1]) {
		t.advance(1)
		for !t.eof() && isDigit(t.src[t.off]) {
			t.advance(1)
		}
	}
	return t.make(cst.SymbolNumber, fullStart, start, sp)
}

// scanPathTail consumes the remainder of a dotted identifier. A dot is only
// consumed when an identifier start follows, so a trailing dot stays out of
// the path.
func (t *Tokenizer) scanPathTail() {
	for !t.eof() {
		b := t.src[t.off]
		switch {
		case isIdentByte(b):
			t.advance(1)
		case b == '.' && t.off+1 < len(t.src) && isIdentStart(t.src[t.off+1]):
			t.advance(2)
		default:
			return
		}
	}
}

// scanString scans a string body: either the closing quote or one content
// token running to that quote. A backslash escapes the following byte.
// Double-quoted content scans with the SWAR escape-or-quote search.
func (t *Tokenizer) scanString(quote byte, quoteKind cst.Symbol) *Token {
	fullStart := t.off
	if t.eof() {
		return t.make(cst.SymbolEOF, fullStart, t.off, t.point)
	}
	start, sp := t.off, t.point
	if t.src[t.off] == quote {
		t.advance(1)
		return t.make(quoteKind, fullStart, start, sp)
	}
	var i int
	if quote == '"' {
		i = t.findDoubleQuote()
	} else {
		i = t.findSingleQuote()
	}
	t.advance(i - t.off)
	return t.make(cst.SymbolStringContent, fullStart, start, sp)
}

func (t *Tokenizer) findDoubleQuote() int {
	i := t.off
	for i < len(t.src) {
		idx := tokenizer.FindEscapeOrQuote(t.buf[i:])
		if idx < 0 {
			return len(t.src)
		}
		i += idx
		if t.src[i] == '"' {
			return i
		}
		i += 2
		if i > len(t.src) {
			return len(t.src)
		}
	}
	return i
}

func (t *Tokenizer) findSingleQuote() int {
	i := t.off
	for i < len(t.src) {
		switch t.src[i] {
		case '\'':
			return i
		case '\\':
			i += 2
			if i > len(t.src) {
				return len(t.src)
			}
		default:
			i++
		}
	}
	return i
}

// scanCommentBody scans a comment interior: either the closing marker or
// one content token running up to it.
func (t *Tokenizer) scanCommentBody(closer string, closeKind cst.Symbol) *Token {
	fullStart := t.off
	if t.eof() {
		return t.make(cst.SymbolEOF, fullStart, t.off, t.point)
	}
	start, sp := t.off, t.point
	if t.hasPrefix(closer) {
		t.advance(len(closer))
		return t.make(closeKind, fullStart, start, sp)
	}
	i := t.off + 1
	for i < len(t.src) {
		idx := tokenizer.FindByte(t.buf[i:], closer[0])
		if idx < 0 {
			i = len(t.src)
			break
		}
		i += idx
		if strings.HasPrefix(t.src[i:], closer) {
			break
		}
		i++
	}
	t.advance(i - t.off)
	return t.make(cst.SymbolCommentContent, fullStart, start, sp)
}

// scanMarker scans a <<<dotprompt: ... >>> interior. Content is any run
// without a >; a > run shorter than the closing marker is an error token,
// never silently skipped.
func (t *Tokenizer) scanMarker() *Token {
	fullStart := t.off
	if t.eof() {
		return t.make(cst.SymbolEOF, fullStart, t.off, t.point)
	}
	start, sp := t.off, t.point
	if t.hasPrefix(">>>") {
		t.advance(3)
		return t.make(cst.SymbolCloseMarker, fullStart, start, sp)
	}
	if t.src[t.off] == '>' {
		for !t.eof() && t.src[t.off] == '>' {
			t.advance(1)
		}
		return t.make(cst.SymbolError, fullStart, start, sp)
	}
	idx := tokenizer.FindByte(t.buf[t.off:], '>')
	if idx < 0 {
		t.advance(len(t.src) - t.off)
	} else {
		t.advance(idx)
	}
	return t.make(cst.SymbolMarkerContent, fullStart, start, sp)
}

// make builds a token whose lexeme ends at the current offset. Callers that
// absorb trailing trivia extend fullEnd afterwards.
func (t *Tokenizer) make(kind cst.Symbol, fullStart, start int, startPoint tokenizer.Position) *Token {
	return &Token{
		kind:       kind,
		text:       t.src[start:t.off],
		fullStart:  fullStart,
		start:      start,
		end:        t.off,
		fullEnd:    t.off,
		startPoint: startPoint,
		endPoint:   t.point,
	}
}

func (t *Tokenizer) advance(n int) {
	for i := 0; i < n && t.off < len(t.src); i++ {
		if t.src[t.off] == '\n' {
			t.point.Line++
			t.point.Column = 1
		} else {
			t.point.Column++
		}
		t.off++
	}
	t.point.Offset = t.off
}

func (t *Tokenizer) eof() bool { return t.off >= len(t.src) }

func (t *Tokenizer) hasPrefix(s string) bool {
	return strings.HasPrefix(t.src[t.off:], s)
}

// lineEnd returns the absolute offset of the next newline, or the end of
// input.
func (t *Tokenizer) lineEnd() int {
	if i := tokenizer.FindByte(t.buf[t.off:], '\n'); i >= 0 {
		return t.off + i
	}
	return len(t.src)
}

func (t *Tokenizer) skipSpaces() {
	for !t.eof() && isSpaceByte(t.src[t.off]) {
		t.advance(1)
	}
}

// absorbLineEnd consumes trailing spaces and at most one newline.
func (t *Tokenizer) absorbLineEnd() {
	t.skipSpaces()
	if !t.eof() && t.src[t.off] == '\n' {
		t.advance(1)
	}
}

// isDelimiterLine reports whether line is exactly --- plus trailing
// whitespace, with no indentation.
func isDelimiterLine(line string) bool {
	return strings.TrimRight(line, " \t\r") == "---"
}

func isSpaceByte(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool { return isIdentStart(b) || isDigit(b) }

// isKeyByte matches YAML key characters, hyphen included.
func isKeyByte(b byte) bool { return isIdentByte(b) || b == '-' }
