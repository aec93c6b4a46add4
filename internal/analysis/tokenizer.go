package analysis

import "strings"

// Tokenize converts Python source text into an ordered token sequence.
// It never fails: on a lexical error (unterminated string, inconsistent
// dedent, stray character) the sequence ends with a single KindError token
// describing the failure, and tokenization stops there. A well-formed input
// always ends with KindEOF, preceded by the DEDENT tokens that close any
// open blocks.
//
// Whitespace is elided except where it is structurally significant:
// indentation changes at the start of a logical line become INDENT/DEDENT
// tokens, and the end of a non-blank logical line becomes a NEWLINE token.
// Lines inside parentheses, brackets or braces, and lines joined with a
// trailing backslash, continue the current logical line.
func Tokenize(source string) []Token {
	t := &tokenizer{
		src:     []rune(source),
		line:    1,
		indents: []int{0},
	}
	t.run()
	return t.toks
}

type tokenizer struct {
	src []rune
	pos int

	line int // 1-based
	col  int // 0-based rune offset in line

	toks    []Token
	indents []int
	depth   int // open bracket depth; newlines are implicit continuations inside
	content bool // current logical line produced a non-comment token
	failed  bool
}

func (t *tokenizer) run() {
	atLineStart := true
	for t.pos < len(t.src) && !t.failed {
		if atLineStart && t.depth == 0 {
			if !t.scanIndentation() {
				return
			}
			atLineStart = false
			if t.pos >= len(t.src) {
				break
			}
		}
		r := t.src[t.pos]
		switch {
		case r == '\n':
			if t.depth == 0 && t.content {
				t.emit(KindNewline, "\n", t.here(), Position{t.line, t.col + 1})
				t.content = false
			}
			t.advance()
			if t.depth == 0 {
				atLineStart = true
			}
		case r == ' ' || r == '\t' || r == '\r':
			t.advance()
		case r == '\\' && t.peekAt(1) == '\n':
			t.advance()
			t.advance()
		case r == '\\' && t.peekAt(1) == '\r' && t.peekAt(2) == '\n':
			t.advance()
			t.advance()
			t.advance()
		case r == '#':
			t.scanComment()
		case isIdentStart(r):
			t.scanNameOrPrefixedString()
		case isDigit(r) || (r == '.' && isDigit(t.peekAt(1))):
			t.scanNumber()
		case r == '"' || r == '\'':
			t.scanString("")
		default:
			t.scanOperator()
		}
	}
	if t.failed {
		return
	}
	if t.content {
		t.emit(KindNewline, "\n", t.here(), t.here())
	}
	for len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
		t.emit(KindDedent, "", t.here(), t.here())
	}
	t.emit(KindEOF, "", t.here(), t.here())
}

// scanIndentation measures leading whitespace of a physical line and
// adjusts the indentation stack. Blank and comment-only lines never change
// block structure.
func (t *tokenizer) scanIndentation() bool {
	width := 0
	for t.pos < len(t.src) {
		switch t.src[t.pos] {
		case ' ':
			width++
		case '\t':
			// tabs advance to the next multiple of 8, as CPython does
			width += 8 - width%8
		case '\r':
			// measured as nothing; the \n handling resets the line
		default:
			goto measured
		}
		t.advance()
	}
measured:
	if t.pos >= len(t.src) {
		return true
	}
	if r := t.src[t.pos]; r == '\n' || r == '#' {
		return true
	}

	top := t.indents[len(t.indents)-1]
	switch {
	case width > top:
		t.indents = append(t.indents, width)
		t.emit(KindIndent, "", t.here(), t.here())
	case width < top:
		for len(t.indents) > 1 && t.indents[len(t.indents)-1] > width {
			t.indents = t.indents[:len(t.indents)-1]
			t.emit(KindDedent, "", t.here(), t.here())
		}
		if t.indents[len(t.indents)-1] != width {
			t.fail("unindent does not match any outer indentation level", t.here())
			return false
		}
	}
	return true
}

func (t *tokenizer) scanComment() {
	start := t.here()
	begin := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != '\n' {
		t.advance()
	}
	t.emitRaw(KindComment, string(t.src[begin:t.pos]), start)
}

// scanNameOrPrefixedString lexes an identifier or keyword. A short
// identifier made of string-prefix letters that is immediately followed by
// a quote (r"...", b'...', f"...", rb"...") is instead the prefix of a
// string literal.
func (t *tokenizer) scanNameOrPrefixedString() {
	start := t.here()
	begin := t.pos
	for t.pos < len(t.src) && isIdentPart(t.src[t.pos]) {
		t.advance()
	}
	text := string(t.src[begin:t.pos])

	if len(text) <= 2 && t.pos < len(t.src) && (t.src[t.pos] == '"' || t.src[t.pos] == '\'') && isStringPrefix(text) {
		t.scanStringFrom(text, start, begin)
		return
	}

	kind := KindIdentifier
	if pythonKeywords[text] {
		kind = KindKeyword
	}
	t.emitRaw(kind, text, start)
	t.content = true
}

func isStringPrefix(s string) bool {
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'r', 'b', 'f', 'u':
		default:
			return false
		}
	}
	return true
}

func (t *tokenizer) scanNumber() {
	start := t.here()
	begin := t.pos
	for t.pos < len(t.src) {
		r := t.src[t.pos]
		if isDigit(r) || isIdentPart(r) || r == '.' {
			t.advance()
			continue
		}
		// exponent sign: 1e+10, 2E-3
		if (r == '+' || r == '-') && t.pos > begin {
			prev := t.src[t.pos-1]
			if prev == 'e' || prev == 'E' {
				t.advance()
				continue
			}
		}
		break
	}
	t.emitRaw(KindNumber, string(t.src[begin:t.pos]), start)
	t.content = true
}

func (t *tokenizer) scanString(prefix string) {
	t.scanStringFrom(prefix, t.here(), t.pos)
}

// scanStringFrom lexes a string literal whose prefix (possibly empty) began
// at begin/start. Triple-quoted strings may span lines; single-quoted
// strings end at an unescaped matching quote and may not cross an unescaped
// newline.
func (t *tokenizer) scanStringFrom(prefix string, start Position, begin int) {
	quote := t.src[t.pos]
	triple := t.peekAt(1) == quote && t.peekAt(2) == quote
	if triple {
		t.advance()
		t.advance()
		t.advance()
	} else {
		t.advance()
	}

	for t.pos < len(t.src) {
		r := t.src[t.pos]
		switch {
		case r == '\\' && t.pos+1 < len(t.src):
			t.advance()
			t.advance()
		case r == quote:
			if !triple {
				t.advance()
				t.emitRaw(KindString, string(t.src[begin:t.pos]), start)
				t.content = true
				return
			}
			if t.peekAt(1) == quote && t.peekAt(2) == quote {
				t.advance()
				t.advance()
				t.advance()
				t.emitRaw(KindString, string(t.src[begin:t.pos]), start)
				t.content = true
				return
			}
			t.advance()
		case r == '\n' && !triple:
			t.fail("unterminated string literal", start)
			return
		default:
			t.advance()
		}
	}
	if triple {
		t.fail("unterminated triple-quoted string literal", start)
	} else {
		t.fail("unterminated string literal", start)
	}
}

// operator tables, longest match first
var operators3 = []string{"**=", "//=", ">>=", "<<=", "..."}
var operators2 = []string{
	"**", "//", ">>", "<<", "<=", ">=", "==", "!=", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "@=", "&=", "|=", "^=",
}

const operators1 = "+-*/%@<>&|^~=.,:;()[]{}"

func (t *tokenizer) scanOperator() {
	start := t.here()
	rest := t.src[t.pos:]
	for _, op := range operators3 {
		if hasRunePrefix(rest, op) {
			t.advance()
			t.advance()
			t.advance()
			t.emitRaw(KindOperator, op, start)
			t.content = true
			return
		}
	}
	for _, op := range operators2 {
		if hasRunePrefix(rest, op) {
			t.advance()
			t.advance()
			t.emitRaw(KindOperator, op, start)
			t.content = true
			return
		}
	}
	r := t.src[t.pos]
	if strings.ContainsRune(operators1, r) {
		switch r {
		case '(', '[', '{':
			t.depth++
		case ')', ']', '}':
			if t.depth > 0 {
				t.depth--
			}
		}
		t.advance()
		t.emitRaw(KindOperator, string(r), start)
		t.content = true
		return
	}
	t.fail("invalid character "+string(r)+" in source", start)
}

func hasRunePrefix(src []rune, s string) bool {
	i := 0
	for _, r := range s {
		if i >= len(src) || src[i] != r {
			return false
		}
		i++
	}
	return true
}

func (t *tokenizer) advance() {
	if t.src[t.pos] == '\n' {
		t.line++
		t.col = 0
	} else {
		t.col++
	}
	t.pos++
}

func (t *tokenizer) peekAt(n int) rune {
	if t.pos+n >= len(t.src) {
		return 0
	}
	return t.src[t.pos+n]
}

func (t *tokenizer) here() Position {
	return Position{Line: t.line, Column: t.col}
}

func (t *tokenizer) emit(kind Kind, text string, start, end Position) {
	t.toks = append(t.toks, Token{Kind: kind, Text: text, Start: start, End: end})
}

// emitRaw emits a token whose lexeme started at start and ends at the
// current scan position.
func (t *tokenizer) emitRaw(kind Kind, text string, start Position) {
	t.emit(kind, text, start, t.here())
}

func (t *tokenizer) fail(msg string, at Position) {
	t.emit(KindError, msg, at, t.here())
	t.failed = true
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
