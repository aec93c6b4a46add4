package analysis

import "strings"

// Option configures decorator-name conventions used by Parse. The exact
// names marking abstract methods and property accessors are configuration,
// not grammar, so callers can extend them without touching the parser.
type Option func(*options)

type options struct {
	abstract map[string]bool
	getters  map[string]bool
}

func defaultOptions() options {
	return options{
		abstract: map[string]bool{
			"abstractmethod":     true,
			"abc.abstractmethod": true,
			"abstractproperty":   true,
		},
		getters: map[string]bool{
			"property":                  true,
			"cached_property":           true,
			"functools.cached_property": true,
		},
	}
}

// WithAbstractDecorators adds decorator names that mark a method abstract.
func WithAbstractDecorators(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.abstract[n] = true
		}
	}
}

// WithPropertyDecorators adds decorator names recognized as property
// getters. Setters are always matched by the "<name>.setter" convention.
func WithPropertyDecorators(getters ...string) Option {
	return func(o *options) {
		for _, n := range getters {
			o.getters[n] = true
		}
	}
}

// Parse builds the structural model of one Python source file. Parsing is
// all-or-nothing: the result is either a fully populated Module or a
// *SyntaxError for the first lexical or structural error encountered.
//
// The parser classifies five declaration shapes: function definitions,
// class definitions, imports, simple name assignments, and nested versions
// of the first two. Lexically well-formed statements it does not classify
// (expression statements, control flow headers) are skipped; their suites
// are still descended so declarations inside them are recorded at the
// enclosing scope.
func Parse(source string, opts ...Option) (*Module, error) {
	o := defaultOptions()
	for _, f := range opts {
		f(&o)
	}

	raw := Tokenize(source)
	toks := make([]Token, 0, len(raw))
	for _, tk := range raw {
		if tk.Kind == KindComment {
			continue
		}
		if tk.Kind == KindError {
			return nil, &SyntaxError{Line: tk.Start.Line, Column: tk.Start.Column, Message: tk.Text}
		}
		toks = append(toks, tk)
	}

	p := &parser{
		toks:  toks,
		lines: strings.Split(source, "\n"),
		opts:  o,
		mod: &Module{
			Functions: []*Function{},
			Classes:   []*Class{},
			Imports:   []*Import{},
			Variables: []*Variable{},
		},
	}
	if err := p.parseBody(ScopeModule, nil, nil); err != nil {
		return nil, err
	}
	return p.mod, nil
}

type parser struct {
	toks  []Token
	pos   int
	lines []string
	opts  options
	mod   *Module
}

// parseBody parses statements at one indentation level. It returns when it
// reaches the DEDENT closing the level (left unconsumed for the caller) or
// end of input.
func (p *parser) parseBody(scope Scope, fn *Function, cls *Class) error {
	var decorators []string
	for {
		tok := p.peek()
		if len(decorators) > 0 && tok.Kind != KindNewline && !p.isOp("@") &&
			!(tok.Kind == KindKeyword && (tok.Text == "def" || tok.Text == "class" ||
				(tok.Text == "async" && p.kwAt(1, "def")))) {
			return p.errAt(tok, "expected a function or class definition after decorator")
		}
		switch {
		case tok.Kind == KindEOF || tok.Kind == KindDedent:
			return nil

		case tok.Kind == KindNewline:
			p.next()

		case tok.Kind == KindIndent:
			return p.errAt(tok, "unexpected indent")

		case p.isOp("@"):
			d, err := p.scanDecorator()
			if err != nil {
				return err
			}
			decorators = append(decorators, d)

		case tok.Kind == KindKeyword && (tok.Text == "def" || (tok.Text == "async" && p.kwAt(1, "def"))):
			if tok.Text == "async" {
				p.next()
			}
			f, err := p.parseFunction(decorators, scope == ScopeClass)
			decorators = nil
			if err != nil {
				return err
			}
			p.attachFunction(scope, fn, cls, f)

		case tok.Kind == KindKeyword && tok.Text == "class":
			c, err := p.parseClass(decorators)
			decorators = nil
			if err != nil {
				return err
			}
			p.attachClass(scope, fn, cls, c)

		case tok.Kind == KindKeyword && (tok.Text == "import" || tok.Text == "from"):
			if err := p.parseImport(); err != nil {
				return err
			}

		case tok.Kind == KindIdentifier && p.opAt(1, "="):
			p.recordAssignment(scope)
			p.skipToNewline()

		default:
			if err := p.skipStatement(scope, fn, cls); err != nil {
				return err
			}
		}
	}
}

func (p *parser) attachFunction(scope Scope, fn *Function, cls *Class, f *Function) {
	switch scope {
	case ScopeClass:
		cls.Methods = append(cls.Methods, f)
	case ScopeFunction:
		fn.Functions = append(fn.Functions, f)
	default:
		p.mod.Functions = append(p.mod.Functions, f)
	}
}

func (p *parser) attachClass(scope Scope, fn *Function, cls *Class, c *Class) {
	switch scope {
	case ScopeClass:
		cls.Classes = append(cls.Classes, c)
	case ScopeFunction:
		fn.Classes = append(fn.Classes, c)
	default:
		p.mod.Classes = append(p.mod.Classes, c)
	}
}

// scanDecorator captures the expression after '@' verbatim, through the
// end of the logical line.
func (p *parser) scanDecorator() (string, error) {
	p.next() // '@'
	first := p.pos
	for p.peek().Kind != KindNewline && p.peek().Kind != KindEOF {
		p.next()
	}
	if p.pos == first {
		return "", p.errAt(p.peek(), "expected decorator expression after '@'")
	}
	text := p.spanTokens(first, p.pos-1)
	if p.peek().Kind == KindNewline {
		p.next()
	}
	return text, nil
}

func (p *parser) parseFunction(decorators []string, isMethod bool) (*Function, error) {
	defTok := p.next() // 'def'
	nameTok := p.peek()
	if nameTok.Kind != KindIdentifier {
		return nil, p.errAt(nameTok, "expected function name after 'def'")
	}
	p.next()
	if !p.isOp("(") {
		return nil, p.errAt(p.peek(), "expected '(' after function name")
	}
	p.next()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	// return annotation, if any, runs up to the suite colon
	for !p.isOp(":") {
		tok := p.peek()
		if tok.Kind == KindNewline || tok.Kind == KindEOF {
			return nil, p.errAt(tok, "expected ':' after function signature")
		}
		p.skipBracketed()
	}
	p.next() // ':'

	f := &Function{
		Name:       nameTok.Text,
		Line:       defTok.Start.Line,
		Params:     params,
		Decorators: decorators,
		IsMethod:   isMethod,
	}
	if err := p.parseSuite(ScopeFunction, f, nil); err != nil {
		return nil, err
	}
	return f, nil
}

// parseParams consumes a parameter list through its closing ')'. Defaults
// are captured as verbatim source text; annotations are recognized but not
// recorded. Star parameters are recorded under their plain name, and bare
// '*' and '/' separators are skipped.
func (p *parser) parseParams() ([]Param, error) {
	var params []Param
	for {
		tok := p.peek()
		if tok.Kind == KindEOF {
			return nil, p.errAt(tok, "unexpected end of file in parameter list")
		}
		if p.isOp(")") {
			p.next()
			return params, nil
		}

		starred := false
		if p.isOp("*") || p.isOp("**") {
			p.next()
			starred = true
		}
		switch tok = p.peek(); {
		case p.isOp("/") && !starred:
			p.next()
		case tok.Kind == KindIdentifier:
			p.next()
			par := Param{Name: tok.Text}
			if p.isOp(":") {
				p.next()
				p.skipExprUntil(",", "=")
			}
			if p.isOp("=") {
				p.next()
				first := p.pos
				p.skipExprUntil(",")
				if p.pos == first {
					return nil, p.errAt(p.peek(), "expected default value after '='")
				}
				par.HasDefault = true
				par.Default = p.spanTokens(first, p.pos-1)
			}
			params = append(params, par)
		case starred:
			// bare '*' separator
			if !p.isOp(",") && !p.isOp(")") {
				return nil, p.errAt(tok, "expected parameter name")
			}
		default:
			return nil, p.errAt(tok, "expected parameter name")
		}

		if p.isOp(",") {
			p.next()
			continue
		}
		if p.isOp(")") {
			p.next()
			return params, nil
		}
		return nil, p.errAt(p.peek(), "expected ',' or ')' in parameter list")
	}
}

func (p *parser) parseClass(decorators []string) (*Class, error) {
	clsTok := p.next() // 'class'
	nameTok := p.peek()
	if nameTok.Kind != KindIdentifier {
		return nil, p.errAt(nameTok, "expected class name after 'class'")
	}
	p.next()

	cls := &Class{
		Name:       nameTok.Text,
		Line:       clsTok.Start.Line,
		Bases:      []string{},
		Decorators: decorators,
		Methods:    []*Function{},
	}

	if p.isOp("(") {
		p.next()
		for !p.isOp(")") {
			if p.peek().Kind == KindEOF {
				return nil, p.errAt(p.peek(), "unexpected end of file in base class list")
			}
			first := p.pos
			p.skipExprUntil(",")
			if p.pos > first {
				if base := p.baseName(first, p.pos-1); base != "" {
					cls.Bases = append(cls.Bases, base)
				}
			}
			if p.isOp(",") {
				p.next()
			}
		}
		p.next() // ')'
	}
	if !p.isOp(":") {
		return nil, p.errAt(p.peek(), "expected ':' after class header")
	}
	p.next()

	if err := p.parseSuite(ScopeClass, nil, cls); err != nil {
		return nil, err
	}
	p.markAbstract(cls)
	p.mergeProperties(cls)
	return cls, nil
}

// baseName renders the base-class expression spanning toks[i..j]. Keyword
// arguments (metaclass=...) and star unpacking are not base names.
func (p *parser) baseName(i, j int) string {
	depth := 0
	for k := i; k <= j; k++ {
		tk := p.toks[k]
		if tk.Kind != KindOperator {
			continue
		}
		switch tk.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case "=":
			if depth == 0 {
				return ""
			}
		case "*", "**":
			if depth == 0 && k == i {
				return ""
			}
		}
	}
	return p.spanTokens(i, j)
}

// parseSuite parses a declaration body: either NEWLINE INDENT ... DEDENT,
// or an inline body on the header line (def f(): pass).
func (p *parser) parseSuite(scope Scope, fn *Function, cls *Class) error {
	if p.peek().Kind == KindNewline {
		p.next()
		if p.peek().Kind != KindIndent {
			return p.errAt(p.peek(), "expected an indented block")
		}
		p.next()
		if err := p.parseBody(scope, fn, cls); err != nil {
			return err
		}
		if p.peek().Kind == KindDedent {
			p.next()
		}
		return nil
	}
	return p.parseInlineBody(scope)
}

// parseInlineBody records declarations from a suite written on the header
// line itself (class C: attr = 1; other = 2). Only simple statements can
// appear there, separated by ';'.
func (p *parser) parseInlineBody(scope Scope) error {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == KindEOF:
			return nil
		case tok.Kind == KindNewline:
			p.next()
			return nil
		case p.isOp(";"):
			p.next()
		case tok.Kind == KindKeyword && (tok.Text == "import" || tok.Text == "from"):
			// consumes the rest of the logical line
			return p.parseImport()
		case tok.Kind == KindIdentifier && p.opAt(1, "="):
			p.recordAssignment(scope)
			p.skipExprUntil(";")
		default:
			first := p.pos
			p.skipExprUntil(";")
			if p.pos == first {
				p.next() // stray closing bracket
			}
		}
	}
}

// recordAssignment records each simple name target of an assignment,
// including chained forms (x = y = 1), leaving the position on the
// assigned expression.
func (p *parser) recordAssignment(scope Scope) {
	for p.peek().Kind == KindIdentifier && p.opAt(1, "=") {
		tok := p.next()
		p.next() // '='
		p.mod.Variables = append(p.mod.Variables, &Variable{
			Name:  tok.Text,
			Scope: scope,
			Line:  tok.Start.Line,
		})
	}
}

func (p *parser) parseImport() error {
	if p.peek().Text == "from" {
		return p.parseFromImport()
	}
	impTok := p.next() // 'import'
	for {
		mod, err := p.parseDottedName()
		if err != nil {
			return err
		}
		imp := &Import{Module: mod, Line: impTok.Start.Line}
		if p.kwAt(0, "as") {
			p.next()
			alias := p.peek()
			if alias.Kind != KindIdentifier {
				return p.errAt(alias, "expected alias name after 'as'")
			}
			p.next()
			imp.Names = []ImportedName{{Name: mod, Alias: alias.Text}}
		}
		p.mod.Imports = append(p.mod.Imports, imp)
		if p.isOp(",") {
			p.next()
			continue
		}
		break
	}
	p.skipToNewline()
	return nil
}

func (p *parser) parseFromImport() error {
	fromTok := p.next() // 'from'

	dots := 0
	for p.isOp(".") || p.isOp("...") {
		if p.peek().Text == "..." {
			dots += 3
		} else {
			dots++
		}
		p.next()
	}
	mod := ""
	if p.peek().Kind == KindIdentifier {
		var err error
		if mod, err = p.parseDottedName(); err != nil {
			return err
		}
	}
	if dots == 0 && mod == "" {
		return p.errAt(p.peek(), "expected module name after 'from'")
	}
	if !p.kwAt(0, "import") {
		return p.errAt(p.peek(), "expected 'import' in from-import")
	}
	p.next()

	imp := &Import{
		Module:     mod,
		IsRelative: dots > 0,
		Dots:       dots,
		Line:       fromTok.Start.Line,
	}

	paren := p.isOp("(")
	if paren {
		p.next()
	}
	if p.isOp("*") {
		p.next()
		imp.Names = append(imp.Names, ImportedName{Name: "*"})
	} else {
		for {
			nameTok := p.peek()
			if nameTok.Kind != KindIdentifier {
				return p.errAt(nameTok, "expected imported name")
			}
			p.next()
			n := ImportedName{Name: nameTok.Text}
			if p.kwAt(0, "as") {
				p.next()
				alias := p.peek()
				if alias.Kind != KindIdentifier {
					return p.errAt(alias, "expected alias name after 'as'")
				}
				p.next()
				n.Alias = alias.Text
			}
			imp.Names = append(imp.Names, n)
			if p.isOp(",") {
				p.next()
				if paren && p.isOp(")") {
					break // trailing comma
				}
				continue
			}
			break
		}
	}
	if paren {
		if !p.isOp(")") {
			return p.errAt(p.peek(), "expected ')' to close import list")
		}
		p.next()
	}
	p.mod.Imports = append(p.mod.Imports, imp)
	p.skipToNewline()
	return nil
}

func (p *parser) parseDottedName() (string, error) {
	tok := p.peek()
	if tok.Kind != KindIdentifier {
		return "", p.errAt(tok, "expected module name")
	}
	p.next()
	name := tok.Text
	for p.isOp(".") {
		p.next()
		part := p.peek()
		if part.Kind != KindIdentifier {
			return "", p.errAt(part, "expected name after '.'")
		}
		p.next()
		name += "." + part.Text
	}
	return name, nil
}

// compoundKeywords open a suite after a depth-zero ':' on the header line.
var compoundKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"try": true, "except": true, "finally": true, "with": true,
}

// skipStatement discards one unclassified statement. If the statement
// opened a suite (if/for/while/with/try and friends), the suite is parsed
// recursively in the same scope so nested declarations are still recorded,
// whether the suite is an indented block or inline on the header line.
func (p *parser) skipStatement(scope Scope, fn *Function, cls *Class) error {
	tok := p.peek()
	if tok.Kind == KindKeyword && tok.Text == "async" && (p.kwAt(1, "for") || p.kwAt(1, "with")) {
		p.next()
		tok = p.peek()
	}
	if tok.Kind == KindKeyword && compoundKeywords[tok.Text] && p.skipToSuiteColon() {
		if p.peek().Kind != KindNewline && p.peek().Kind != KindEOF {
			return p.parseInlineBody(scope)
		}
	}
	p.skipToNewline()
	if p.peek().Kind == KindIndent {
		p.next()
		if err := p.parseBody(scope, fn, cls); err != nil {
			return err
		}
		if p.peek().Kind == KindDedent {
			p.next()
		}
	}
	return nil
}

// skipToSuiteColon advances through a compound statement header past its
// suite colon, skipping colons nested in brackets (slices, dict literals,
// annotations in parentheses). Reports whether the colon was found before
// the line ended; an unparenthesized lambda in the header gives up rather
// than confuse its parameter colon with the suite's.
func (p *parser) skipToSuiteColon() bool {
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case KindEOF, KindNewline:
			return false
		case KindKeyword:
			if tok.Text == "lambda" && depth == 0 {
				return false
			}
		case KindOperator:
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			case ":":
				if depth == 0 {
					p.next()
					return true
				}
			}
		}
		p.next()
	}
}

// markAbstract sets IsAbstract when any directly declared method carries a
// configured abstract decorator. Runs before property merging so abstract
// accessors still count.
func (p *parser) markAbstract(cls *Class) {
	for _, m := range cls.Methods {
		for _, d := range m.Decorators {
			if p.opts.abstract[decoratorName(d)] {
				cls.IsAbstract = true
				return
			}
		}
	}
}

// mergeProperties rewrites same-named getter/setter accessor pairs into
// Property entries. This is a local rewrite over sibling methods of one
// class body; no rules beyond the get/set pair are applied.
func (p *parser) mergeProperties(cls *Class) {
	byName := make(map[string]*Property)
	kept := cls.Methods[:0]
	for _, m := range cls.Methods {
		role := p.accessorRole(m)
		if role == accessorNone {
			kept = append(kept, m)
			continue
		}
		prop := byName[m.Name]
		if prop == nil {
			prop = &Property{Name: m.Name, Line: m.Line}
			byName[m.Name] = prop
			cls.Properties = append(cls.Properties, prop)
		}
		if role == accessorGetter {
			prop.HasGetter = true
		} else {
			prop.HasSetter = true
		}
	}
	cls.Methods = kept
}

type accessorRole int

const (
	accessorNone accessorRole = iota
	accessorGetter
	accessorSetter
)

func (p *parser) accessorRole(m *Function) accessorRole {
	for _, d := range m.Decorators {
		name := decoratorName(d)
		if p.opts.getters[name] && len(m.Params) <= 1 {
			return accessorGetter
		}
		if name == m.Name+".setter" && len(m.Params) <= 2 {
			return accessorSetter
		}
	}
	return accessorNone
}

// decoratorName strips a call suffix from decorator text, so
// "lru_cache(maxsize=1)" compares as "lru_cache".
func decoratorName(text string) string {
	if i := strings.IndexByte(text, '('); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// skipExprUntil advances past one expression, stopping (without consuming)
// at any of the stop operators at bracket depth zero, at an unmatched
// closing bracket, or at the end of the logical line.
func (p *parser) skipExprUntil(stops ...string) {
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case KindEOF, KindNewline:
			return
		case KindOperator:
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return
				}
				depth--
			default:
				if depth == 0 {
					for _, s := range stops {
						if tok.Text == s {
							return
						}
					}
				}
			}
		}
		p.next()
	}
}

// skipBracketed consumes one token, or a whole balanced bracket group if
// the token opens one.
func (p *parser) skipBracketed() {
	tok := p.next()
	if tok.Kind != KindOperator {
		return
	}
	switch tok.Text {
	case "(", "[", "{":
		depth := 1
		for depth > 0 {
			in := p.peek()
			if in.Kind == KindEOF {
				return
			}
			p.next()
			if in.Kind == KindOperator {
				switch in.Text {
				case "(", "[", "{":
					depth++
				case ")", "]", "}":
					depth--
				}
			}
		}
	}
}

func (p *parser) skipToNewline() {
	for {
		tok := p.peek()
		if tok.Kind == KindEOF {
			return
		}
		p.next()
		if tok.Kind == KindNewline {
			return
		}
	}
}

// spanTokens renders the source text covered by toks[i..j]. Single-line
// spans are sliced verbatim from the source; spans broken across physical
// lines are rejoined with single spaces.
func (p *parser) spanTokens(i, j int) string {
	first, last := p.toks[i], p.toks[j]
	if first.Start.Line == last.End.Line && first.Start.Line-1 < len(p.lines) {
		line := []rune(p.lines[first.Start.Line-1])
		start, end := first.Start.Column, last.End.Column
		if start <= len(line) && end <= len(line) && start <= end {
			return string(line[start:end])
		}
	}
	parts := make([]string, 0, j-i+1)
	for k := i; k <= j; k++ {
		parts = append(parts, p.toks[k].Text)
	}
	return strings.Join(parts, " ")
}

func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: KindEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *parser) isOp(text string) bool {
	tok := p.peek()
	return tok.Kind == KindOperator && tok.Text == text
}

func (p *parser) opAt(n int, text string) bool {
	if p.pos+n >= len(p.toks) {
		return false
	}
	tok := p.toks[p.pos+n]
	return tok.Kind == KindOperator && tok.Text == text
}

func (p *parser) kwAt(n int, text string) bool {
	if p.pos+n >= len(p.toks) {
		return false
	}
	tok := p.toks[p.pos+n]
	return tok.Kind == KindKeyword && tok.Text == text
}

func (p *parser) errAt(tok Token, msg string) *SyntaxError {
	return &SyntaxError{Line: tok.Start.Line, Column: tok.Start.Column, Message: msg}
}
