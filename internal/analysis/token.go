package analysis

import "fmt"

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	KindEOF Kind = iota
	KindError
	KindIdentifier
	KindKeyword
	KindNumber
	KindString
	KindOperator
	KindComment
	KindNewline
	KindIndent
	KindDedent
)

var kindNames = [...]string{
	KindEOF:        "EOF",
	KindError:      "ERROR",
	KindIdentifier: "IDENTIFIER",
	KindKeyword:    "KEYWORD",
	KindNumber:     "NUMBER",
	KindString:     "STRING",
	KindOperator:   "OPERATOR",
	KindComment:    "COMMENT",
	KindNewline:    "NEWLINE",
	KindIndent:     "INDENT",
	KindDedent:     "DEDENT",
}

// String returns the canonical name of the token kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("KIND(%d)", k)
}

// MarshalText makes Kind serialize as its name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Position is a location in source text. Line is 1-based, Column is a
// 0-based rune offset within the line (matching Python's tokenize module).
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Token is a single lexical unit. For Error tokens, Text holds a
// human-readable description of the lexical failure and Start/End cover
// the offending span.
type Token struct {
	Kind  Kind     `json:"kind"`
	Text  string   `json:"text"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// pythonKeywords is the Python 3 keyword set. Identifiers in this set
// tokenize as KindKeyword.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true,
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}
