package analysis

import "fmt"

// SyntaxError is the single failure mode of Parse. It reports the first
// lexical or structural error encountered; no partial module is ever
// returned alongside it.
type SyntaxError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Scope classifies where a variable binding appears.
type Scope string

const (
	ScopeModule   Scope = "module"
	ScopeClass    Scope = "class"
	ScopeFunction Scope = "function"
)

// Module is the normalized structural model of one source file. Every
// sequence is ordered by first appearance in the source text. A Module
// exclusively owns its declaration tree; models never share declarations.
type Module struct {
	Functions []*Function `json:"functions"`
	Classes   []*Class    `json:"classes"`
	Imports   []*Import   `json:"imports"`
	Variables []*Variable `json:"variables"`
}

// Param is one declared parameter. Default holds the default value's
// source text verbatim when HasDefault is set; it is never evaluated.
type Param struct {
	Name       string `json:"name"`
	HasDefault bool   `json:"has_default"`
	Default    string `json:"default,omitempty"`
}

// Function is a function or method declaration. Nested functions and
// classes are recorded as children, never flattened into the module's
// top-level lists.
type Function struct {
	Name       string      `json:"name"`
	Line       int         `json:"line"`
	Params     []Param     `json:"params"`
	Decorators []string    `json:"decorators,omitempty"`
	IsMethod   bool        `json:"is_method"`
	Functions  []*Function `json:"functions,omitempty"`
	Classes    []*Class    `json:"classes,omitempty"`
}

// Property is a same-named getter/setter accessor pair merged out of a
// class body by the decorator post-pass.
type Property struct {
	Name      string `json:"name"`
	Line      int    `json:"line"`
	HasGetter bool   `json:"has_getter"`
	HasSetter bool   `json:"has_setter"`
}

// Class is a class declaration. Methods holds only functions defined
// directly in the class body; bases are recorded by name and never
// resolved to other declarations.
type Class struct {
	Name       string      `json:"name"`
	Line       int         `json:"line"`
	Bases      []string    `json:"bases"`
	Decorators []string    `json:"decorators,omitempty"`
	Methods    []*Function `json:"methods"`
	Properties []*Property `json:"properties,omitempty"`
	Classes    []*Class    `json:"classes,omitempty"`
	IsAbstract bool        `json:"is_abstract"`
}

// ImportedName is one imported symbol, optionally aliased.
type ImportedName struct {
	Name  string `json:"name"`
	Alias string `json:"alias,omitempty"`
}

// Import is one import declaration. For "import a.b" forms, Module is the
// dotted path and Names is empty unless the import is aliased. For
// "from m import x, y" forms, Module is m and Names lists the imported
// symbols in declared order. Dots counts the leading dots of a relative
// import.
type Import struct {
	Module     string         `json:"module"`
	Names      []ImportedName `json:"names,omitempty"`
	IsRelative bool           `json:"is_relative"`
	Dots       int            `json:"dots,omitempty"`
	Line       int            `json:"line"`
}

// Variable is a simple name binding. Bindings from every scope are
// recorded on the module, tagged with the scope they appeared in.
type Variable struct {
	Name  string `json:"name"`
	Scope Scope  `json:"scope"`
	Line  int    `json:"line"`
}
