// Package dsl parses `.cards` batch files.
//
// A file names the student, sets the shared card spec and lists the subjects
// to print:
//
//	cards "Kasun" {
//	  spec {
//	    family: "Perera"
//	    template: classic
//	  }
//	  field family { language: latin; align: left }
//	  subject "Math" x 3
//	  subject "Art" x 2 { template: retro }
//	  blank x 2
//	}
//
// Sections apply in order, so a subject snapshots the spec as it stands at
// that point of the file.
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// Document is the root AST node for a `.cards` file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Student  *StringLiteral `parser:"Newline* 'cards' @String?"`
	Sections []*Section     `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Section is one top-level entry of the document.
type Section struct {
	Spec    *SpecSection  `parser:"  @@"`
	Field   *FieldSection `parser:"| @@"`
	Subject *SubjectEntry `parser:"| @@"`
	Blank   *BlankEntry   `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Spec != nil:
		return "spec"
	case s.Field != nil:
		return "field"
	case s.Subject != nil:
		return "subject"
	case s.Blank != nil:
		return "blank"
	default:
		return "unknown"
	}
}

// SpecSection assigns card-wide properties.
type SpecSection struct {
	Block *Block `parser:"'spec' @@"`
}

// FieldSection sets language, alignment, size and style of one field.
type FieldSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'field' @Ident"`
	Block *Block         `parser:"@@"`
}

// SubjectEntry adds a batch item; the optional block overrides the spec for
// this item only.
type SubjectEntry struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  StringLiteral  `parser:"'subject' @String"`
	Count int            `parser:"( 'x' @Number )?"`
	Block *Block         `parser:"@@?"`
}

// BlankEntry adds handwriting cards with an empty subject.
type BlankEntry struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Count int            `parser:"'blank' ( 'x' @Number )?"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block: a nested field section or an assignment.
type Statement struct {
	Field      *FieldSection `parser:"  @@"`
	Assignment *Assignment   `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value is a string, number, colour or bare identifier.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *float64       `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value as written, with strings unquoted.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'f', -1, 64)
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader; name is used in error positions.
func Parse(name string, r io.Reader) (*Document, error) {
	return documentParser.Parse(name, r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
