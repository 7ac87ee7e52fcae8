package patterns

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

/*
Token patterns are written as a sequence of bracketed token specs:

Pattern     := TokenSpec+
TokenSpec   := "[" ( Constraint ( "," Constraint )* )? "]" Quantifier?
Quantifier  := "?" | "*" | "+" | "!"
Constraint  := Attr ( "=" | "!=" ) Value | Attr "NOT"? "IN" Set
Attr        := TEXT | ORTH | LOWER | LEMMA | POS | TAG | IS_ALPHA | IS_DIGIT | IS_PUNCT | IS_UPPER | IS_SPACE
Value       := <string> | <identifier>
Set         := "$" <identifier> | "(" <string> ( "," <string> )* ")"

For example `[POS=NOUN]? [LOWER="cancer"]` or `[POS=NOUN, LEMMA IN $conditions]`.
*/

var (
	parser = participle.MustBuild[PatternExpr](
		participle.Unquote("String"),
	)
)

func ParsePattern(pattern string) (*PatternExpr, error) {
	p, err := parser.ParseString("", pattern)
	if err != nil {
		return nil, fmt.Errorf("error parsing pattern '%s': %w", pattern, err)
	}
	return p, nil
}

type PatternExpr struct {
	Tokens []*TokenExpr `@@+`
}

func (p *PatternExpr) String() string {
	parts := make([]string, len(p.Tokens))
	for i, t := range p.Tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

type TokenExpr struct {
	Constraints []*ConstraintExpr `"[" ( @@ ( "," @@ )* )? "]"`
	Quantifier  string            `@( "?" | "*" | "+" | "!" )?`
}

func (t *TokenExpr) String() string {
	parts := make([]string, len(t.Constraints))
	for i, c := range t.Constraints {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]" + t.Quantifier
}

type ConstraintExpr struct {
	Attr  string     `@Ident`
	Op    string     `( @( "=" | "!" "=" )`
	Value *ValueExpr `  @@`
	Not   bool       `| @"NOT"? "IN"`
	Set   *SetExpr   `  @@ )`
}

func (c *ConstraintExpr) String() string {
	if c.Set != nil {
		if c.Not {
			return fmt.Sprintf("%s NOT IN %s", c.Attr, c.Set.String())
		}
		return fmt.Sprintf("%s IN %s", c.Attr, c.Set.String())
	}
	return fmt.Sprintf("%s%s%s", c.Attr, c.Op, c.Value.String())
}

type ValueExpr struct {
	String_ *string `  @String`
	Ident   *string `| @Ident`
}

func (v *ValueExpr) Text() string {
	if v.String_ != nil {
		return *v.String_
	}
	return *v.Ident
}

func (v *ValueExpr) String() string {
	if v.String_ != nil {
		return fmt.Sprintf("%q", *v.String_)
	}
	return *v.Ident
}

type SetExpr struct {
	Vocab  string   `  "$" @Ident`
	Values []string `| "(" @String ( "," @String )* ")"`
}

func (s *SetExpr) String() string {
	if s.Vocab != "" {
		return "$" + s.Vocab
	}
	quoted := make([]string, len(s.Values))
	for i, v := range s.Values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}
