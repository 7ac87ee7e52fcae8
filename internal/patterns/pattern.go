package patterns

import (
	"fmt"
	"strings"
	"unicode"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp"
)

type Quantifier int

const (
	One Quantifier = iota
	Optional
	ZeroOrMore
	OneOrMore
	Negated
)

func parseQuantifier(q string) Quantifier {
	switch q {
	case "?":
		return Optional
	case "*":
		return ZeroOrMore
	case "+":
		return OneOrMore
	case "!":
		return Negated
	}
	return One
}

type tokenPredicate func(tok *types.Token) bool

type TokenSpec struct {
	predicates []tokenPredicate
	Quantifier Quantifier
}

func (s *TokenSpec) matches(tok *types.Token) bool {
	for _, pred := range s.predicates {
		if !pred(tok) {
			return false
		}
	}
	return true
}

// accepts applies the quantifier's negation: a "!" spec consumes exactly one
// token that fails at least one constraint.
func (s *TokenSpec) accepts(tok *types.Token) bool {
	if s.Quantifier == Negated {
		return !s.matches(tok)
	}
	return s.matches(tok)
}

type Pattern struct {
	Label  string
	Source string
	Tokens []TokenSpec
}

type CompileOptions struct {
	Vocabularies map[string][]string

	// Lemmatizer, when set, adds the lemma of every value compared against
	// LEMMA, so that vocabularies may list inflected forms.
	Lemmatizer nlp.Lemmatizer
}

// Compile parses and compiles a single pattern.
func Compile(label, source string, opts CompileOptions) (*Pattern, error) {
	expr, err := ParsePattern(source)
	if err != nil {
		return nil, err
	}

	pattern := &Pattern{Label: label, Source: source, Tokens: make([]TokenSpec, 0, len(expr.Tokens))}
	for _, tokExpr := range expr.Tokens {
		spec := TokenSpec{Quantifier: parseQuantifier(tokExpr.Quantifier)}
		for _, c := range tokExpr.Constraints {
			pred, err := compileConstraint(c, opts)
			if err != nil {
				return nil, fmt.Errorf("error compiling pattern '%s': %w", source, err)
			}
			spec.predicates = append(spec.predicates, pred)
		}
		pattern.Tokens = append(pattern.Tokens, spec)
	}

	return pattern, nil
}

func MustCompile(label, source string, opts CompileOptions) *Pattern {
	p, err := Compile(label, source, opts)
	if err != nil {
		panic(err)
	}
	return p
}

var stringAttrs = map[string]func(tok *types.Token) string{
	"TEXT":  func(tok *types.Token) string { return tok.Text },
	"ORTH":  func(tok *types.Token) string { return tok.Text },
	"LOWER": func(tok *types.Token) string { return tok.Lower },
	"LEMMA": func(tok *types.Token) string { return tok.Lemma },
	"POS":   func(tok *types.Token) string { return tok.POS },
	"TAG":   func(tok *types.Token) string { return tok.Tag },
}

var flagAttrs = map[string]func(tok *types.Token) bool{
	"IS_ALPHA": func(tok *types.Token) bool { return allRunes(tok.Text, unicode.IsLetter) },
	"IS_DIGIT": func(tok *types.Token) bool { return allRunes(tok.Text, unicode.IsDigit) },
	"IS_PUNCT": func(tok *types.Token) bool { return tok.IsPunct },
	"IS_UPPER": func(tok *types.Token) bool {
		return strings.ToUpper(tok.Text) == tok.Text && strings.ToLower(tok.Text) != tok.Text
	},
	"IS_SPACE": func(tok *types.Token) bool { return tok.IsSpace },
}

func compileConstraint(c *ConstraintExpr, opts CompileOptions) (tokenPredicate, error) {
	attr := strings.ToUpper(c.Attr)

	if flag, ok := flagAttrs[attr]; ok {
		if c.Set != nil {
			return nil, fmt.Errorf("flag %s does not support IN", attr)
		}
		var want bool
		switch strings.ToLower(c.Value.Text()) {
		case "true":
			want = true
		case "false":
			want = false
		default:
			return nil, fmt.Errorf("flag %s expects true or false, got %s", attr, c.Value.String())
		}
		if c.Op == "!=" {
			want = !want
		}
		return func(tok *types.Token) bool { return flag(tok) == want }, nil
	}

	getter, ok := stringAttrs[attr]
	if !ok {
		return nil, fmt.Errorf("unknown token attribute '%s'", c.Attr)
	}

	if c.Set == nil {
		values := expandValues(attr, []string{c.Value.Text()}, opts)
		negate := c.Op == "!="
		return func(tok *types.Token) bool {
			_, found := values[getter(tok)]
			return found != negate
		}, nil
	}

	raw := c.Set.Values
	if c.Set.Vocab != "" {
		vocab, ok := opts.Vocabularies[c.Set.Vocab]
		if !ok {
			return nil, fmt.Errorf("unknown vocabulary '$%s'", c.Set.Vocab)
		}
		raw = vocab
	}
	values := expandValues(attr, raw, opts)
	negate := c.Not
	return func(tok *types.Token) bool {
		_, found := values[getter(tok)]
		return found != negate
	}, nil
}

func expandValues(attr string, raw []string, opts CompileOptions) map[string]struct{} {
	values := make(map[string]struct{}, len(raw))
	for _, v := range raw {
		values[v] = struct{}{}
		if attr == "LEMMA" && opts.Lemmatizer != nil {
			values[opts.Lemmatizer.Lemma(v, types.NOUN)] = struct{}{}
		}
	}
	return values
}

func allRunes(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return len(s) > 0
}
