package patterns_test

import (
	"strings"
	"testing"

	"condition-ner/internal/core/types"
	"condition-ner/internal/nlp"
	"condition-ner/internal/patterns"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeDoc builds a doc from "text/POS" or "text/POS/lemma" items joined by
// single spaces.
func makeDoc(spec string) *types.Doc {
	var (
		texts  []string
		tokens []types.Token
		offset int
	)
	for _, item := range strings.Fields(spec) {
		parts := strings.Split(item, "/")
		text := parts[0]
		lemma := strings.ToLower(text)
		if len(parts) > 2 {
			lemma = parts[2]
		}
		n := len([]rune(text))
		tokens = append(tokens, types.Token{
			Text:    text,
			Start:   offset,
			End:     offset + n,
			Lemma:   lemma,
			Lower:   strings.ToLower(text),
			POS:     parts[1],
			IsPunct: parts[1] == types.PUNCT,
		})
		texts = append(texts, text)
		offset += n + 1
	}
	return &types.Doc{Text: strings.Join(texts, " "), Tokens: tokens}
}

func compile(t *testing.T, source string, opts patterns.CompileOptions) *patterns.Pattern {
	p, err := patterns.Compile("COND", source, opts)
	require.NoError(t, err)
	return p
}

func TestParsePattern(t *testing.T) {
	testCases := []struct {
		source   string
		expected string
	}{
		{`[POS=NOUN]? [LOWER="cancer"]`, `[POS=NOUN]? [LOWER="cancer"]`},
		{`[POS = NOUN , LEMMA IN $conditions]`, `[POS=NOUN, LEMMA IN $conditions]`},
		{`[LOWER NOT IN ("uti", "adhd")]+`, `[LOWER NOT IN ("uti", "adhd")]+`},
		{`[] [IS_PUNCT=true]! [TAG!="NN"]*`, `[] [IS_PUNCT=true]! [TAG!="NN"]*`},
	}

	for _, tc := range testCases {
		expr, err := patterns.ParsePattern(tc.source)
		require.NoError(t, err, tc.source)
		assert.Equal(t, tc.expected, expr.String())
	}
}

func TestParsePatternErrors(t *testing.T) {
	for _, source := range []string{``, `[POS=NOUN`, `POS=NOUN`, `[POS IN NOUN]`, `[POS=NOUN]&`} {
		_, err := patterns.ParsePattern(source)
		assert.Error(t, err, source)
	}

	_, err := patterns.Compile("COND", `[SHAPE="xxx"]`, patterns.CompileOptions{})
	assert.ErrorContains(t, err, "unknown token attribute")

	_, err = patterns.Compile("COND", `[LEMMA IN $missing]`, patterns.CompileOptions{})
	assert.ErrorContains(t, err, "unknown vocabulary")

	_, err = patterns.Compile("COND", `[IS_ALPHA="maybe"]`, patterns.CompileOptions{})
	assert.ErrorContains(t, err, "expects true or false")
}

func TestMatcherOptionalToken(t *testing.T) {
	doc := makeDoc("breast/NOUN cancer/NOUN is/AUX bad/ADJ")
	matcher := patterns.NewMatcher(compile(t, `[POS=NOUN]? [LOWER="cancer"]`, patterns.CompileOptions{}))

	assert.Equal(t, []patterns.Match{
		{Label: "COND", Start: 0, End: 2},
		{Label: "COND", Start: 1, End: 2},
	}, matcher.Match(doc))
}

func TestMatcherCollapsesIdenticalMatches(t *testing.T) {
	doc := makeDoc("my/DET asthma/NOUN")
	matcher := patterns.NewMatcher(
		compile(t, `[LOWER="asthma"]`, patterns.CompileOptions{}),
		compile(t, `[POS=NOUN]`, patterns.CompileOptions{}),
	)

	assert.Equal(t, []patterns.Match{{Label: "COND", Start: 1, End: 2}}, matcher.Match(doc))
}

func TestMatcherQuantifiers(t *testing.T) {
	doc := makeDoc("very/ADV very/ADV bad/ADJ flu/NOUN !/PUNCT")

	star := patterns.NewMatcher(compile(t, `[POS=ADV]* [POS=ADJ]`, patterns.CompileOptions{}))
	assert.Equal(t, []patterns.Match{
		{Label: "COND", Start: 0, End: 3},
		{Label: "COND", Start: 1, End: 3},
		{Label: "COND", Start: 2, End: 3},
	}, star.Match(doc))

	plus := patterns.NewMatcher(compile(t, `[LOWER="very"]+`, patterns.CompileOptions{}))
	assert.Equal(t, []patterns.Match{
		{Label: "COND", Start: 0, End: 1},
		{Label: "COND", Start: 0, End: 2},
		{Label: "COND", Start: 1, End: 2},
	}, plus.Match(doc))

	negated := patterns.NewMatcher(compile(t, `[POS=NOUN] [IS_PUNCT=true]!`, patterns.CompileOptions{}))
	assert.Empty(t, negated.Match(doc))

	wildcard := patterns.NewMatcher(compile(t, `[LOWER="bad"] []`, patterns.CompileOptions{}))
	assert.Equal(t, []patterns.Match{{Label: "COND", Start: 2, End: 4}}, wildcard.Match(doc))
}

func TestMatcherFlags(t *testing.T) {
	doc := makeDoc("HIV/NOUN and/CCONJ 2/NUM")

	upper := patterns.NewMatcher(compile(t, `[IS_UPPER=true, IS_ALPHA=true]`, patterns.CompileOptions{}))
	assert.Equal(t, []patterns.Match{{Label: "COND", Start: 0, End: 1}}, upper.Match(doc))

	digit := patterns.NewMatcher(compile(t, `[IS_DIGIT=true]`, patterns.CompileOptions{}))
	assert.Equal(t, []patterns.Match{{Label: "COND", Start: 2, End: 3}}, digit.Match(doc))
}

func TestLemmaVocabularyUsesLemmatizer(t *testing.T) {
	doc := makeDoc("my/DET allergies/NOUN/allergy")
	opts := patterns.CompileOptions{Vocabularies: map[string][]string{"conditions": {"allergies"}}}

	plain := patterns.NewMatcher(compile(t, `[LEMMA IN $conditions]`, opts))
	assert.Empty(t, plain.Match(doc))

	opts.Lemmatizer = nlp.NewRuleLemmatizer()
	lemmatized := patterns.NewMatcher(compile(t, `[LEMMA IN $conditions]`, opts))
	assert.Equal(t, []patterns.Match{{Label: "COND", Start: 1, End: 2}}, lemmatized.Match(doc))
}

func TestEntityRulerPrefersLongestMatch(t *testing.T) {
	rules, err := patterns.BuiltinRuleSet(patterns.TaskGeneratorRules)
	require.NoError(t, err)
	matcher, err := rules.Matcher(patterns.CompileOptions{Lemmatizer: nlp.NewRuleLemmatizer()}, nil)
	require.NoError(t, err)

	doc := makeDoc("I/PRON have/VERB severe/ADJ depression/NOUN and/CCONJ acne/NOUN")
	patterns.NewEntityRuler(matcher, true).Apply(doc)

	require.Len(t, doc.Entities, 2)
	assert.Equal(t, "severe depression", doc.Entities[0].Text)
	assert.Equal(t, 2, doc.Entities[0].Start)
	assert.Equal(t, 4, doc.Entities[0].End)
	assert.Equal(t, 7, doc.Entities[0].StartChar)
	assert.Equal(t, "acne", doc.Entities[1].Text)
	assert.Equal(t, "COND", doc.Entities[1].Label)
}

func TestEntityRulerTiesPreferLaterMatch(t *testing.T) {
	doc := makeDoc("back/NOUN pain/NOUN flu/NOUN")
	matcher := patterns.NewMatcher(compile(t, `[POS=NOUN] [POS=NOUN]`, patterns.CompileOptions{}))

	patterns.NewEntityRuler(matcher, true).Apply(doc)

	require.Len(t, doc.Entities, 1)
	assert.Equal(t, "pain flu", doc.Entities[0].Text)
}

func TestEntityRulerOverwrite(t *testing.T) {
	matcher := patterns.NewMatcher(compile(t, `[POS=ADJ] [POS=NOUN]`, patterns.CompileOptions{}))

	doc := makeDoc("chronic/ADJ migraine/NOUN")
	doc.Entities = []types.Entity{doc.NewEntity("DISEASE", 1, 2)}
	patterns.NewEntityRuler(matcher, true).Apply(doc)
	require.Len(t, doc.Entities, 1)
	assert.Equal(t, "COND", doc.Entities[0].Label)
	assert.Equal(t, "chronic migraine", doc.Entities[0].Text)

	doc = makeDoc("chronic/ADJ migraine/NOUN")
	doc.Entities = []types.Entity{doc.NewEntity("DISEASE", 1, 2)}
	patterns.NewEntityRuler(matcher, false).Apply(doc)
	require.Len(t, doc.Entities, 1)
	assert.Equal(t, "DISEASE", doc.Entities[0].Label)
}

func TestEntityRulerNoOverlaps(t *testing.T) {
	rules, err := patterns.BuiltinRuleSet(patterns.PatternTrainingRules)
	require.NoError(t, err)
	matcher, err := rules.Matcher(patterns.CompileOptions{}, nil)
	require.NoError(t, err)

	doc := makeDoc("lung/NOUN cancer/NOUN and/CCONJ a/DET herniated/VERB disc/NOUN")
	assert.Len(t, matcher.Match(doc), 3)

	patterns.NewEntityRuler(matcher, true).Apply(doc)
	require.Len(t, doc.Entities, 2)
	for i := 1; i < len(doc.Entities); i++ {
		assert.False(t, doc.Entities[i-1].Overlaps(doc.Entities[i]))
	}
}

func TestBuiltinRuleSets(t *testing.T) {
	for _, name := range []string{patterns.TaskGeneratorRules, patterns.PatternTrainingRules, patterns.AbbreviationRules} {
		rules, err := patterns.BuiltinRuleSet(name)
		require.NoError(t, err, name)
		assert.Equal(t, []string{"COND"}, rules.Labels())
		_, err = rules.Compile(patterns.CompileOptions{}, nil)
		require.NoError(t, err, name)
	}

	rules, err := patterns.BuiltinRuleSet(patterns.TaskGeneratorRules)
	require.NoError(t, err)
	assert.Len(t, rules.Vocabularies["conditions"], 20)
	assert.Len(t, rules.Rules, 3)

	_, err = patterns.BuiltinRuleSet("missing")
	assert.Error(t, err)
}

func TestExtraVocabularyOverridesRuleSet(t *testing.T) {
	rules, err := patterns.BuiltinRuleSet(patterns.AbbreviationRules)
	require.NoError(t, err)

	matcher, err := rules.Matcher(patterns.CompileOptions{}, map[string][]string{"abbreviations": {"gerd"}})
	require.NoError(t, err)

	doc := makeDoc("my/DET GERD/NOUN flares/VERB")
	assert.Equal(t, []patterns.Match{{Label: "COND", Start: 1, End: 2}}, matcher.Match(doc))
}

func TestParseRuleSetValidation(t *testing.T) {
	_, err := patterns.ParseRuleSet([]byte("rules: []"))
	assert.Error(t, err)

	_, err = patterns.ParseRuleSet([]byte("rules:\n  - label: COND\n"))
	assert.Error(t, err)

	_, err = patterns.ParseRuleSet([]byte("unknown: 1\nrules:\n  - label: COND\n    pattern: '[]'\n"))
	assert.Error(t, err)

	rs, err := patterns.ParseRuleSet([]byte("rules:\n  - label: COND\n    pattern: '[LOWER=\"flu\"]'\n"))
	require.NoError(t, err)
	assert.Len(t, rs.Rules, 1)
}
