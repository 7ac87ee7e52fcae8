package patterns

import (
	"embed"
	"fmt"
	"io"
	"maps"

	"gopkg.in/yaml.v2"
)

//go:embed rules/*.yaml
var builtinRules embed.FS

const (
	TaskGeneratorRules   = "task_generator"
	PatternTrainingRules = "pattern_training"
	AbbreviationRules    = "abbreviations"
)

type Rule struct {
	Label   string `yaml:"label"`
	Pattern string `yaml:"pattern"`
}

type RuleSet struct {
	Vocabularies map[string][]string `yaml:"vocabularies"`
	Rules        []Rule              `yaml:"rules"`
}

func ParseRuleSet(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.UnmarshalStrict(data, &rs); err != nil {
		return nil, fmt.Errorf("error parsing rule set: %w", err)
	}
	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("rule set has no rules")
	}
	for i, rule := range rs.Rules {
		if rule.Label == "" || rule.Pattern == "" {
			return nil, fmt.Errorf("rule %d must have a label and a pattern", i)
		}
	}
	return &rs, nil
}

func ReadRuleSet(r io.Reader) (*RuleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading rule set: %w", err)
	}
	return ParseRuleSet(data)
}

func BuiltinRuleSet(name string) (*RuleSet, error) {
	data, err := builtinRules.ReadFile("rules/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin rule set '%s': %w", name, err)
	}
	return ParseRuleSet(data)
}

// Compile compiles every rule. Vocabularies in extra override those of the
// rule set with the same name.
func (rs *RuleSet) Compile(opts CompileOptions, extra map[string][]string) ([]*Pattern, error) {
	vocab := make(map[string][]string, len(rs.Vocabularies)+len(extra))
	maps.Copy(vocab, rs.Vocabularies)
	maps.Copy(vocab, opts.Vocabularies)
	maps.Copy(vocab, extra)
	opts.Vocabularies = vocab

	patterns := make([]*Pattern, 0, len(rs.Rules))
	for _, rule := range rs.Rules {
		p, err := Compile(rule.Label, rule.Pattern, opts)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func (rs *RuleSet) Matcher(opts CompileOptions, extra map[string][]string) (*Matcher, error) {
	patterns, err := rs.Compile(opts, extra)
	if err != nil {
		return nil, err
	}
	return NewMatcher(patterns...), nil
}

func (rs *RuleSet) Labels() []string {
	seen := map[string]struct{}{}
	var labels []string
	for _, rule := range rs.Rules {
		if _, ok := seen[rule.Label]; !ok {
			seen[rule.Label] = struct{}{}
			labels = append(labels, rule.Label)
		}
	}
	return labels
}
