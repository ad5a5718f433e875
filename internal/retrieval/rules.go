package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rcliao/page-enhancer/internal/model"
)

// Placeholders substituted into rule answers.
const (
	PhonePlaceholder   = "{phone}"
	AddressPlaceholder = "{address}"
)

// RuleTemplate is the configured form of an intent rule. Patterns are
// regular expressions matched against the normalized question.
type RuleTemplate struct {
	Exemplar string   `koanf:"exemplar" yaml:"exemplar" json:"exemplar"`
	Patterns []string `koanf:"patterns" yaml:"patterns" json:"patterns"`
	Answer   string   `koanf:"answer" yaml:"answer" json:"answer"`
}

// DefaultRuleTemplates returns the contact rules.
func DefaultRuleTemplates() []RuleTemplate {
	return []RuleTemplate{
		{
			Exemplar: "What is your phone number?",
			Patterns: []string{`\b(phone|tel|telephone|contact|call|num|appel)\w*`},
			Answer:   "You can reach them at " + PhonePlaceholder + ".",
		},
		{
			Exemplar: "Where are you located?",
			Patterns: []string{`\b(address|adresse|where|location|localisation|located)\w*`},
			Answer:   "Address found on the site: " + AddressPlaceholder,
		},
	}
}

// CompileTemplates checks every pattern of templates.
func CompileTemplates(templates []RuleTemplate) error {
	for i, t := range templates {
		if strings.TrimSpace(t.Exemplar) == "" {
			return fmt.Errorf("rule %d: exemplar is required", i)
		}
		if strings.TrimSpace(t.Answer) == "" {
			return fmt.Errorf("rule %d: answer is required", i)
		}
		for _, p := range t.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("rule %d: pattern %q: %w", i, p, err)
			}
		}
	}
	return nil
}

// BuildRules renders templates against facts, keeping their order. A rule
// whose answer needs a fact the page does not provide is dropped.
func BuildRules(templates []RuleTemplate, facts model.ContactFacts) ([]model.IntentRule, error) {
	var rules []model.IntentRule
	for i, t := range templates {
		if strings.Contains(t.Answer, PhonePlaceholder) && facts.Phone == "" {
			continue
		}
		if strings.Contains(t.Answer, AddressPlaceholder) && facts.Address == "" {
			continue
		}

		rule := model.IntentRule{
			Exemplar: t.Exemplar,
			Answer: strings.NewReplacer(
				PhonePlaceholder, facts.Phone,
				AddressPlaceholder, facts.Address,
			).Replace(t.Answer),
		}
		for _, p := range t.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("rule %d: pattern %q: %w", i, p, err)
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
