package main

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

const (
	fallbackSeverity = "Low"
	fallbackAdvice   = "Self-care should be enough. Stay hydrated and rest."
)

// Rule maps symptom keywords to a severity and advice. Rules are evaluated in
// order and the first match wins.
type Rule struct {
	ID             string    `yaml:"id"`
	Severity       string    `yaml:"severity"`
	Match          RuleMatch `yaml:"match"`
	Recommendation string    `yaml:"recommendation"`
}

// RuleMatch defines the optional conditions of a rule.
type RuleMatch struct {
	SymptomsContain []string `yaml:"symptoms_contain"`
	MinAge          int      `yaml:"min_age"`
}

// RuleConfigFile is the YAML root structure.
type RuleConfigFile struct {
	Rules []Rule `yaml:"rules"`
}

// RuleEngine classifies symptom descriptions.
type RuleEngine struct {
	rules []Rule
}

// NewRuleEngine loads rules from path, or the embedded pack when path is empty
// or missing.
func NewRuleEngine(path string) (*RuleEngine, error) {
	data := defaultRules
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = raw
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}
	var cfg RuleConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &RuleEngine{rules: cfg.Rules}, nil
}

// Classify returns the severity and advice for one case.
func (e *RuleEngine) Classify(symptoms string, age int) (string, string) {
	text := strings.ToLower(symptoms)
	for _, rule := range e.rules {
		if rule.Match.MinAge > 0 && age < rule.Match.MinAge {
			continue
		}
		if len(rule.Match.SymptomsContain) > 0 && !containsAny(text, rule.Match.SymptomsContain) {
			continue
		}
		return rule.Severity, rule.Recommendation
	}
	return fallbackSeverity, fallbackAdvice
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
