// Package redact replaces known sensitive name strings with fixed placeholder
// tokens before any text is shown to a caller.
package redact

import (
	"sort"
	"strings"
)

// Placeholder classes. Staff names and property/building names are the two
// kinds of identifying strings in the reference lists.
const (
	StaffPlaceholder    = "[STAFF]"
	PropertyPlaceholder = "[PROPERTY]"
)

type rule struct {
	name        string
	placeholder string
}

// RuleSet is an immutable, pre-ordered set of masking rules. Rules are sorted
// longest-first within each class once at build time, so a name that is a
// substring of a longer name can never leave a dangling fragment, and per-text
// cost stays linear.
//
// Matching is exact-substring and case-sensitive. That is what tolerates
// unsegmented Japanese text, where word boundaries do not exist to anchor on.
// A deployment over whitespace-delimited corpora would want boundary-aware
// matching instead.
type RuleSet struct {
	rules []rule
}

// NewRuleSet builds a rule set from the two reference lists. Blank names are
// dropped; an empty rule set applies as the identity function.
func NewRuleSet(staff, properties []string) *RuleSet {
	rules := make([]rule, 0, len(staff)+len(properties))
	rules = append(rules, classRules(staff, StaffPlaceholder)...)
	rules = append(rules, classRules(properties, PropertyPlaceholder)...)
	return &RuleSet{rules: rules}
}

func classRules(names []string, placeholder string) []rule {
	rules := make([]rule, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		rules = append(rules, rule{name: name, placeholder: placeholder})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].name) > len(rules[j].name)
	})
	return rules
}

// Apply masks every occurrence of every known name in the text.
func (rs *RuleSet) Apply(text string) string {
	if text == "" {
		return ""
	}
	for _, r := range rs.rules {
		text = strings.ReplaceAll(text, r.name, r.placeholder)
	}
	return text
}

// Len returns the number of active rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }
