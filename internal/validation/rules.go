package validation

import (
	"strconv"
	"strings"
)

type ruleKind int

const (
	ruleUnknown ruleKind = iota
	ruleRequired
	ruleSometimes
	ruleNullable
	ruleString
	ruleMax
	ruleMin
	ruleInteger
	ruleBoolean
	ruleNumeric
	ruleEmail
	ruleDate
	ruleIn
	ruleURL
)

// Rule is one parsed constraint. Token keeps the original text so a
// failure can be reported exactly as the caller declared it.
type Rule struct {
	Token string
	kind  ruleKind
	limit int
	set   []string
}

// RuleSet maps field names to their constraints in declared order.
type RuleSet map[string][]Rule

// ParseRule turns a single token such as "max:255" or "in:red,green"
// into a Rule. Unrecognized tokens, including ones with a malformed
// parameter, parse to a rule that never fails.
func ParseRule(token string) Rule {
	r := Rule{Token: token}
	name, param, _ := strings.Cut(token, ":")

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "required":
		r.kind = ruleRequired
	case "sometimes":
		r.kind = ruleSometimes
	case "null", "nullable":
		r.kind = ruleNullable
	case "string":
		r.kind = ruleString
	case "max":
		r.kind = ruleMax
		n, err := strconv.Atoi(strings.TrimSpace(param))
		if err != nil {
			r.kind = ruleUnknown
		}
		r.limit = n
	case "min":
		r.kind = ruleMin
		n, err := strconv.Atoi(strings.TrimSpace(param))
		if err != nil {
			r.kind = ruleUnknown
		}
		r.limit = n
	case "integer":
		r.kind = ruleInteger
	case "boolean":
		r.kind = ruleBoolean
	case "numeric":
		r.kind = ruleNumeric
	case "email":
		r.kind = ruleEmail
	case "date":
		r.kind = ruleDate
	case "in":
		r.kind = ruleIn
		for _, s := range strings.Split(param, ",") {
			r.set = append(r.set, strings.TrimSpace(s))
		}
	case "url":
		r.kind = ruleURL
	default:
		r.kind = ruleUnknown
	}
	return r
}

// ParseRules parses a whole declaration, one token list per field.
func ParseRules(spec map[string][]string) RuleSet {
	out := make(RuleSet, len(spec))
	for field, tokens := range spec {
		rules := make([]Rule, 0, len(tokens))
		for _, t := range tokens {
			rules = append(rules, ParseRule(t))
		}
		out[field] = rules
	}
	return out
}

func hasRule(list []Rule, kind ruleKind) bool {
	for _, r := range list {
		if r.kind == kind {
			return true
		}
	}
	return false
}
