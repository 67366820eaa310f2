package validation

import (
	"fmt"
	"strings"
)

// Message renders one human-readable sentence for a failed rule token,
// substituting the rule parameter where it has one.
func Message(field, token string) string {
	r := ParseRule(token)
	switch r.kind {
	case ruleRequired:
		return fmt.Sprintf("The %s field is required.", field)
	case ruleString:
		return fmt.Sprintf("The %s field must be a string.", field)
	case ruleMax:
		return fmt.Sprintf("The %s field must not be greater than %d characters.", field, r.limit)
	case ruleMin:
		return fmt.Sprintf("The %s field must be at least %d characters.", field, r.limit)
	case ruleInteger:
		return fmt.Sprintf("The %s field must be an integer.", field)
	case ruleBoolean:
		return fmt.Sprintf("The %s field must be true or false.", field)
	case ruleNumeric:
		return fmt.Sprintf("The %s field must be a number.", field)
	case ruleEmail:
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case ruleDate:
		return fmt.Sprintf("The %s field must be a valid date.", field)
	case ruleIn:
		return fmt.Sprintf("The %s field must be one of %s.", field, strings.Join(r.set, ", "))
	case ruleURL:
		return fmt.Sprintf("The %s field must be a valid URL.", field)
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}

// MessageMap expands a failure map into per-field sentences, keeping
// the per-field rule order.
func MessageMap(e Errors) map[string][]string {
	if len(e) == 0 {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(e))
	for field, tokens := range e {
		msgs := make([]string, 0, len(tokens))
		for _, t := range tokens {
			msgs = append(msgs, Message(field, t))
		}
		out[field] = msgs
	}
	return out
}
