// Package validation checks request payloads against declarative,
// string-token rule sets. A rule set maps field names to ordered rule
// lists ("required", "string", "max:255", "in:red,green", ...); the
// result is a map from field name to the tokens that failed, so an
// empty result means the payload is valid.
//
// Validation failures are expected, caller-correctable conditions.
// They are returned as plain values and never reported as errors.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// vd runs the leaf syntax checks (email, url).
var vd = validator.New()

// dateLayouts are the timestamp shapes the "date" rule accepts.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Errors maps field names to the rule tokens that failed, in the order
// the rules were declared. An empty map means the payload passed.
type Errors map[string][]string

// Valid reports whether no rule failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Validate evaluates every field in rules against payload. A field
// carrying "sometimes" is skipped entirely when absent from the
// payload; otherwise an absent field is validated as null. All failing
// rules for a field are collected, not just the first.
func Validate(rules RuleSet, payload map[string]any) Errors {
	out := Errors{}
	for field, list := range rules {
		value, present := payload[field]
		if !present && hasRule(list, ruleSometimes) {
			continue
		}
		if failed := checkField(list, value); len(failed) > 0 {
			out[field] = failed
		}
	}
	return out
}

// Check is the one-shot form: parse the declaration, then validate.
func Check(spec map[string][]string, payload map[string]any) Errors {
	return Validate(ParseRules(spec), payload)
}

func checkField(list []Rule, value any) []string {
	var failed []string
	for _, r := range list {
		if r.kind == ruleNullable {
			if isEmpty(value) {
				break
			}
			continue
		}
		if !passes(r, value) {
			failed = append(failed, r.Token)
		}
	}
	return failed
}

func passes(r Rule, v any) bool {
	switch r.kind {
	case ruleRequired:
		return !isEmpty(v)
	case ruleString:
		if v == nil {
			return true
		}
		_, ok := v.(string)
		return ok
	case ruleMax:
		if v == nil {
			return true
		}
		s, ok := stringForm(v)
		return ok && utf8.RuneCountInString(s) <= r.limit
	case ruleMin:
		if v == nil {
			return true
		}
		s, ok := stringForm(v)
		return ok && utf8.RuneCountInString(s) >= r.limit
	case ruleInteger:
		return v == nil || isInteger(v)
	case ruleBoolean:
		return v == nil || isBoolean(v)
	case ruleNumeric:
		return v == nil || isNumeric(v)
	case ruleEmail:
		if v == nil {
			return true
		}
		s, ok := v.(string)
		return ok && vd.Var(s, "email") == nil
	case ruleDate:
		return v == nil || isDate(v)
	case ruleIn:
		if v == nil {
			return true
		}
		s, ok := stringForm(v)
		if !ok {
			s = fmt.Sprint(v)
		}
		for _, allowed := range r.set {
			if s == allowed {
				return true
			}
		}
		return false
	case ruleURL:
		if v == nil {
			return true
		}
		s, ok := v.(string)
		return ok && vd.Var(s, "url") == nil
	}
	// Unknown tokens and "sometimes" never fail.
	return true
}

// isEmpty treats null and the empty string as absent. Used by the
// "required" and "null" rules; the other rules bypass only on null.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// stringForm renders strings and numerics as text for length and set
// membership checks. Anything else reports not representable.
func stringForm(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

func isNumeric(v any) bool {
	switch t := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(t, 64)
		return err == nil
	}
	return false
}

func isInteger(v any) bool {
	switch t := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return float64(t) == math.Trunc(float64(t))
	case float64:
		return t == math.Trunc(t)
	case string:
		_, err := strconv.ParseInt(t, 10, 64)
		return err == nil
	}
	return false
}

func isBoolean(v any) bool {
	switch t := v.(type) {
	case bool:
		return true
	case string:
		return t == "0" || t == "1"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		s, _ := stringForm(t)
		return s == "0" || s == "1"
	}
	return false
}

func isDate(v any) bool {
	switch t := v.(type) {
	case time.Time:
		return true
	case string:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, t); err == nil {
				return true
			}
		}
	}
	return false
}
