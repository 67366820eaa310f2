package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type castKind int

const (
	castNone castKind = iota
	castInt
	castFloat
	castBool
	castString
	castJSON
	castNull
	castDatetime
)

// datetimeLayouts are the stored shapes a datetime cast can parse.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type caster struct {
	kind   castKind
	layout string
}

// parseCast turns a directive such as "int" or "datetime:2006-01-02"
// into a caster. The parameter is cut at the first colon so datetime
// layouts may themselves contain colons. Unknown directives cast to
// nothing.
func parseCast(spec string) caster {
	name, param, _ := strings.Cut(spec, ":")
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "integer":
		return caster{kind: castInt}
	case "float", "double":
		return caster{kind: castFloat}
	case "bool", "boolean":
		return caster{kind: castBool}
	case "string":
		return caster{kind: castString}
	case "array", "json":
		return caster{kind: castJSON}
	case "null":
		return caster{kind: castNull}
	case "datetime", "date":
		layout := strings.TrimSpace(param)
		if layout == "" {
			layout = time.RFC3339
		}
		return caster{kind: castDatetime, layout: layout}
	}
	return caster{kind: castNone}
}

// apply transforms a raw stored value. A value the cast cannot make
// sense of passes through unchanged; casting never fails.
func (c caster) apply(v any) any {
	if v == nil {
		return nil
	}

	switch c.kind {
	case castInt:
		return castToInt(v)
	case castFloat:
		return castToFloat(v)
	case castBool:
		return castToBool(v)
	case castString:
		return castToString(v)
	case castJSON:
		return castToJSON(v)
	case castNull:
		if s, ok := v.(string); ok && s == "" {
			return nil
		}
		return v
	case castDatetime:
		return castToDatetime(v, c.layout)
	}
	return v
}

func castToInt(v any) any {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case bool:
		if t {
			return int64(1)
		}
		return int64(0)
	case float64:
		return int64(t)
	case float32:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return int64(f)
		}
	}
	return v
}

func castToFloat(v any) any {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case bool:
		if t {
			return float64(1)
		}
		return float64(0)
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return v
}

func castToBool(v any) any {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
	}
	return v
}

func castToString(v any) any {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v)
}

func castToJSON(v any) any {
	var raw []byte
	switch t := v.(type) {
	case string:
		raw = []byte(t)
	case []byte:
		raw = t
	default:
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// castToDatetime renders a stored value through layout. Only numeric
// values count as epoch seconds; text must match one of
// datetimeLayouts or it passes through, so digit-only strings are
// never reinterpreted as timestamps.
func castToDatetime(v any, layout string) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(layout)
	case int64:
		return time.Unix(t, 0).UTC().Format(layout)
	case int:
		return time.Unix(int64(t), 0).UTC().Format(layout)
	case float64:
		return time.Unix(int64(t), 0).UTC().Format(layout)
	case string:
		for _, l := range datetimeLayouts {
			if ts, err := time.Parse(l, t); err == nil {
				return ts.Format(layout)
			}
		}
	}
	return v
}
