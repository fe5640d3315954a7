package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	"github.com/xeipuuv/gojsonschema"
)

type args map[string]any

// ParseArguments decodes a serialized argument payload. Anything that is not a
// JSON object degrades to an empty argument set.
func ParseArguments(raw string) map[string]any {
	out := map[string]any{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

func toArgs(v any) args {
	switch t := v.(type) {
	case map[string]any:
		return args(t)
	case args:
		return t
	case string:
		return args(ParseArguments(t))
	default:
		return args{}
	}
}

// clone copies a, including nested objects, so coercion never touches the
// caller's map.
func (a args) clone() args {
	out := make(args, len(a))
	for k, v := range a {
		if nested, ok := v.(map[string]any); ok {
			v = map[string]any(args(nested).clone())
		}
		out[k] = v
	}
	return out
}

func (a args) str(key string) string {
	switch v := a[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (a args) integer(key string) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}

func (a args) number(key string) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

func (a args) object(key string) args {
	if v, ok := a[key].(map[string]any); ok {
		return args(v)
	}
	return nil
}

// missing lists required keys whose values are absent or empty. Zero counts as
// empty so that party_size 0 is reported rather than booked.
func (a args) missing(keys ...string) []string {
	var out []string
	for _, key := range keys {
		if isEmpty(a[key]) {
			out = append(out, key)
		}
	}
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case bool:
		return !t
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

func missingMessage(fields []string) string {
	if len(fields) == 1 {
		return "Missing required parameter: " + fields[0]
	}
	return "Missing required parameters: " + strings.Join(fields, ", ")
}

// coerceNumbers turns numeric strings into numbers for integer and number
// params. Models frequently quote counts.
func coerceNumbers(params []contractx.ParamSpec, a args) {
	for _, p := range params {
		v, ok := a[p.Name]
		if !ok {
			continue
		}
		switch p.Type {
		case contractx.ParamInteger, contractx.ParamNumber:
			s, isString := v.(string)
			if !isString {
				continue
			}
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) {
				a[p.Name] = f
			}
		case contractx.ParamObject:
			if nested, isMap := v.(map[string]any); isMap {
				coerceNumbers(p.Properties, args(nested))
			}
		}
	}
}

func compileSchemas(specs []contractx.ToolSpec) (map[string]*gojsonschema.Schema, error) {
	out := make(map[string]*gojsonschema.Schema, len(specs))
	for _, spec := range specs {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(spec.InputSchema()))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for tool=%s: %w", spec.Name, err)
		}
		out[spec.Name] = schema
	}
	return out, nil
}

// validationMessage returns "" when a satisfies schema.
func validationMessage(schema *gojsonschema.Schema, a args) (string, error) {
	if schema == nil {
		return "", nil
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(map[string]any(a)))
	if err != nil {
		return "", fmt.Errorf("validate arguments: %w", err)
	}
	if result.Valid() {
		return "", nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return "Invalid parameters: " + strings.Join(details, "; "), nil
}

var slotLayouts = []string{"15:04", "15:04:05", "3:04PM", "3:04 PM", "3PM", "3 PM"}

// normalizeSlot rewrites common time spellings to HH:MM. Unrecognised values
// are returned trimmed but otherwise untouched.
func normalizeSlot(raw string) string {
	raw = strings.TrimSpace(raw)
	candidate := strings.ToUpper(raw)
	for _, layout := range slotLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format("15:04")
		}
	}
	return raw
}
