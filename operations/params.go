package operations

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kbukum/engineconnector/errors"
	"github.com/kbukum/engineconnector/validation"
)

// Params are the loosely typed inputs of one operation, as decoded from JSON.
type Params map[string]any

// Value returns the raw value for key.
func (p Params) Value(key string) any {
	if p == nil {
		return nil
	}
	return p[key]
}

// Has reports whether key is present with a non-nil value.
func (p Params) Has(key string) bool {
	return p.Value(key) != nil
}

// String returns key as a string. Numbers are formatted, nil is "".
func (p Params) String(key string) string {
	switch v := p.Value(key).(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Require reports MISSING_FIELD naming every key that is absent or blank.
func (p Params) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if isBlank(p.Value(key)) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return errors.MissingField(missing...)
	}
	return nil
}

// Bool reads key as a boolean. Besides true and false it accepts the strings
// "true", "1", "yes", "on" and their negations, and numbers (non-zero is
// true). An absent key yields def.
func (p Params) Bool(key string, def bool) (bool, error) {
	switch v := p.Value(key).(type) {
	case nil:
		return def, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off", "":
			return false, nil
		}
	case float64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case json.Number:
		f, err := v.Float64()
		if err == nil {
			return f != 0, nil
		}
	}
	return false, errors.InvalidInput(key, fmt.Sprintf("%s must be a boolean", key))
}

// Flag reads key as a boolean and returns it as the engine's 1 or 0 query flag.
func (p Params) Flag(key string, def bool) (int, error) {
	b, err := p.Bool(key, def)
	if err != nil {
		return 0, err
	}
	if b {
		return 1, nil
	}
	return 0, nil
}

// JSON reads key as a JSON document given either as an object or list, or as
// a string holding one. Absent and empty values yield nil.
func (p Params) JSON(key string) (any, error) {
	switch v := p.Value(key).(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var out any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, errors.InvalidInput(key, fmt.Sprintf("%s must be valid JSON", key)).WithCause(err)
		}
		return out, nil
	case map[string]any, []any:
		return v, nil
	default:
		return nil, errors.InvalidInput(key, fmt.Sprintf("%s must be a JSON object or string", key))
	}
}

// Strings reads key as a list of strings. A single string becomes a
// one-element list.
func (p Params) Strings(key string) ([]string, error) {
	switch v := p.Value(key).(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.InvalidInput(key, fmt.Sprintf("%s must be a list of strings", key))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.InvalidInput(key, fmt.Sprintf("%s must be a string or list of strings", key))
	}
}

// Bytes reads key as base64-encoded binary content.
func (p Params) Bytes(key string) ([]byte, error) {
	s := p.String(key)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.InvalidInput(key, fmt.Sprintf("%s must be base64 encoded", key)).WithCause(err)
	}
	return data, nil
}

// ObjectName checks key against the engine's naming rule for networks and volumes.
func (p Params) ObjectName(key string) error {
	return validation.New().ObjectName(key, p.String(key)).Validate()
}

// pick copies the keys present in params into a new body.
func (p Params) pick(keys ...string) map[string]any {
	out := make(map[string]any)
	for _, key := range keys {
		if v, ok := p[key]; ok && v != nil {
			out[key] = v
		}
	}
	return out
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
