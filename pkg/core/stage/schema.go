// Package stage executes one LLM-backed pipeline stage: it builds the
// instruction + schema contract, invokes the generative backend, and
// validates the returned structure. The backend is untrusted; every
// violation surfaces as a typed SchemaViolation the orchestrator converts
// into the stage's default payload.
package stage

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the required primitive type of a schema field.
type Kind int

const (
	String Kind = iota
	StringList
	StringMap
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case StringList:
		return "array of strings"
	case StringMap:
		return "object of strings"
	default:
		return "unknown"
	}
}

// Schema is the declarative shape contract for one stage: required key →
// required kind. One shared validation routine serves every stage.
type Schema map[string]Kind

// SchemaViolation reports generative output that failed its stage contract.
type SchemaViolation struct {
	Stage  string
	Detail string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("stage %s: schema violation: %s", e.Stage, e.Detail)
}

// Validate checks that every required key is present with the required
// primitive type. It reports all problems at once to keep logs useful.
func (s Schema) Validate(stageName string, data map[string]interface{}) error {
	var problems []string

	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		kind := s[key]
		val, ok := data[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing required key %q", key))
			continue
		}
		switch kind {
		case String:
			if _, ok := val.(string); !ok {
				problems = append(problems, fmt.Sprintf("key %q must be a string", key))
			}
		case StringList:
			if _, err := AsStringList(val); err != nil {
				problems = append(problems, fmt.Sprintf("key %q must be an array of strings", key))
			}
		case StringMap:
			if _, err := AsStringMap(val); err != nil {
				problems = append(problems, fmt.Sprintf("key %q must be an object of strings", key))
			}
		}
	}

	if len(problems) > 0 {
		return &SchemaViolation{Stage: stageName, Detail: strings.Join(problems, "; ")}
	}
	return nil
}

// Describe renders the schema as the JSON skeleton embedded in prompts.
func (s Schema) Describe() string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{\n")
	for i, key := range keys {
		switch s[key] {
		case String:
			fmt.Fprintf(&b, "  %q: \"...\"", key)
		case StringList:
			fmt.Fprintf(&b, "  %q: [\"...\"]", key)
		case StringMap:
			fmt.Fprintf(&b, "  %q: {\"...\": \"...\"}", key)
		}
		if i < len(keys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// AsStringList converts a parsed JSON value to []string.
func AsStringList(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("non-string element %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not a list: %T", v)
	}
}

// AsStringMap converts a parsed JSON value to map[string]string, rendering
// scalar non-string values with fmt to stay tolerant of numeric metrics.
func AsStringMap(v interface{}) (map[string]string, error) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("not an object: %T", v)
	}
	out := make(map[string]string, len(raw))
	for key, val := range raw {
		switch t := val.(type) {
		case string:
			out[key] = t
		case float64, bool, nil:
			out[key] = fmt.Sprintf("%v", t)
		default:
			return nil, fmt.Errorf("key %q has non-scalar value", key)
		}
	}
	return out, nil
}

// Str reads a validated string field.
func Str(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

// StrList reads a validated string-list field.
func StrList(data map[string]interface{}, key string) []string {
	list, err := AsStringList(data[key])
	if err != nil {
		return nil
	}
	return list
}
