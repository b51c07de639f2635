package normalize

import (
	"regexp"
	"strings"
)

// Stage is one tolerance rule of the decoding pipeline. Apply returns the
// possibly replaced context and whether the rule fired.
type Stage interface {
	Name() string
	Apply(v any) (any, bool)
}

// DefaultStages returns the envelope and nested-payload rules in the order they run.
func DefaultStages() []Stage {
	return []Stage{
		arrayEnvelope{},
		bodyEnvelope{},
		dataEnvelope{},
		nestedJSON{},
	}
}

// arrayEnvelope replaces an array with its first element, or an empty object.
type arrayEnvelope struct{}

func (arrayEnvelope) Name() string { return "array_envelope" }

func (arrayEnvelope) Apply(v any) (any, bool) {
	items, ok := v.([]any)
	if !ok {
		return v, false
	}
	if len(items) == 0 {
		return Object{}, true
	}
	return items[0], true
}

// bodyEnvelope unwraps {"body": {...}}. The key is matched exactly.
type bodyEnvelope struct{}

func (bodyEnvelope) Name() string { return "body_envelope" }

func (bodyEnvelope) Apply(v any) (any, bool) {
	obj, ok := asObject(v)
	if !ok {
		return v, false
	}
	inner, _ := obj.exact("body")
	body, ok := asObject(inner)
	if !ok {
		return v, false
	}
	return body, true
}

// dataEnvelope unwraps {"data": {...}} only when the nested object carries
// analysis fields, so an unrelated data attribute is left alone.
type dataEnvelope struct{}

var dataMarkers = []string{"score", "summary", "analysis_breakdown"}

func (dataEnvelope) Name() string { return "data_envelope" }

func (dataEnvelope) Apply(v any) (any, bool) {
	obj, ok := asObject(v)
	if !ok {
		return v, false
	}
	inner, _ := obj.exact("data")
	data, ok := asObject(inner)
	if !ok {
		return v, false
	}
	for _, key := range dataMarkers {
		if _, found := data.exact(key); found {
			return data, true
		}
	}
	return v, false
}

// nestedJSON handles payloads where the model output was stored as a string,
// e.g. {"output": "```json\n{...}\n```"}. It only runs when no score is present.
type nestedJSON struct{}

var (
	nestedKeys   = []string{"output", "json", "content"}
	fenceMarkers = regexp.MustCompile("```json\\n?|\\n?```")
)

func (nestedJSON) Name() string { return "nested_json" }

func (nestedJSON) Apply(v any) (any, bool) {
	obj, ok := asObject(v)
	if !ok {
		return v, false
	}
	if _, found := obj.Lookup("score"); found {
		return v, false
	}

	candidate, ok := obj.First(nestedKeys...)
	if !ok {
		return v, false
	}
	text, ok := candidate.(string)
	if !ok || !looksLikeJSON(text) {
		return v, false
	}

	nested, err := decodeJSON([]byte(StripFences(text)))
	if err != nil {
		return v, false
	}
	nestedObj, ok := asObject(nested)
	if !ok {
		return v, false
	}

	return nestedObj, true
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "{") || strings.Contains(s, "```json")
}

// StripFences removes markdown ```json fences around a JSON document.
func StripFences(s string) string {
	return strings.TrimSpace(fenceMarkers.ReplaceAllString(s, ""))
}
