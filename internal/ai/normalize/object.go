package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Object is a loosely typed JSON object read with case-insensitive keys. It
// remembers the order keys appeared in the payload.
type Object struct {
	fields map[string]any
	keys   []string
}

// asObject returns v as an Object when it is a JSON object. Plain maps have no
// key order; their keys are taken in sorted order.
func asObject(v any) (Object, bool) {
	switch o := v.(type) {
	case Object:
		return o, true
	case map[string]any:
		obj := Object{fields: make(map[string]any, len(o))}
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.set(k, o[k])
		}
		return obj, true
	default:
		return Object{}, false
	}
}

// set keeps the position of the first occurrence; a repeated key overwrites
// the value only.
func (o *Object) set(key string, v any) {
	if o.fields == nil {
		o.fields = make(map[string]any)
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// exact reads key without case folding.
func (o Object) exact(key string) (any, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o Object) Len() int { return len(o.keys) }

// Lookup tries the exact key first, then the earliest key whose lowercase form
// equals the lowercase target. A JSON null counts as present.
func (o Object) Lookup(key string) (any, bool) {
	if v, ok := o.fields[key]; ok {
		return v, true
	}

	lower := strings.ToLower(key)
	for _, k := range o.keys {
		if strings.ToLower(k) == lower {
			return o.fields[k], true
		}
	}
	return nil, false
}

// MarshalJSON writes the fields in payload order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(o.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get is Lookup without the presence flag.
func (o Object) Get(key string) any {
	v, _ := o.Lookup(key)
	return v
}

// First returns the first truthy value among keys.
func (o Object) First(keys ...string) (any, bool) {
	for _, key := range keys {
		if v := o.Get(key); truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// Object returns the nested object stored under key.
func (o Object) Object(key string) (Object, bool) {
	return asObject(o.Get(key))
}

// Number reads key and coerces it to a finite number.
func (o Object) Number(key string) (float64, bool) {
	v, ok := o.Lookup(key)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// NumberOr is Number with a default for absent or unreadable values.
func (o Object) NumberOr(key string, def float64) float64 {
	if n, ok := o.Number(key); ok {
		return n
	}
	return def
}

// Text returns the first truthy value among keys as a string, or def.
func (o Object) Text(def string, keys ...string) string {
	if v, ok := o.First(keys...); ok {
		return coerceString(v)
	}
	return def
}

// List accepts a JSON array or a comma-separated string, whose segments are
// trimmed and kept even when blank. Anything else yields an empty, non-nil list.
func (o Object) List(key string) []string {
	out := make([]string, 0)

	switch val := o.Get(key).(type) {
	case []any:
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, coerceString(item))
		}
	case string:
		for _, part := range strings.Split(val, ",") {
			out = append(out, strings.TrimSpace(part))
		}
	}

	return out
}

// toNumber coerces values the way a weakly typed reader would: null, blank
// strings and false are 0, true is 1, numeric strings parse, and arrays read
// as their comma-joined text. Objects and non-finite values are not numbers.
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, true
	case Object, map[string]any:
		return 0, false
	case []any:
		return toNumber(looseString(val))
	case string:
		v = strings.TrimSpace(val)
	}

	var f float64
	if err := mapstructure.WeakDecode(v, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}

// looseString renders a scalar the way it reads when compared as text, e.g.
// true -> "true", 1 -> "1", null -> "null".
func looseString(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			if item != nil {
				parts[i] = looseString(item)
			}
		}
		return strings.Join(parts, ",")
	default:
		return coerceString(v)
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
