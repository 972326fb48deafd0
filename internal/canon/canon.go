// Package canon produces a deterministic JSON serialization of block
// payloads. Two structurally equal values encode to identical bytes
// regardless of map iteration order; array order is preserved.
package canon

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Encode canonicalizes v into deterministic JSON. Object keys are sorted
// lexicographically at every nesting level, sequences keep their order.
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: failed to marshal value: %w", err)
	}

	// round-trip through the generic form so struct field order,
	// map key order and custom marshalers all collapse to one shape
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, fmt.Errorf("canon: failed to normalize value: %w", err)
	}

	out, err := json.Marshal(sortKeys(generic))
	if err != nil {
		return nil, fmt.Errorf("canon: failed to marshal canonical form: %w", err)
	}
	return out, nil
}

// sortKeys recursively sorts map keys and descends into nested structures.
func sortKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := &orderedMap{keys: keys, values: make(map[string]any, len(v))}
		for _, k := range keys {
			ordered.values[k] = sortKeys(v[k])
		}
		return ordered
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = sortKeys(item)
		}
		return result
	default:
		return value
	}
}

// orderedMap preserves key order during JSON marshaling.
type orderedMap struct {
	keys   []string
	values map[string]any
}

func (o *orderedMap) MarshalJSON() ([]byte, error) {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		v := o.values[k]
		if v == nil {
			buf.WriteString("null")
			continue
		}
		valBytes, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return []byte(buf.String()), nil
}
