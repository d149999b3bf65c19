package signature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Flatten merges the scalar top-level event fields with the fields of
// data.order into one mapping. Fields listed in required are present even
// when the payload omits them.
func Flatten(rawBody []byte, required []string) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(rawBody))
	dec.UseNumber()

	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("flatten payload: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("flatten payload: not an object")
	}

	flat := make(map[string]string, len(root)+len(required))
	for _, field := range required {
		flat[field] = ""
	}

	for key, value := range root {
		if key == "data" {
			if data, ok := value.(map[string]any); ok {
				if order, ok := data["order"].(map[string]any); ok {
					for orderKey, orderValue := range order {
						flat[orderKey] = stringify(orderValue)
					}
				}
				continue
			}
		}
		flat[key] = stringify(value)
	}

	return flat, nil
}

// Concatenate joins the values of flat in lexicographic key order without separators.
func Concatenate(flat map[string]string) string {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(flat[key])
	}
	return b.String()
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
