package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// typePrefix marks a value that is not a plain string.
const typePrefix = ":"

// EncodeValue renders a value for use in a path segment or query value.
// Strings are emitted as-is; everything else is prefixed with ":" and
// rendered as JSON.
func EncodeValue(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case nil:
		return typePrefix + "null", nil
	case bool:
		return typePrefix + strconv.FormatBool(x), nil
	case int:
		return typePrefix + strconv.Itoa(x), nil
	case int64:
		return typePrefix + strconv.FormatInt(x, 10), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return typePrefix + "null", nil
		}
		return typePrefix + strconv.FormatFloat(x, 'f', -1, 64), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return typePrefix + string(b), nil
}

// DecodeValue reverses EncodeValue. Strings that are not valid typed
// values are returned unchanged.
func DecodeValue(s string) any {
	if !strings.HasPrefix(s, typePrefix) {
		return s
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s[len(typePrefix):])))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	return normalizeNumbers(v)
}

func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := strconv.Atoi(x.String()); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	}
	return v
}
