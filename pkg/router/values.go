package router

import (
	"math"
	"reflect"
	"strings"
	"unicode/utf8"
)

// isFalsy reports nil, false, "", zero numbers and NaN.
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	}
	return false
}

// prune copies values without nil entries.
func prune(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// reservedURI are the characters decodeURI leaves percent-encoded.
const reservedURI = ";/?:@&=+$,#"

// decodeURI decodes percent-encoded octets except those of reserved
// characters. Input that does not decode to valid UTF-8 is returned
// unchanged.
func decodeURI(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			c := unhex(s[i+1])<<4 | unhex(s[i+2])
			if c < utf8.RuneSelf && strings.IndexByte(reservedURI, c) >= 0 {
				b = append(b, s[i:i+3]...)
			} else {
				b = append(b, c)
			}
			i += 2
			continue
		}
		b = append(b, s[i])
	}

	if !utf8.Valid(b) {
		return s
	}
	return string(b)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
