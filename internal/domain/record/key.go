package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FormatKey renders a primary key value as a document identifier.
// Whole floats (as produced by JSON decoding) render without a fraction.
func FormatKey(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return k
	case json.Number:
		return k.String()
	case int:
		return strconv.Itoa(k)
	case int32:
		return strconv.FormatInt(int64(k), 10)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	case []byte:
		return string(k)
	default:
		return fmt.Sprint(k)
	}
}
