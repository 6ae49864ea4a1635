// Package normalize turns loosely formatted cell values and labels into
// canonical forms used by ingestion, search and matching.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// sentinels are the placeholder tokens nutrition tables use for "not
// analysed" (NA), "trace" (Tr) and blank cells. Compared after trimming and
// upper-casing.
var sentinels = map[string]bool{
	"NA": true,
	"TR": true,
	"-":  true,
	"*":  true,
	"":   true,
}

// Number converts a raw cell value into a float64. It never panics and
// never fails: missing values, sentinel tokens, non-finite values and
// anything that does not parse all become 0. A decimal comma is accepted.
func Number(raw any) float64 {
	switch value := raw.(type) {
	case nil:
		return 0
	case float64:
		return finite(value)
	case float32:
		return finite(float64(value))
	case int:
		return float64(value)
	case int8:
		return float64(value)
	case int16:
		return float64(value)
	case int32:
		return float64(value)
	case int64:
		return float64(value)
	case uint:
		return float64(value)
	case uint8:
		return float64(value)
	case uint16:
		return float64(value)
	case uint32:
		return float64(value)
	case uint64:
		return float64(value)
	case *float64:
		if value == nil {
			return 0
		}
		return finite(*value)
	case *string:
		if value == nil {
			return 0
		}
		return parse(*value)
	case json.Number:
		return parse(value.String())
	case string:
		return parse(value)
	case []byte:
		return parse(string(value))
	case fmt.Stringer:
		return parse(value.String())
	default:
		return parse(fmt.Sprint(value))
	}
}

func parse(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if sentinels[strings.ToUpper(trimmed)] {
		return 0
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil {
		return 0
	}
	return finite(parsed)
}

func finite(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
