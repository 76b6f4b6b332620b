package answerconfig

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// numericPattern accepts decimal integers and floats with an optional sign and
// exponent. Hex, inf and nan are not numeric answers.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func isNumeric(s string) bool {
	return numericPattern.MatchString(strings.TrimSpace(s))
}

// stringify returns the string form of a decoded JSON value. Scalars use
// their literal text, nil becomes "" and arrays or objects are re-encoded.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}

// asSequence returns v as a slice of values when it is an array or slice.
// Byte slices are JSON text, not sequences.
func asSequence(v any) ([]any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	case []byte, json.RawMessage:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func stringifyAll(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = stringify(v)
	}
	return out
}

// parseIndex coerces a correct index candidate to int. Integral numbers are
// taken as is; numeric strings are truncated toward zero. Anything else,
// including values outside the int range, is rejected.
func parseIndex(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return intFromFloat(cast.ToFloat64(val), true)
	case float32:
		return intFromFloat(float64(val), true)
	case float64:
		return intFromFloat(val, true)
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return intFromFloat(float64(n), true)
		}
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return intFromFloat(f, true)
	case string:
		if !isNumeric(val) {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return intFromFloat(f, false)
	}
	return 0, false
}

func intFromFloat(f float64, requireIntegral bool) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if requireIntegral && math.Trunc(f) != f {
		return 0, false
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
