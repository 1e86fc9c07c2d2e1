package category

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// CoerceID converts a raw identifier value to its canonical string form.
// Integral numbers format without a fractional part so that a JSON 3
// and a database int64 3 produce the same key. nil coerces to the empty
// string.
func CoerceID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case float64:
		if id == math.Trunc(id) && !math.IsInf(id, 0) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'g', -1, 64)
	case json.Number:
		return id.String()
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}

// CoerceCount converts a raw count value to a non-negative int.
// Unparseable or missing values default to zero.
func CoerceCount(v any) int {
	n := 0
	switch c := v.(type) {
	case nil:
	case int:
		n = c
	case int32:
		n = int(c)
	case int64:
		n = int(c)
	case float64:
		n = int(c)
	case json.Number:
		if i, err := c.Int64(); err == nil {
			n = int(i)
		}
	case string:
		if i, err := strconv.Atoi(c); err == nil {
			n = i
		}
	}
	if n < 0 {
		return 0
	}
	return n
}
