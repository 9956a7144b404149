package lakehouse

import (
	"fmt"
	"strconv"
	"time"
)

// The Trino driver hands back typed values for integer and date
// columns but leaves DECIMAL results as strings.

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func toTime(v any) time.Time {
	switch d := v.(type) {
	case time.Time:
		return d
	case string:
		if ts, err := time.Parse("2006-01-02", d); err == nil {
			return ts
		}
		if ts, err := time.Parse(time.RFC3339, d); err == nil {
			return ts
		}
		return time.Time{}
	default:
		return time.Time{}
	}
}
