package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"company_research/pkg/models"
)

// CoerceFloat converts a raw provider value to a float64, stripping common
// formatting ("%", "$", thousands separators). Non-numeric input yields 0
// rather than failing the record.
func CoerceFloat(v interface{}) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimSuffix(s, "%")
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// CoerceInt64 converts a raw provider value to an int64 with the same
// tolerance as CoerceFloat.
func CoerceInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return int64(CoerceFloat(v))
	}
}

// CoerceMetric wraps a raw provider value as a display metric, collapsing
// missing or sentinel-equivalent input to "N/A".
func CoerceMetric(v interface{}) models.Metric {
	switch t := v.(type) {
	case nil:
		return models.NA()
	case string:
		return models.MetricOf(t)
	case float64:
		return models.MetricOf(trimFloat(t))
	case float32:
		return models.MetricOf(trimFloat(float64(t)))
	case int:
		return models.MetricOf(strconv.Itoa(t))
	case int64:
		return models.MetricOf(strconv.FormatInt(t, 10))
	default:
		return models.NA()
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%.2f", f)
}
