package parser

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-opta-metrics/internal/model"
)

// dateLayouts are tried in order. Fractional seconds after the seconds field
// are accepted by time.Parse even though the layout does not name them.
var dateLayouts = []string{"2006-01-02T15:04:05", "2006-01-02"}

// coercer turns raw attribute strings into typed values, substituting the
// model sentinel on failure. It counts substitutions of non-empty input so
// callers can report how noisy a feed was.
type coercer struct {
	fallbacks int
}

func (c *coercer) toInt(s string) int {
	v, ok := ParseInt(s)
	if !ok && s != "" {
		c.fallbacks++
	}
	return v
}

func (c *coercer) toFloat(s string) float64 {
	v, ok := ParseFloat(s)
	if !ok && s != "" {
		c.fallbacks++
	}
	return v
}

func (c *coercer) toDate(s string) time.Time {
	v, ok := ParseDate(s)
	if !ok && s != "" {
		c.fallbacks++
	}
	return v
}

// ParseInt parses a base-10 integer attribute, returning model.UndefinedInt
// and false when s is empty or malformed.
func ParseInt(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return model.UndefinedInt, false
	}
	return v, true
}

// ParseFloat parses a floating point attribute, returning model.UndefinedFloat
// and false when s is empty, malformed or not finite (NaN, Inf).
func ParseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.UndefinedFloat, false
	}
	return v, true
}

// ParseDate parses YYYY-MM-DDTHH:MM:SS or YYYY-MM-DD, returning
// model.UndefinedDate and false otherwise.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return model.UndefinedDate, false
}
