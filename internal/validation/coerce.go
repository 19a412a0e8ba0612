package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	msgNotString  = "%s must be a string"
	msgNotNumber  = "%s must be a number"
	msgNotInteger = "%s must be an integer"
	msgNotSafe    = "%s must be a safe number"
)

// toFloat accepts JSON numbers and numeric strings, the way query strings and
// loosely typed clients send them.
func toFloat(raw any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v := raw.(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// maxSafeInteger is the largest integer a float64, and so a JSON number,
// holds exactly.
const maxSafeInteger = 1<<53 - 1

// toInt returns the message format to report, or "" on success. Integers are
// kept as sent; only those a JSON number cannot represent exactly fail.
func toInt(raw any) (int, string) {
	f, ok := toFloat(raw)
	if !ok {
		return 0, msgNotNumber
	}
	if f != math.Trunc(f) {
		return 0, msgNotInteger
	}
	if math.Abs(f) > maxSafeInteger {
		return 0, msgNotSafe
	}
	return int(f), ""
}

func toString(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// coerceString, coerceInt and coerceFloat record a type error on c and
// return nil when raw cannot be converted.

func coerceString(c *collector, field, label string, raw any) *string {
	s, ok := toString(raw)
	if !ok {
		c.add(field, fmt.Sprintf(msgNotString, label))
		return nil
	}
	return &s
}

func coerceInt(c *collector, field, label string, raw any) *int {
	i, msg := toInt(raw)
	if msg != "" {
		c.add(field, fmt.Sprintf(msg, label))
		return nil
	}
	return &i
}

func coerceFloat(c *collector, field, label string, raw any) *float64 {
	f, ok := toFloat(raw)
	if !ok {
		c.add(field, fmt.Sprintf(msgNotNumber, label))
		return nil
	}
	return &f
}
