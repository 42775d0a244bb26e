// Package view holds the presentational helpers shared by the HTML dashboard
// and the JSON API: currency and time formatting, status badges and the mini map.
package view

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const zeroMoney = "$0.00"

// Money formats v as US dollars with thousands grouping, e.g. "$1,234.50".
// Anything that is not a finite number renders as "$0.00".
func Money(v any) string {
	x, ok := toNumber(v)
	if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
		return zeroMoney
	}
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	s := humanize.FormatFloat("#,###.##", x)
	if s == "0.00" {
		sign = ""
	}
	return sign + "$" + s
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case *float64:
		if n == nil {
			return 0, true
		}
		return *n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
