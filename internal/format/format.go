// Package format holds small display helpers shared by the templates.
package format

import (
	"fmt"
	"strings"
)

// Price formats an amount in minor units as dollars: 1998 => "$19.98".
func Price(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	major := minor / 100
	cents := minor % 100
	out := fmt.Sprintf("$%s.%02d", thousandSep(major), cents)
	if neg {
		return "-" + out
	}
	return out
}

// Amount formats minor units without the currency symbol: 1998 => "19.98",
// -999 => "-9.99". The cart total label renders this next to a fixed "$" in
// the markup.
func Amount(minor int64) string {
	if minor < 0 {
		return "-" + Amount(-minor)
	}
	return strings.TrimPrefix(Price(minor), "$")
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	out := ""
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out += ","
		}
		out += string(c)
	}
	return out
}
