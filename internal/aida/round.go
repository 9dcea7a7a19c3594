package aida

import (
	"math"
	"strconv"
	"strings"
)

// RoundTenth rounds x to one decimal place, half away from zero.
//
// The tenths digit is decided on the shortest decimal form of x, so a value
// written as 65.05 rounds to 65.1 even though its binary form sits just below.
func RoundTenth(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	neg := math.Signbit(x)
	s := strconv.FormatFloat(math.Abs(x), 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if len(frac) <= 1 {
		return x
	}

	// Beyond 15 integer digits the float cannot carry a tenths digit anyway.
	if len(intPart) > 15 {
		return math.Round(x*10) / 10
	}

	n, err := strconv.ParseInt(intPart+frac[:1], 10, 64)
	if err != nil {
		return math.Round(x*10) / 10
	}
	if frac[1] >= '5' {
		n++
	}

	r := float64(n) / 10
	if neg {
		r = -r
	}
	return r
}
