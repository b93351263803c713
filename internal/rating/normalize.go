package rating

import (
	"math"
	"strconv"
	"strings"
)

// Normalize maps raw from a 0..sourceScale range onto 0..targetScale and
// rounds to the nearest integer. Missing or non-finite input yields 0; raw
// outside the source range is clamped to it.
func Normalize(raw, sourceScale, targetScale float64) int {
	if !finite(raw) || !finite(sourceScale) || !finite(targetScale) || sourceScale <= 0 {
		return 0
	}
	raw = math.Max(0, math.Min(sourceScale, raw))
	return int(math.Round(raw * targetScale / sourceScale))
}

// ParseNormalize is Normalize for upstream strings such as "7.7" or "N/A".
func ParseNormalize(raw string, sourceScale, targetScale float64) int {
	return Normalize(parse(raw), sourceScale, targetScale)
}

// OneDecimal parses raw and rounds it to one decimal place, e.g. "7.66" -> 7.7.
func OneDecimal(raw string) float64 {
	v := parse(raw)
	if !finite(v) {
		return 0
	}
	return math.Round(v*10) / 10
}

func parse(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
