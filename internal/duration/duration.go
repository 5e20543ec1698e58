// Package duration converts between YouTube's ISO-8601 duration tokens
// and plain second counts.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// isoPattern matches tokens like PT1H2M3S, PT45S, P1DT2H and P0D.
var isoPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// unitSeconds is the length of each captured component, in match order.
var unitSeconds = [...]int64{86400, 3600, 60, 1}

// Parse returns the number of seconds described by raw.
// Missing components count as zero. Malformed input, or a total that does
// not fit in an int64, yields 0.
func Parse(raw string) int64 {
	m := isoPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}

	var total int64
	for i, unit := range unitSeconds {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil || n > (math.MaxInt64-total)/unit {
			return 0
		}
		total += n * unit
	}
	return total
}

// Format renders seconds as H:MM:SS, or M:SS when under an hour.
func Format(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Minutes converts seconds to whole minutes, rounding down.
// Target selection and playlist summaries both use this rule.
func Minutes(seconds int64) int64 {
	if seconds <= 0 {
		return 0
	}
	return seconds / 60
}
