package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

var volumeMultipliers = map[byte]float64{
	'K': 1e3,
	'M': 1e6,
	'B': 1e9,
}

// leading number with an optional K/M/B suffix, e.g. "1.5M" in "1.5M – 10M"
var volumePrefix = regexp.MustCompile(`^\s*([+-]?(?:\d+(?:\.\d*)?|\.\d+))\s*([kKmMbB])?`)

// ParseVolume parses a single search-volume figure such as "1,200", "10K" or
// "1.2M". Ranges and text are rejected.
func ParseVolume(s string) (float64, bool) {
	s = strings.ToUpper(strings.NewReplacer(",", "", " ", "").Replace(strings.TrimSpace(s)))
	if s == "" {
		return 0, false
	}

	mult := 1.0
	if m, ok := volumeMultipliers[s[len(s)-1]]; ok {
		mult = m
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}

// VolumeRank reads the leading figure of a volume cell, so that bucket labels
// like "10K-100K" order by their lower bound.
func VolumeRank(s string) (float64, bool) {
	if v, ok := ParseVolume(s); ok {
		return v, true
	}
	m := volumePrefix.FindStringSubmatch(strings.ReplaceAll(s, ",", ""))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		v *= volumeMultipliers[strings.ToUpper(m[2])[0]]
	}
	return v, true
}
