package service

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/beingshakil/keyword-planner-tool/internal/errors"
)

// VolumeFilter restricts search results to a search-volume bucket
type VolumeFilter string

const (
	VolumeAny       VolumeFilter = ""
	VolumeBlank     VolumeFilter = "blank"
	Volume10KTo100K VolumeFilter = "10K-100K"
	Volume100KTo1M  VolumeFilter = "100K-1M"
	Volume1MTo10M   VolumeFilter = "1M-10M"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)`)

// ParseVolumeFilter validates a filter name
func ParseVolumeFilter(s string) (VolumeFilter, error) {
	switch f := VolumeFilter(strings.TrimSpace(s)); f {
	case VolumeAny, VolumeBlank, Volume10KTo100K, Volume100KTo1M, Volume1MTo10M:
		return f, nil
	default:
		return "", apperrors.InvalidInput("unknown volume filter " + strconv.Quote(s))
	}
}

// Accepts reports whether a volume cell falls in the bucket. Volume cells are
// free text ("10K", "1M – 10M", "NA"), so buckets match on their labels as
// well as on the leading figure.
func (f VolumeFilter) Accepts(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	lead, hasLead := leadingFloat(v)

	switch f {
	case VolumeAny:
		return true
	case VolumeBlank:
		return v == "" || v == "na" || v == "n/a"
	case Volume10KTo100K:
		return strings.Contains(v, "10k") ||
			(strings.Contains(v, "k") && !strings.Contains(v, "1m") && !strings.Contains(v, "1 m") &&
				hasLead && lead >= 10)
	case Volume100KTo1M:
		return strings.Contains(v, "100k") ||
			(strings.Contains(v, "k") && hasLead && lead >= 100) ||
			(strings.Contains(v, "m") && hasLead && lead < 1)
	case Volume1MTo10M:
		return strings.Contains(v, "1m") ||
			(strings.Contains(v, "m") && hasLead && lead >= 1 && lead < 10)
	}
	return false
}

func leadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
