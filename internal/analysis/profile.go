package analysis

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

// missingMarkers are cell values keyword tools write when they have no data
var missingMarkers = map[string]bool{
	"":     true,
	"-":    true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// ProfileColumn measures fill rate, duplicates and Shannon entropy of one column
func ProfileColumn(table *models.Table, col string) models.ColumnProfile {
	profile := models.ColumnProfile{Column: col, Total: table.NumRows()}

	counts := make(map[string]int)
	for _, raw := range table.Column(col) {
		v := strings.TrimSpace(raw)
		if missingMarkers[strings.ToLower(v)] {
			continue
		}
		profile.Filled++
		counts[v]++
	}

	profile.Distinct = len(counts)
	profile.Duplicates = profile.Filled - profile.Distinct
	if profile.Total > 0 {
		profile.MissingRate = float64(profile.Total-profile.Filled) / float64(profile.Total)
	}
	if profile.Filled > 0 {
		profile.Uniqueness = float64(profile.Distinct) / float64(profile.Filled)
	}
	profile.Entropy = entropyBits(counts)

	// every filled value distinct and almost nothing missing
	profile.Identifier = profile.Uniqueness > 0.95 && profile.MissingRate < 0.05
	return profile
}

// ProfileTable profiles every column in header order
func ProfileTable(table *models.Table) []models.ColumnProfile {
	profiles := make([]models.ColumnProfile, len(table.Headers))
	for i, h := range table.Headers {
		profiles[i] = ProfileColumn(table, h)
	}
	return profiles
}

func entropyBits(counts map[string]int) float64 {
	if len(counts) < 2 {
		return 0
	}
	freq := make(stats.Float64Data, 0, len(counts))
	for _, n := range counts {
		freq = append(freq, float64(n))
	}
	nats, err := stats.Entropy(freq)
	if err != nil {
		return 0
	}
	return nats / math.Ln2
}
