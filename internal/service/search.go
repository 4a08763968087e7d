package service

import (
	"cmp"
	"context"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
	"github.com/beingshakil/keyword-planner-tool/internal/models"
)

// SearchLimits bounds the work a single search does
type SearchLimits struct {
	BatchSize       int
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultSearchLimits returns the limits used when none are configured
func DefaultSearchLimits() SearchLimits {
	return SearchLimits{
		BatchSize:       1000,
		DefaultPageSize: 100,
		MaxPageSize:     1000,
	}
}

// SearchQuery is one keyword search request
type SearchQuery struct {
	Term         string
	Mode         SearchMode
	Threshold    float64
	VolumeFilter string
	SortBy       string
	Descending   bool
	Page         int
	PageSize     int
}

// SearchResult is one page of ranked rows
type SearchResult struct {
	Results    []models.KeywordResult
	Pagination models.Pagination
}

// KeywordSearch ranks table rows against a search term
type KeywordSearch struct {
	limits SearchLimits
	logger *zap.Logger
}

// NewKeywordSearch creates a searcher; zero limits fall back to the defaults
func NewKeywordSearch(limits SearchLimits, logger *zap.Logger) *KeywordSearch {
	def := DefaultSearchLimits()
	if limits.BatchSize <= 0 {
		limits.BatchSize = def.BatchSize
	}
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = def.DefaultPageSize
	}
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = def.MaxPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeywordSearch{limits: limits, logger: logger.Named("search")}
}

type hit struct {
	record models.Record
	score  float64
}

// Search filters, scores, sorts and paginates the rows of table
func (s *KeywordSearch) Search(ctx context.Context, table *models.Table, info models.DataAnalysisResult, q SearchQuery) (*SearchResult, error) {
	filter, err := ParseVolumeFilter(q.VolumeFilter)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Record, 0, table.NumRows())
	for _, row := range table.Rows {
		// without a volume column there is nothing to filter on
		if info.VolumeColumn == "" || filter.Accepts(row[info.VolumeColumn]) {
			rows = append(rows, row)
		}
	}

	term := strings.ToLower(strings.TrimSpace(q.Term))
	threshold := min(max(q.Threshold, 0), 100)

	var hits []hit
	if term == "" {
		hits = make([]hit, len(rows))
		for i, row := range rows {
			hits[i] = hit{record: row}
		}
	} else {
		hits, err = s.score(ctx, rows, term, q.Mode, threshold)
		if err != nil {
			return nil, err
		}
	}

	sortHits(hits, resolveSortColumn(q.SortBy, table, info), info.VolumeColumn, term != "", q.Descending)

	pageSize := s.PageSize(q.PageSize)

	total := len(hits)
	totalPages := max(1, (total+pageSize-1)/pageSize)
	page := min(max(q.Page, 1), totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	results := make([]models.KeywordResult, 0, end-start)
	for _, h := range hits[start:end] {
		results = append(results, models.KeywordResult{
			Keyword:         CleanKeyword(h.record[info.KeywordColumn]),
			Volume:          h.record[info.VolumeColumn],
			Value:           h.record[info.ValueColumn],
			MatchPercentage: h.score,
			Record:          h.record,
		})
	}

	s.logger.Debug("search",
		zap.String("term", term),
		zap.String("mode", string(q.Mode)),
		zap.Float64("threshold", threshold),
		zap.String("volume_filter", string(filter)),
		zap.Int("candidates", len(rows)),
		zap.Int("matches", total))

	return &SearchResult{
		Results: results,
		Pagination: models.Pagination{
			Page:         page,
			PageSize:     pageSize,
			TotalPages:   totalPages,
			TotalResults: total,
		},
	}, nil
}

// PageSize resolves a requested page size against the configured limits.
// Zero or negative requests get the default.
func (s *KeywordSearch) PageSize(requested int) int {
	if requested <= 0 {
		requested = s.limits.DefaultPageSize
	}
	return min(requested, s.limits.MaxPageSize)
}

// score matches rows in batches on up to GOMAXPROCS goroutines. Each batch
// owns a disjoint range of scores.
func (s *KeywordSearch) score(ctx context.Context, rows []models.Record, term string, mode SearchMode, threshold float64) ([]hit, error) {
	scores := make([]float64, len(rows))
	matched := make([]bool, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for start := 0; start < len(rows); start += s.limits.BatchSize {
		start, end := start, min(start+s.limits.BatchSize, len(rows))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				scores[i], matched[i] = bestCellScore(rows[i], term, mode, threshold)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := make([]hit, 0)
	for i, row := range rows {
		if matched[i] {
			hits = append(hits, hit{record: row, score: scores[i]})
		}
	}
	return hits, nil
}

// bestCellScore returns the highest matching score over the non-empty cells of a row
func bestCellScore(row models.Record, term string, mode SearchMode, threshold float64) (float64, bool) {
	best, found := 0.0, false
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if score, ok := Matches(term, cell, mode, threshold); ok && (!found || score > best) {
			best, found = score, true
		}
	}
	return best, found
}

// resolveSortColumn maps a requested column to a header. The names keyword,
// volume and value address the detected columns; anything else falls back to
// the keyword column.
func resolveSortColumn(requested string, table *models.Table, info models.DataAnalysisResult) string {
	if requested != "" && table.HasHeader(requested) {
		return requested
	}
	switch strings.ToLower(requested) {
	case "volume":
		if info.VolumeColumn != "" {
			return info.VolumeColumn
		}
	case "value":
		if info.ValueColumn != "" {
			return info.ValueColumn
		}
	}
	return info.KeywordColumn
}

func sortHits(hits []hit, column, volumeColumn string, byScore, descending bool) {
	// collators keep internal buffers and are not safe for concurrent use
	col := collate.New(language.Und, collate.IgnoreCase)

	numeric := analysis.ParseVolume
	if column == volumeColumn {
		numeric = analysis.VolumeRank
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if byScore && hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		a, b := hits[i].record[column], hits[j].record[column]
		x, aok := numeric(a)
		y, bok := numeric(b)

		var c int
		switch {
		case aok && bok:
			c = cmp.Compare(x, y)
		case aok != bok:
			// figures sort ahead of text in both directions
			return aok
		default:
			c = col.CompareString(a, b)
		}
		if descending {
			return c > 0
		}
		return c < 0
	})
}

// CleanKeyword drops the annotation some exports append after " – "
func CleanKeyword(keyword string) string {
	if before, _, ok := strings.Cut(keyword, " – "); ok {
		return strings.TrimSpace(before)
	}
	return keyword
}
