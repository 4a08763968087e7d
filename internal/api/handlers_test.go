package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
	apperrors "github.com/beingshakil/keyword-planner-tool/internal/errors"
	"github.com/beingshakil/keyword-planner-tool/internal/models"
	"github.com/beingshakil/keyword-planner-tool/internal/service"
	"github.com/beingshakil/keyword-planner-tool/internal/state"
	"github.com/beingshakil/keyword-planner-tool/internal/store"
)

const plannerCSV = "KW,Volumn,KD\n" +
	"seo tools,10K,35\n" +
	"local seo,100K – 1M,20\n" +
	"ppc,1K,12\n"

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	ctx := context.Background()

	db, err := store.Open(ctx, store.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	lists := store.NewListStore(db, nil)
	t.Cleanup(func() { _ = lists.Close() })
	require.NoError(t, lists.Migrate(ctx))

	h := NewHandler(
		state.NewWorkspace(analysis.NewImporter(nil)),
		service.NewKeywordSearch(service.DefaultSearchLimits(), nil),
		service.NewExportService(),
		lists,
		DefaultOptions(),
		nil,
	)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return do(t, r, method, path, bytes.NewReader(body), "application/json")
}

func upload(t *testing.T, r http.Handler, fileName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return do(t, r, http.MethodPost, "/api/upload", &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, code, resp.Code)
	assert.NotEmpty(t, resp.Error)
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestNothingLoaded(t *testing.T) {
	r := newTestRouter(t)

	status := decode[models.StatusResponse](t, do(t, r, http.MethodGet, "/api/status", nil, ""))
	assert.False(t, status.Loaded)

	kw := decode[models.KeywordsResponse](t, do(t, r, http.MethodGet, "/api/keywords?search=seo", nil, ""))
	assert.Empty(t, kw.Results)
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 100}, kw.Pagination)

	kw = decode[models.KeywordsResponse](t, do(t, r, http.MethodGet, "/api/keywords?page_size=5000", nil, ""))
	assert.Equal(t, 1000, kw.Pagination.PageSize)

	sheets := decode[models.SheetsResponse](t, do(t, r, http.MethodGet, "/api/sheets", nil, ""))
	assert.Empty(t, sheets.Sheets)

	assertError(t, do(t, r, http.MethodGet, "/api/column-types", nil, ""), http.StatusBadRequest, apperrors.CodeInvalidInput)
	assertError(t, do(t, r, http.MethodGet, "/api/stats", nil, ""), http.StatusBadRequest, apperrors.CodeInvalidInput)
	assertError(t, doJSON(t, r, http.MethodPost, "/api/export", models.ExportRequest{Keywords: []string{"seo"}}),
		http.StatusBadRequest, apperrors.CodeInvalidInput)
}

func TestUploadAndSearch(t *testing.T) {
	r := newTestRouter(t)

	rec := upload(t, r, "keywords.csv", []byte(plannerCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	up := decode[models.UploadResponse](t, rec)
	assert.True(t, up.Success)
	assert.Equal(t, analysis.FormatDelimited, up.Format)
	assert.Equal(t, 3, up.Rows)
	assert.Equal(t, []string{"KW", "Volumn", "KD"}, up.ColumnNames)
	assert.Equal(t, "keywords", up.CurrentSheet)

	status := decode[models.StatusResponse](t, do(t, r, http.MethodGet, "/api/status", nil, ""))
	assert.True(t, status.Loaded)
	assert.Equal(t, "KW", status.KeywordColumn)
	assert.Equal(t, "Volumn", status.VolumeColumn)
	assert.Equal(t, "KD", status.ValueColumn)

	kw := decode[models.KeywordsResponse](t, do(t, r, http.MethodGet, "/api/keywords?search=seo&search_type=partial", nil, ""))
	require.Len(t, kw.Results, 2)
	assert.Equal(t, "local seo", kw.Results[0].Keyword)
	assert.Equal(t, "seo tools", kw.Results[1].Keyword)
	assert.Equal(t, 85.0, kw.Results[0].MatchPercentage)
	assert.Equal(t, "keywords", kw.SheetInfo.CurrentSheet)

	kw = decode[models.KeywordsResponse](t, do(t, r, http.MethodGet, "/api/keywords?sort=KD&order=desc&page_size=2", nil, ""))
	require.Len(t, kw.Results, 2)
	assert.Equal(t, "seo tools", kw.Results[0].Keyword)
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 2, TotalPages: 2, TotalResults: 3}, kw.Pagination)

	kw = decode[models.KeywordsResponse](t, do(t, r, http.MethodGet, "/api/keywords?volume_filter=100K-1M", nil, ""))
	require.Len(t, kw.Results, 1)
	assert.Equal(t, "local seo", kw.Results[0].Keyword)
}

func TestKeywordsRejectsBadParams(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, upload(t, r, "keywords.csv", []byte(plannerCSV)).Code)

	assertError(t, do(t, r, http.MethodGet, "/api/keywords?threshold=high", nil, ""), http.StatusBadRequest, apperrors.CodeInvalidInput)
	assertError(t, do(t, r, http.MethodGet, "/api/keywords?volume_filter=huge", nil, ""), http.StatusBadRequest, apperrors.CodeInvalidInput)
}

func TestUnload(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, upload(t, r, "keywords.csv", []byte(plannerCSV)).Code)

	rec := do(t, r, http.MethodDelete, "/api/upload", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	status := decode[models.StatusResponse](t, do(t, r, http.MethodGet, "/api/status", nil, ""))
	assert.False(t, status.Loaded)
	kw := decode[models.KeywordsResponse](t, do(t, r, http.MethodGet, "/api/keywords", nil, ""))
	assert.Empty(t, kw.Results)
	assertError(t, do(t, r, http.MethodGet, "/api/stats", nil, ""), http.StatusBadRequest, apperrors.CodeInvalidInput)

	// unloading twice is harmless
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodDelete, "/api/upload", nil, "").Code)
}

func TestUploadRejections(t *testing.T) {
	r := newTestRouter(t)

	assertError(t, upload(t, r, "empty.csv", nil), http.StatusBadRequest, apperrors.CodeInvalidInput)
	assertError(t, upload(t, r, "legacy.xls", []byte{0xD0, 0xCF, 0x11, 0xE0}), http.StatusBadRequest, apperrors.CodeInvalidInput)
	assertError(t, do(t, r, http.MethodPost, "/api/upload", bytes.NewBufferString("x"), "text/plain"),
		http.StatusBadRequest, apperrors.CodeInvalidInput)

	// a failed upload does not replace the loaded file
	require.Equal(t, http.StatusOK, upload(t, r, "keywords.csv", []byte(plannerCSV)).Code)
	assertError(t, upload(t, r, "blank.csv", []byte("   ")), http.StatusBadRequest, apperrors.CodeInvalidInput)
	status := decode[models.StatusResponse](t, do(t, r, http.MethodGet, "/api/status", nil, ""))
	assert.Equal(t, "keywords.csv", status.FileName)
}

func TestColumnTypesAndStats(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, upload(t, r, "keywords.csv", []byte(plannerCSV)).Code)

	info := decode[models.DataAnalysisResult](t, do(t, r, http.MethodGet, "/api/column-types", nil, ""))
	assert.Equal(t, models.ColumnTypeString, info.ColumnTypes["KW"])
	assert.Equal(t, models.ColumnTypeInt, info.ColumnTypes["KD"])

	stats := decode[struct {
		Columns  []models.ColumnStat    `json:"columns"`
		Profiles []models.ColumnProfile `json:"profiles"`
	}](t, do(t, r, http.MethodGet, "/api/stats", nil, ""))
	require.Len(t, stats.Profiles, 3)
	assert.Equal(t, "KW", stats.Profiles[0].Column)
	assert.True(t, stats.Profiles[0].Identifier)

	var kd *models.ColumnStat
	for i := range stats.Columns {
		if stats.Columns[i].Column == "KD" {
			kd = &stats.Columns[i]
		}
	}
	require.NotNil(t, kd)
	assert.Equal(t, 3, kd.Count)
	assert.Equal(t, 12.0, kd.Min)
	assert.Equal(t, 35.0, kd.Max)
	assert.Equal(t, 67.0, kd.Sum)
}

func TestSwitchSheet(t *testing.T) {
	r := newTestRouter(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Keyword", "Volume"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"seo", "10K"}))
	_, err := f.NewSheet("Ideas")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Ideas", "A1", &[]interface{}{"Keyword", "Volume"}))
	require.NoError(t, f.SetSheetRow("Ideas", "A2", &[]interface{}{"ppc", "1K"}))
	require.NoError(t, f.SetSheetRow("Ideas", "A3", &[]interface{}{"sem", "2K"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	up := decode[models.UploadResponse](t, upload(t, r, "planner.xlsx", buf.Bytes()))
	assert.Equal(t, []string{"Sheet1", "Ideas"}, up.Sheets)
	assert.Equal(t, "Sheet1", up.CurrentSheet)
	assert.Equal(t, 1, up.Rows)

	rec := doJSON(t, r, http.MethodPost, "/api/switch-sheet", models.SwitchSheetRequest{Sheet: "Ideas"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	switched := decode[models.UploadResponse](t, rec)
	assert.Equal(t, "Ideas", switched.CurrentSheet)
	assert.Equal(t, 2, switched.Rows)

	sheets := decode[models.SheetsResponse](t, do(t, r, http.MethodGet, "/api/sheets", nil, ""))
	assert.Equal(t, "Ideas", sheets.CurrentSheet)

	assertError(t, doJSON(t, r, http.MethodPost, "/api/switch-sheet", models.SwitchSheetRequest{Sheet: "Missing"}),
		http.StatusNotFound, apperrors.CodeNotFound)
	assertError(t, doJSON(t, r, http.MethodPost, "/api/switch-sheet", models.SwitchSheetRequest{}),
		http.StatusBadRequest, apperrors.CodeInvalidInput)
}

func TestExportSelected(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusOK, upload(t, r, "keywords.csv", []byte(plannerCSV)).Code)

	rec := doJSON(t, r, http.MethodPost, "/api/export", models.ExportRequest{Keywords: []string{"ppc", "seo tools"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=selected_keywords_keywords.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "KW,Volumn,KD\nseo tools,10K,35\nppc,1K,12\n", rec.Body.String())

	assertError(t, doJSON(t, r, http.MethodPost, "/api/export", models.ExportRequest{}),
		http.StatusBadRequest, apperrors.CodeInvalidInput)
}

func TestParse(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/parse", bytes.NewBufferString("a;b\n1;2\n3"), "text/plain")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	table := decode[models.Table](t, rec)
	assert.Equal(t, []string{"a", "b"}, table.Headers)
	assert.Equal(t, []models.Record{{"a": "1", "b": "2"}, {"a": "3", "b": ""}}, table.Rows)
	assert.Equal(t, ";", table.Delimiter)

	// parsing is stateless
	status := decode[models.StatusResponse](t, do(t, r, http.MethodGet, "/api/status", nil, ""))
	assert.False(t, status.Loaded)

	assertError(t, do(t, r, http.MethodPost, "/api/parse", bytes.NewBufferString(""), "text/plain"),
		http.StatusBadRequest, apperrors.CodeInvalidInput)
}

func TestScore(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/score", models.ScoreRequest{
		Query:      "seo",
		Candidates: []string{"SEO", "seo tools", "xyz"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.ScoreResponse](t, rec)
	assert.Equal(t, service.DefaultThreshold, resp.Threshold)
	require.Len(t, resp.Scores, 3)
	assert.Equal(t, models.CandidateScore{Candidate: "SEO", Score: 100, Match: true}, resp.Scores[0])
	assert.Equal(t, 85.0, resp.Scores[1].Score)
	assert.False(t, resp.Scores[2].Match)

	strict := 90.0
	resp = decode[models.ScoreResponse](t, doJSON(t, r, http.MethodPost, "/api/score", models.ScoreRequest{
		Query: "seo", Candidates: []string{"seo tools"}, Threshold: &strict,
	}))
	assert.False(t, resp.Scores[0].Match)

	assertError(t, do(t, r, http.MethodPost, "/api/score", bytes.NewBufferString("{"), "application/json"),
		http.StatusBadRequest, apperrors.CodeInvalidInput)
}

func TestSavedLists(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/lists", models.CreateListRequest{
		Name:     "Q3 Ideas",
		Keywords: []models.SavedKeyword{{Keyword: "seo tools", Volume: "10K", Value: "35"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	list := decode[models.SavedList](t, rec)
	require.NotEmpty(t, list.ID)
	base := "/api/lists/" + list.ID

	assertError(t, doJSON(t, r, http.MethodPost, "/api/lists", models.CreateListRequest{Name: "Q3 Ideas"}),
		http.StatusConflict, apperrors.CodeConflict)
	assertError(t, doJSON(t, r, http.MethodPost, "/api/lists", models.CreateListRequest{Name: " "}),
		http.StatusBadRequest, apperrors.CodeValidationError)

	added := decode[models.AddKeywordsResponse](t, doJSON(t, r, http.MethodPost, base+"/keywords", models.AddKeywordsRequest{
		Keywords: []models.SavedKeyword{{Keyword: "local seo"}, {Keyword: "seo tools"}},
	}))
	assert.Equal(t, 1, added.Added)
	require.Len(t, added.List.Keywords, 2)

	summaries := decode[[]models.SavedListSummary](t, do(t, r, http.MethodGet, "/api/lists", nil, ""))
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Count)

	renamed := decode[models.SavedList](t, doJSON(t, r, http.MethodPatch, base, models.RenameListRequest{Name: "Brand"}))
	assert.Equal(t, "Brand", renamed.Name)

	rec = do(t, r, http.MethodGet, base+"/export", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=brand_keywords.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Keyword,Volume,Value\nseo tools,10K,35\nlocal seo,,\n", rec.Body.String())

	rec = do(t, r, http.MethodDelete, base+"/keywords/local%20seo", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	got := decode[models.SavedList](t, do(t, r, http.MethodGet, base, nil, ""))
	require.Len(t, got.Keywords, 1)
	assert.Equal(t, "seo tools", got.Keywords[0].Keyword)

	assertError(t, do(t, r, http.MethodDelete, base+"/keywords/nope", nil, ""), http.StatusNotFound, apperrors.CodeNotFound)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, base, nil, "").Code)
	assertError(t, do(t, r, http.MethodGet, base, nil, ""), http.StatusNotFound, apperrors.CodeNotFound)
	assertError(t, do(t, r, http.MethodGet, "/api/lists/missing/export", nil, ""), http.StatusNotFound, apperrors.CodeNotFound)
}
