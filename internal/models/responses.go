package models

// UploadResponse is returned after a successful import
type UploadResponse struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	FileName     string         `json:"file_name"`
	Format       string         `json:"format"`
	Rows         int            `json:"rows"`
	Columns      int            `json:"columns"`
	ColumnNames  []string       `json:"column_names"`
	Sheets       []string       `json:"sheets"`
	CurrentSheet string         `json:"current_sheet"`
	Warnings     []ParseWarning `json:"warnings,omitempty"`
}

// SheetsResponse is returned by /api/sheets
type SheetsResponse struct {
	Sheets       []string `json:"sheets"`
	CurrentSheet string   `json:"current_sheet"`
}

// SwitchSheetRequest for /api/switch-sheet
type SwitchSheetRequest struct {
	Sheet string `json:"sheet"`
}

// StatusResponse is returned by /api/status
type StatusResponse struct {
	Loaded        bool   `json:"loaded"`
	FileName      string `json:"file_name,omitempty"`
	Format        string `json:"format,omitempty"`
	Rows          int    `json:"rows"`
	Columns       int    `json:"columns"`
	KeywordColumn string `json:"keyword_column,omitempty"`
	VolumeColumn  string `json:"volume_column,omitempty"`
	ValueColumn   string `json:"value_column,omitempty"`
}

// KeywordResult is one row of a keyword search
type KeywordResult struct {
	Keyword         string  `json:"keyword"`
	Volume          string  `json:"volume"`
	Value           string  `json:"value"`
	MatchPercentage float64 `json:"match_percentage"`
	Record          Record  `json:"record"`
}

// Pagination describes the page returned by a search
type Pagination struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// SheetInfo describes the sheet the results come from
type SheetInfo struct {
	CurrentSheet    string   `json:"current_sheet"`
	AvailableSheets []string `json:"available_sheets"`
}

// KeywordsResponse is returned by /api/keywords
type KeywordsResponse struct {
	Results    []KeywordResult `json:"results"`
	Pagination Pagination      `json:"pagination"`
	SheetInfo  SheetInfo       `json:"sheet_info"`
}

// ExportRequest for /api/export
type ExportRequest struct {
	Keywords []string `json:"keywords"`
}

// ScoreRequest for /api/score
type ScoreRequest struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
	Threshold  *float64 `json:"threshold,omitempty"`
}

// CandidateScore is one scored candidate
type CandidateScore struct {
	Candidate string  `json:"candidate"`
	Score     float64 `json:"score"`
	Match     bool    `json:"match"`
}

// ScoreResponse is returned by /api/score
type ScoreResponse struct {
	Query     string           `json:"query"`
	Threshold float64          `json:"threshold"`
	Scores    []CandidateScore `json:"scores"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
