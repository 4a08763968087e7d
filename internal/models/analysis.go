package models

// Column type names produced by table analysis
const (
	ColumnTypeInt    = "int"
	ColumnTypeFloat  = "float"
	ColumnTypeVolume = "volume"
	ColumnTypeDate   = "date"
	ColumnTypeString = "string"
)

// DataAnalysisResult describes the shape of an imported table
type DataAnalysisResult struct {
	NumRows        int               `json:"rows"`
	NumColumns     int               `json:"columns"`
	ColumnNames    []string          `json:"column_names"`
	ColumnTypes    map[string]string `json:"column_types"`
	HasDates       bool              `json:"has_dates"`
	HasNumeric     bool              `json:"has_numeric"`
	HasText        bool              `json:"has_text"`
	NumericColumns []string          `json:"numeric_columns"`
	KeywordColumn  string            `json:"keyword_column"`
	VolumeColumn   string            `json:"volume_column,omitempty"`
	ValueColumn    string            `json:"value_column,omitempty"`
}

// ColumnStat summarises one numeric column
type ColumnStat struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Sum    float64 `json:"sum"`
}

// ColumnProfile describes how complete and how varied one column is
type ColumnProfile struct {
	Column      string  `json:"column"`
	Total       int     `json:"total"`
	Filled      int     `json:"filled"`
	MissingRate float64 `json:"missing_rate"`
	Distinct    int     `json:"distinct"`
	Duplicates  int     `json:"duplicates"`
	Uniqueness  float64 `json:"uniqueness"`
	Entropy     float64 `json:"entropy_bits"`
	Identifier  bool    `json:"identifier"`
}
