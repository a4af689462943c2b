package constants

// Format identifies an output table encoding.
type Format string

const (
	// FormatParquet writes feature_stats.parquet
	FormatParquet Format = "parquet"

	// FormatCSV writes feature_stats.csv
	FormatCSV Format = "csv"

	// FormatSQLite writes feature_stats.db
	FormatSQLite Format = "sqlite"
)

// AllFormats lists every supported format in output order.
var AllFormats = []Format{FormatParquet, FormatCSV, FormatSQLite}

// Valid returns true if the format is a recognized value.
func (f Format) Valid() bool {
	switch f {
	case FormatParquet, FormatCSV, FormatSQLite:
		return true
	}
	return false
}

// Extension returns the file extension used for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatSQLite {
		return "db"
	}
	return string(f)
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}
