package store

import (
	"path/filepath"

	"github.com/nvandessel/saescope/internal/constants"
)

// DBPath returns the path of the SQLite output inside outputDir.
func DBPath(outputDir string) string {
	return filepath.Join(outputDir, constants.OutputBaseName+"."+constants.FormatSQLite.Extension())
}
