// Package export writes the per-dimension feature table to disk.
//
// Every writer shares the same column layout, defined once in Columns, so a
// parquet file, a CSV file and the SQLite store produced by one analysis
// carry identical column names in identical order.
package export

import (
	"strconv"

	"github.com/nvandessel/saescope/internal/models"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
)

// Column describes one output column. Exactly one of the field accessors
// matching Kind is set; it returns a pointer into the row so the same
// accessor serves reads and writes.
type Column struct {
	Name string
	Kind Kind

	intField   func(*models.FeatureRow) *int
	floatField func(*models.FeatureRow) *float64
	boolField  func(*models.FeatureRow) *bool
	catField   func(*models.FeatureRow) *models.Category
}

func intCol(name string, f func(*models.FeatureRow) *int) Column {
	return Column{Name: name, Kind: KindInt, intField: f}
}

func floatCol(name string, f func(*models.FeatureRow) *float64) Column {
	return Column{Name: name, Kind: KindFloat, floatField: f}
}

func boolCol(name string, f func(*models.FeatureRow) *bool) Column {
	return Column{Name: name, Kind: KindBool, boolField: f}
}

// Columns is the output table layout.
var Columns = []Column{
	intCol("dim", func(r *models.FeatureRow) *int { return &r.Dim }),
	floatCol("mean_percent_active", func(r *models.FeatureRow) *float64 { return &r.MeanFractionActive }),
	floatCol("median_len_top_contig", func(r *models.FeatureRow) *float64 { return &r.MedianTopRunLength }),
	floatCol("freq_contig_gt_75", func(r *models.FeatureRow) *float64 { return &r.FracRunsHigh }),
	floatCol("med_contig_length_gt_75", func(r *models.FeatureRow) *float64 { return &r.MedianHighRunLength }),
	floatCol("freq_increase_gt_2_gt_75", func(r *models.FeatureRow) *float64 { return &r.FracIncreasingGT2 }),
	floatCol("freq_decrease_gt_2_gt_75", func(r *models.FeatureRow) *float64 { return &r.FracDecreasingGT2 }),
	floatCol("med_monotonic_stretch_len", func(r *models.FeatureRow) *float64 { return &r.MedianMonotonicStretch }),
	floatCol("std_err_contig_len_gt_75", func(r *models.FeatureRow) *float64 { return &r.StdErrHighRunLength }),
	floatCol("freq_top_two_period", func(r *models.FeatureRow) *float64 { return &r.FreqTopTwoPeriod }),
	floatCol("freq_top_period", func(r *models.FeatureRow) *float64 { return &r.FreqTopPeriod }),
	intCol("top_period", func(r *models.FeatureRow) *int { return &r.TopPeriod }),
	floatCol("med_contigs_per_seq", func(r *models.FeatureRow) *float64 { return &r.MedianRunsPerSeq }),
	floatCol("mean_contigs_per_seq_gt_75", func(r *models.FeatureRow) *float64 { return &r.MeanHighRunsPerSeq }),
	floatCol("std_err_contig_len", func(r *models.FeatureRow) *float64 { return &r.StdErrRunLength }),
	floatCol("std_err_contig_len75", func(r *models.FeatureRow) *float64 { return &r.StdErrHighCount }),
	boolCol("is_top_gapped_gt_75", func(r *models.FeatureRow) *bool { return &r.TopRunGapped }),
	intCol("n_seqs", func(r *models.FeatureRow) *int { return &r.NumSequences }),
	floatCol("freq_active_global", func(r *models.FeatureRow) *float64 { return &r.FreqActiveGlobal }),
	boolCol("dead_latent", func(r *models.FeatureRow) *bool { return &r.DeadLatent }),
	{Name: "feat_type", Kind: KindString, catField: func(r *models.FeatureRow) *models.Category { return &r.Category }},
}

// ColumnNames returns the names of Columns in order.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// Int returns the value of an int column.
func (c Column) Int(row models.FeatureRow) int64 { return int64(*c.intField(&row)) }

// Float returns the value of a float column.
func (c Column) Float(row models.FeatureRow) float64 { return *c.floatField(&row) }

// Bool returns the value of a bool column.
func (c Column) Bool(row models.FeatureRow) bool { return *c.boolField(&row) }

// Str returns the value of the string column.
func (c Column) Str(row models.FeatureRow) string { return string(*c.catField(&row)) }

// Value returns the column's value for row as an untyped Go value.
func (c Column) Value(row models.FeatureRow) any {
	switch c.Kind {
	case KindInt:
		return c.Int(row)
	case KindFloat:
		return c.Float(row)
	case KindBool:
		return c.Bool(row)
	default:
		return c.Str(row)
	}
}

// Dest returns a pointer to the row field backing the column, suitable as a
// database/sql Scan destination.
func (c Column) Dest(row *models.FeatureRow) any {
	switch c.Kind {
	case KindInt:
		return c.intField(row)
	case KindFloat:
		return c.floatField(row)
	case KindBool:
		return c.boolField(row)
	default:
		return (*string)(c.catField(row))
	}
}

// SetInt stores v in an int column.
func (c Column) SetInt(row *models.FeatureRow, v int64) { *c.intField(row) = int(v) }

// SetFloat stores v in a float column.
func (c Column) SetFloat(row *models.FeatureRow, v float64) { *c.floatField(row) = v }

// SetBool stores v in a bool column.
func (c Column) SetBool(row *models.FeatureRow, v bool) { *c.boolField(row) = v }

// SetString stores v in the string column.
func (c Column) SetString(row *models.FeatureRow, v string) { *c.catField(row) = models.Category(v) }

// Text renders the column's value for row with the given float precision.
func (c Column) Text(row models.FeatureRow, precision int) string {
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(c.Int(row), 10)
	case KindFloat:
		return strconv.FormatFloat(c.Float(row), 'f', precision, 64)
	case KindBool:
		return strconv.FormatBool(c.Bool(row))
	default:
		return c.Str(row)
	}
}
