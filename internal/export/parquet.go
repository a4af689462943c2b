package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"github.com/nvandessel/saescope/internal/models"
)

// ArrowSchema returns the Arrow schema of the feature table.
func ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(Columns))
	for i, c := range Columns {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind)}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(k Kind) arrow.DataType {
	switch k {
	case KindInt:
		return arrow.PrimitiveTypes.Int64
	case KindFloat:
		return arrow.PrimitiveTypes.Float64
	case KindBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// Record builds an Arrow record holding rows. The caller must Release it.
func Record(mem memory.Allocator, rows []models.FeatureRow) arrow.Record {
	b := array.NewRecordBuilder(mem, ArrowSchema())
	defer b.Release()

	for i, c := range Columns {
		switch c.Kind {
		case KindInt:
			fb := b.Field(i).(*array.Int64Builder)
			for _, r := range rows {
				fb.Append(c.Int(r))
			}
		case KindFloat:
			fb := b.Field(i).(*array.Float64Builder)
			for _, r := range rows {
				fb.Append(c.Float(r))
			}
		case KindBool:
			fb := b.Field(i).(*array.BooleanBuilder)
			for _, r := range rows {
				fb.Append(c.Bool(r))
			}
		default:
			fb := b.Field(i).(*array.StringBuilder)
			for _, r := range rows {
				fb.Append(c.Str(r))
			}
		}
	}

	return b.NewRecord()
}

// WriteParquet writes rows as a single-row-group, snappy-compressed parquet
// stream to w.
func WriteParquet(w io.Writer, rows []models.FeatureRow) error {
	mem := memory.NewGoAllocator()
	rec := Record(mem, rows)
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(mem),
	)
	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem)))
	if err != nil {
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("writing parquet record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return nil
}

// WriteParquetFile writes rows to a parquet file at path, replacing any existing file.
func WriteParquetFile(path string, rows []models.FeatureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating parquet file: %w", err)
	}
	// The parquet writer closes its sink on success; the deferred close
	// only matters on early failure.
	defer f.Close()

	return WriteParquet(f, rows)
}

// ReadParquetFile loads a feature table written by WriteParquetFile.
func ReadParquetFile(ctx context.Context, path string) ([]models.FeatureRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("reading parquet table: %w", err)
	}
	defer tbl.Release()

	rows := make([]models.FeatureRow, tbl.NumRows())
	schema := tbl.Schema()
	for _, c := range Columns {
		idx := schema.FieldIndices(c.Name)
		if len(idx) == 0 {
			return nil, fmt.Errorf("parquet file has no column %q", c.Name)
		}

		offset := 0
		for _, chunk := range tbl.Column(idx[0]).Data().Chunks() {
			if err := readChunk(c, chunk, rows[offset:]); err != nil {
				return nil, err
			}
			offset += chunk.Len()
		}
	}

	return rows, nil
}

func readChunk(c Column, chunk arrow.Array, rows []models.FeatureRow) error {
	switch arr := chunk.(type) {
	case *array.Int64:
		if c.Kind != KindInt {
			break
		}
		for i := 0; i < arr.Len(); i++ {
			c.SetInt(&rows[i], arr.Value(i))
		}
		return nil
	case *array.Float64:
		if c.Kind != KindFloat {
			break
		}
		for i := 0; i < arr.Len(); i++ {
			c.SetFloat(&rows[i], arr.Value(i))
		}
		return nil
	case *array.Boolean:
		if c.Kind != KindBool {
			break
		}
		for i := 0; i < arr.Len(); i++ {
			c.SetBool(&rows[i], arr.Value(i))
		}
		return nil
	case *array.String:
		if c.Kind != KindString {
			break
		}
		for i := 0; i < arr.Len(); i++ {
			c.SetString(&rows[i], arr.Value(i))
		}
		return nil
	}
	return fmt.Errorf("column %q has unexpected type %s", c.Name, chunk.DataType())
}
