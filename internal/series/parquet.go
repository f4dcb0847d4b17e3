package series

import (
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/strider-ts/strider/internal/core"
	"github.com/strider-ts/strider/internal/errors"
)

// parquetRow is the snapshot schema: one row per series.
type parquetRow struct {
	Label  string    `parquet:"label"`
	HasLbl bool      `parquet:"has_label"`
	Dims   int32     `parquet:"dims"`
	Values []float64 `parquet:"values"`
}

// WriteParquet snapshots a dataset to w, one row per series. Snapshots are a
// boundary utility (dataset exchange between runs), never touched by the
// distance hot path.
func WriteParquet(w io.Writer, d Dataset) error {
	rows := make([]parquetRow, d.Size())
	for i := 0; i < d.Size(); i++ {
		s := d.At(i)
		row := parquetRow{Dims: int32(s.Dims()), Values: s.Values()}
		if l, ok := s.Label(); ok {
			row.Label, row.HasLbl = l, true
		}
		rows[i] = row
	}
	if err := parquet.Write(w, rows); err != nil {
		return errors.WrapIOError(err, "series.WriteParquet", "writing snapshot rows")
	}
	return nil
}

// ReadParquet loads a dataset snapshot produced by WriteParquet.
func ReadParquet(path, name string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, errors.WrapIOError(err, "series.ReadParquet", "opening snapshot")
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return Dataset{}, errors.WrapIOError(err, "series.ReadParquet", "stat snapshot")
	}
	rows, err := parquet.Read[parquetRow](f, st.Size())
	if err != nil {
		return Dataset{}, errors.WrapIOError(err, "series.ReadParquet", "reading snapshot rows")
	}
	out := make([]Series, 0, len(rows))
	for _, row := range rows {
		var label *core.Label
		if row.HasLbl {
			l := core.Label(row.Label)
			label = &l
		}
		s, serr := New(row.Values, int(row.Dims), label)
		if serr != nil {
			return Dataset{}, serr
		}
		out = append(out, s)
	}
	return NewDataset(name, out)
}
