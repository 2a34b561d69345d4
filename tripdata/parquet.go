package tripdata

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet/file"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"
)

// TLC trip data column names carrying the zone ids.
const (
	PickupColumn  = "PULocationID"
	DropoffColumn = "DOLocationID"
)

// Pair is one decoded trip record: the pickup and dropoff zone ids.
type Pair struct {
	Pickup  int
	Dropoff int
}

// SchemaError reports a trip file that cannot supply the required id
// columns. It is surfaced before any counting begins.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("trip file is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ReadPairs decodes a parquet trip file into ordered (pickup, dropoff)
// pairs. It returns the pairs and the total row count of the file. At most
// limitRows pairs are decoded when limitRows is non-negative.
func ReadPairs(ctx context.Context, path string, limitRows int) ([]Pair, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f)
	if err != nil {
		return nil, 0, fmt.Errorf("not a valid parquet file: %w", err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, 0, err
	}
	table, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer table.Release()

	schema := table.Schema()
	puIdx := columnIndex(schema, PickupColumn)
	doIdx := columnIndex(schema, DropoffColumn)
	if puIdx < 0 || doIdx < 0 {
		var missing []string
		if puIdx < 0 {
			missing = append(missing, PickupColumn)
		}
		if doIdx < 0 {
			missing = append(missing, DropoffColumn)
		}
		return nil, 0, &SchemaError{Missing: missing}
	}

	rows := int(table.NumRows())
	n := rows
	if limitRows >= 0 && n > limitRows {
		n = limitRows
	}
	pickups, err := intColumn(table.Column(puIdx), n, PickupColumn)
	if err != nil {
		return nil, 0, err
	}
	dropoffs, err := intColumn(table.Column(doIdx), n, DropoffColumn)
	if err != nil {
		return nil, 0, err
	}

	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = Pair{Pickup: pickups[i], Dropoff: dropoffs[i]}
	}
	return pairs, rows, nil
}

func columnIndex(schema *arrow.Schema, name string) int {
	for i, f := range schema.Fields() {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// intColumn flattens the first n values of a chunked integer column.
// TLC files carry the ids as int64; int32 is accepted for reprocessed data.
func intColumn(col *arrow.Column, n int, name string) ([]int, error) {
	out := make([]int, 0, n)
	for _, chunk := range col.Data().Chunks() {
		if len(out) == n {
			break
		}
		switch vals := chunk.(type) {
		case *array.Int64:
			for i := 0; i < vals.Len() && len(out) < n; i++ {
				out = append(out, int(vals.Value(i)))
			}
		case *array.Int32:
			for i := 0; i < vals.Len() && len(out) < n; i++ {
				out = append(out, int(vals.Value(i)))
			}
		default:
			return nil, fmt.Errorf("column %s has unsupported type %s", name, chunk.DataType())
		}
	}
	return out, nil
}
