package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

type resultRow struct {
	Index int     `parquet:"index"`
	Label string  `parquet:"label"`
	Value float64 `parquet:"value"`
}

// EncodeResultParquet serializes index-aligned labels and values, preserving
// the row order of the classified result.
func EncodeResultParquet(labels []string, values []float64) ([]byte, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("labels and values length mismatch: %d != %d", len(labels), len(values))
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("rows are required")
	}

	rows := make([]resultRow, 0, len(labels))
	for i := range labels {
		rows = append(rows, resultRow{Index: i, Label: labels[i], Value: values[i]})
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[resultRow](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeResultParquet reads back an archived result file, mostly for tests
// and spot checks.
func DecodeResultParquet(data []byte) ([]string, []float64, error) {
	reader := parquet.NewGenericReader[resultRow](bytes.NewReader(data))
	defer func() { _ = reader.Close() }()

	rows := make([]resultRow, reader.NumRows())
	if len(rows) > 0 {
		if _, err := reader.Read(rows); err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, row := range rows {
		labels[i] = row.Label
		values[i] = row.Value
	}
	return labels, values, nil
}
