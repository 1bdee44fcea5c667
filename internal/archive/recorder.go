package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Run captures everything worth auditing about one successful pipeline pass.
type Run struct {
	Question  string    `json:"question"`
	SQL       string    `json:"sql"`
	ChartType string    `json:"chart_type"`
	RowCount  int       `json:"row_count"`
	Labels    []string  `json:"-"`
	Values    []float64 `json:"-"`
	At        time.Time `json:"at"`
}

// Recorder writes run artifacts under runs/<date>/<nanos>/. Archiving is
// best-effort from the pipeline's point of view; a failed write must never
// fail the user's request.
type Recorder struct {
	Store ObjectStore
	Clock func() time.Time
}

func NewRecorder(store ObjectStore, clock func() time.Time) *Recorder {
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{Store: store, Clock: clock}
}

func (r *Recorder) Record(ctx context.Context, run Run) error {
	if r.Store == nil {
		return fmt.Errorf("object store is required")
	}
	now := r.Clock().UTC()
	run.At = now
	run.RowCount = len(run.Labels)
	base := fmt.Sprintf("runs/%s/%d", now.Format("2006-01-02"), now.UnixNano())

	manifest, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run manifest: %w", err)
	}
	if _, err := r.Store.Put(ctx, base+"/run.json", bytes.NewReader(manifest), int64(len(manifest)), PutOptions{ContentType: "application/json"}); err != nil {
		return fmt.Errorf("put run manifest: %w", err)
	}

	data, err := EncodeResultParquet(run.Labels, run.Values)
	if err != nil {
		return fmt.Errorf("encode result parquet: %w", err)
	}
	if _, err := r.Store.Put(ctx, base+"/result.parquet", bytes.NewReader(data), int64(len(data)), PutOptions{ContentType: "application/octet-stream"}); err != nil {
		return fmt.Errorf("put result parquet: %w", err)
	}
	return nil
}
