// Package parquet exports diff run data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// DeltaRow represents a single classified delta in Parquet form.
// This struct maps to the deltascan_deltas database table.
type DeltaRow struct {
	// RunID references the parent diff run, 0 for an unrecorded run
	RunID int64 `parquet:"run_id,snappy"`

	// Rank is the 1-based position in the ranked report
	Rank int32 `parquet:"rank,snappy"`

	// Kind is the delta classification (added, removed, modified, moved, unmodified)
	Kind string `parquet:"kind,snappy"`

	// OldPath is the path in the old snapshot (nullable for added)
	OldPath *string `parquet:"old_path,optional,snappy"`

	// NewPath is the path in the new snapshot (nullable for removed)
	NewPath *string `parquet:"new_path,optional,snappy"`

	// Factors is the canonical factors serialization
	Factors string `parquet:"factors,snappy"`

	// Score is the weighted factor sum
	Score float64 `parquet:"score,snappy"`

	// Label is the severity label derived from the score
	Label string `parquet:"label,snappy"`
}

// RunRow represents a single recorded diff run in Parquet form.
// This struct maps to the deltascan_runs database table.
type RunRow struct {
	RunID     int64     `parquet:"run_id,snappy"`
	StartTime time.Time `parquet:"start_time,snappy"`
	EndTime   time.Time `parquet:"end_time,snappy"`
	OldLabel  string    `parquet:"old_label,snappy"`
	NewLabel  string    `parquet:"new_label,snappy"`

	TotalOldFiles int32 `parquet:"total_old_files,snappy"`
	TotalNewFiles int32 `parquet:"total_new_files,snappy"`
	Added         int32 `parquet:"added,snappy"`
	Removed       int32 `parquet:"removed,snappy"`
	Modified      int32 `parquet:"modified,snappy"`
	Moved         int32 `parquet:"moved,snappy"`
	Unmodified    int32 `parquet:"unmodified,snappy"`
	NetSizeDelta  int64 `parquet:"net_size_delta,snappy"`

	// ConfigParams contains the JSON-encoded run configuration (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// WriteDeltaRowsParquet writes a slice of DeltaRow structs to a Parquet file.
func WriteDeltaRowsParquet(data []DeltaRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunRowsParquet writes a slice of RunRow structs to a Parquet file.
func WriteRunRowsParquet(data []RunRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows to outputPath with the schema inferred from T's
// struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertReport converts a ranked report's deltas to DeltaRow for export.
// The rows keep the report order, so Rank is just the slice position.
func ConvertReport(deltas []schema.Delta) []DeltaRow {
	result := make([]DeltaRow, len(deltas))
	for i := range deltas {
		d := &deltas[i]
		row := DeltaRow{
			Rank:    int32(i + 1),
			Kind:    string(d.Kind),
			Factors: schema.CanonicalFactors(d.Factors),
			Score:   d.Score,
			Label:   contract.GetPlainLabel(d.Score),
		}
		if d.Old != nil {
			row.OldPath = &d.Old.Path
		}
		if d.New != nil {
			row.NewPath = &d.New.Path
		}
		result[i] = row
	}
	return result
}

// ConvertDeltaRecords converts stored delta rows to DeltaRow for export.
func ConvertDeltaRecords(records []schema.DeltaRecord) []DeltaRow {
	result := make([]DeltaRow, len(records))
	for i, record := range records {
		row := DeltaRow{
			RunID:   record.RunID,
			Rank:    int32(i + 1),
			Kind:    record.Kind,
			Factors: record.Factors,
			Score:   record.Score,
			Label:   contract.GetPlainLabel(record.Score),
		}
		if record.OldPath != "" {
			oldPath := record.OldPath
			row.OldPath = &oldPath
		}
		if record.NewPath != "" {
			newPath := record.NewPath
			row.NewPath = &newPath
		}
		result[i] = row
	}
	return result
}

// ConvertRunRecords converts stored runs to RunRow for export.
func ConvertRunRecords(records []schema.RunRecord) []RunRow {
	result := make([]RunRow, len(records))
	for i, record := range records {
		row := RunRow{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			OldLabel:      record.OldLabel,
			NewLabel:      record.NewLabel,
			TotalOldFiles: int32(record.TotalOldFiles),
			TotalNewFiles: int32(record.TotalNewFiles),
			Added:         int32(record.Added),
			Removed:       int32(record.Removed),
			Modified:      int32(record.Modified),
			Moved:         int32(record.Moved),
			Unmodified:    int32(record.Unmodified),
			NetSizeDelta:  record.NetSizeDelta,
		}
		if record.ConfigParams != "" {
			params := record.ConfigParams
			row.ConfigParams = &params
		}
		result[i] = row
	}
	return result
}
