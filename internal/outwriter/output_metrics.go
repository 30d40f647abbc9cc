package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/scanwork/deltascan/internal/contract"
	"github.com/scanwork/deltascan/schema"
)

// metricsRenderModel is the processed view of the scoring configuration.
type metricsRenderModel struct {
	Description string              `json:"description"`
	Formula     string              `json:"formula"`
	Weights     []metricsWeightRow  `json:"weights"`
	Severity    []metricsSeverityRow `json:"severity"`
}

type metricsWeightRow struct {
	Factor string  `json:"factor"`
	Weight float64 `json:"weight"`
}

type metricsSeverityRow struct {
	Label    string  `json:"label"`
	MinScore float64 `json:"min_score"`
}

// PrintMetricsDefinitions displays the effective factor weights and severity
// bands. This is a static display that does not require inventory loading.
func PrintMetricsDefinitions(weights map[schema.FactorKey]float64, cfg *contract.Config) error {
	renderModel := buildMetricsRenderModel(weights)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, renderModel)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			writer := csv.NewWriter(w)
			defer writer.Flush()
			return writeCSVMetrics(writer, renderModel)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printMetricsText(w, renderModel)
		}, "Wrote text")
	}
}

// printMetricsText displays the scoring configuration in human-readable form.
func printMetricsText(w io.Writer, renderModel *metricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "🧮 Delta Scoring\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "================\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", renderModel.Description); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Formula: Score = %s\n\n", renderModel.Formula); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Factor weights:\n"); err != nil {
		return err
	}
	for _, row := range renderModel.Weights {
		if _, err := fmt.Fprintf(w, "   %-24s %g\n", row.Factor, row.Weight); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nSeverity labels by score:\n"); err != nil {
		return err
	}
	for _, row := range renderModel.Severity {
		if _, err := fmt.Fprintf(w, "   %-24s >= %g\n", row.Label, row.MinScore); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVMetrics displays the scoring configuration in CSV format.
func writeCSVMetrics(w *csv.Writer, renderModel *metricsRenderModel) error {
	if err := w.Write([]string{"factor", "weight"}); err != nil {
		return err
	}
	for _, row := range renderModel.Weights {
		if err := w.Write([]string{row.Factor, fmt.Sprintf("%g", row.Weight)}); err != nil {
			return err
		}
	}
	return nil
}

// buildMetricsRenderModel constructs the complete render model with all processed data.
func buildMetricsRenderModel(weights map[schema.FactorKey]float64) *metricsRenderModel {
	rows := make([]metricsWeightRow, 0, len(weights))
	for key, w := range weights {
		rows = append(rows, metricsWeightRow{Factor: string(key), Weight: w})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Factor < rows[j].Factor })

	formula := ""
	for i, row := range rows {
		if i > 0 {
			formula += " + "
		}
		formula += fmt.Sprintf("%g*%s", row.Weight, row.Factor)
	}

	return &metricsRenderModel{
		Description: "Every delta's score is the weighted sum of its factor values",
		Formula:     formula,
		Weights:     rows,
		Severity: []metricsSeverityRow{
			{Label: contract.CriticalValue, MinScore: 40},
			{Label: contract.HighValue, MinScore: 20},
			{Label: contract.ModerateValue, MinScore: 5},
			{Label: contract.LowValue, MinScore: 0},
		},
	}
}
