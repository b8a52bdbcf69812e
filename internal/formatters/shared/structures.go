// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"pii-redactor/internal/formatters"
	"pii-redactor/internal/validation"
)

// JSONReport represents the top-level report structure for JSON/YAML output
type JSONReport struct {
	RunID           string                 `json:"run_id" yaml:"run_id"`
	InputFile       string                 `json:"input_file" yaml:"input_file"`
	OutputFile      string                 `json:"output_file" yaml:"output_file"`
	GeneratedAt     string                 `json:"generated_at" yaml:"generated_at"`
	RowsProcessed   int                    `json:"rows_processed" yaml:"rows_processed"`
	CellsScanned    int                    `json:"cells_scanned" yaml:"cells_scanned"`
	TotalDetections int                    `json:"total_detections" yaml:"total_detections"`
	CountsByType    []formatters.TypeCount `json:"counts_by_type" yaml:"counts_by_type"`
	Validation      *JSONValidation        `json:"validation,omitempty" yaml:"validation,omitempty"`
	Detections      []JSONDetection        `json:"detections,omitempty" yaml:"detections,omitempty"`
}

// JSONValidation flattens counters and derived metrics
type JSONValidation struct {
	TruePositives  int     `json:"true_positives" yaml:"true_positives"`
	FalsePositives int     `json:"false_positives" yaml:"false_positives"`
	FalseNegatives int     `json:"false_negatives" yaml:"false_negatives"`
	Precision      float64 `json:"precision" yaml:"precision"`
	Recall         float64 `json:"recall" yaml:"recall"`
	F1Score        float64 `json:"f1_score" yaml:"f1_score"`
}

// JSONDetection represents a single detection in JSON/YAML format
type JSONDetection struct {
	Row    int    `json:"row" yaml:"row"`
	Column string `json:"column" yaml:"column"`
	Type   string `json:"type" yaml:"type"`
	Value  string `json:"value" yaml:"value"`
}

// ConvertReport converts a report to the JSON/YAML structure. Detections are
// only listed in verbose mode, and values stay masked unless ShowValues is set.
func ConvertReport(report formatters.Report, options formatters.FormatterOptions) JSONReport {
	out := JSONReport{
		RunID:           report.RunID,
		InputFile:       report.InputFile,
		OutputFile:      report.OutputFile,
		RowsProcessed:   report.RowsProcessed,
		CellsScanned:    report.CellsScanned,
		TotalDetections: report.TotalDetections,
		CountsByType:    report.SortedCounts(),
	}
	if !report.GeneratedAt.IsZero() {
		out.GeneratedAt = report.GeneratedAt.Format(time.RFC3339)
	}
	if report.Validation != nil {
		out.Validation = convertValidation(report.Validation.Counters, report.Validation.Metrics)
	}

	if options.Verbose {
		out.Detections = make([]JSONDetection, 0, len(report.Detections))
		for _, d := range report.Detections {
			out.Detections = append(out.Detections, JSONDetection{
				Row:    d.Row,
				Column: d.Column,
				Type:   string(d.Type),
				Value:  formatters.DisplayValue(d, options),
			})
		}
	}
	return out
}

func convertValidation(c validation.Counters, m validation.Metrics) *JSONValidation {
	return &JSONValidation{
		TruePositives:  c.TP,
		FalsePositives: c.FP,
		FalseNegatives: c.FN,
		Precision:      m.Precision,
		Recall:         m.Recall,
		F1Score:        m.F1,
	}
}
