// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"time"

	"pii-redactor/internal/detector"
	"pii-redactor/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable summary with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder
	f.appendHeader(&builder, report)

	if report.TotalDetections == 0 {
		builder.WriteString(f.colors["green"].Sprint("No PII found.") + "\n")
	} else {
		builder.WriteString(f.colors["red"].Sprintf("Found %d PII instances", report.TotalDetections) + "\n")
		f.appendCounts(&builder, report)
	}

	if report.Validation != nil {
		f.appendValidation(&builder, report.Validation)
	}

	if options.Verbose && len(report.Detections) > 0 {
		f.appendDetections(&builder, report.Detections, options)
	}

	return builder.String(), nil
}

// appendHeader writes the run identification block
func (f *Formatter) appendHeader(builder *strings.Builder, report formatters.Report) {
	builder.WriteString(f.colors["white"].Sprint("PII De-identification Report") + "\n")
	builder.WriteString(strings.Repeat("=", 28) + "\n")
	fmt.Fprintf(builder, "Input:          %s\n", report.InputFile)
	if report.OutputFile != "" {
		fmt.Fprintf(builder, "Output:         %s\n", report.OutputFile)
	}
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(builder, "Generated:      %s\n", report.GeneratedAt.Format(time.RFC3339))
	}
	if report.RunID != "" {
		fmt.Fprintf(builder, "Run ID:         %s\n", report.RunID)
	}
	fmt.Fprintf(builder, "Rows processed: %d\n", report.RowsProcessed)
	fmt.Fprintf(builder, "Cells scanned:  %d\n\n", report.CellsScanned)
}

// appendCounts writes one line per detected type
func (f *Formatter) appendCounts(builder *strings.Builder, report formatters.Report) {
	counts := report.SortedCounts()
	width := 0
	for _, c := range counts {
		if len(c.Type) > width {
			width = len(c.Type)
		}
	}
	for _, c := range counts {
		fmt.Fprintf(builder, "  %s  %d\n", f.colors["cyan"].Sprintf("%-*s", width, c.Type), c.Count)
	}
}

// appendValidation writes the confusion counts and derived metrics
func (f *Formatter) appendValidation(builder *strings.Builder, v *formatters.ValidationSummary) {
	builder.WriteString("\n" + f.colors["white"].Sprint("Validation") + "\n")
	fmt.Fprintf(builder, "  True positives:  %d\n", v.Counters.TP)
	fmt.Fprintf(builder, "  False positives: %d\n", v.Counters.FP)
	fmt.Fprintf(builder, "  False negatives: %d\n", v.Counters.FN)
	fmt.Fprintf(builder, "  Precision: %s\n", f.scoreColor(v.Metrics.Precision).Sprintf("%.4f", v.Metrics.Precision))
	fmt.Fprintf(builder, "  Recall:    %s\n", f.scoreColor(v.Metrics.Recall).Sprintf("%.4f", v.Metrics.Recall))
	fmt.Fprintf(builder, "  F1 score:  %s\n", f.scoreColor(v.Metrics.F1).Sprintf("%.4f", v.Metrics.F1))
}

// appendDetections lists every detection as "row column type value"
func (f *Formatter) appendDetections(builder *strings.Builder, detections []detector.Detection, options formatters.FormatterOptions) {
	builder.WriteString("\n" + f.colors["white"].Sprint("Detections") + "\n")
	for _, d := range detections {
		fmt.Fprintf(builder, "  row %-6d %-20s %s %s\n",
			d.Row,
			d.Column,
			f.colors["magenta"].Sprintf("%-16s", d.Type),
			formatters.DisplayValue(d, options))
	}
}

// scoreColor picks green, yellow or red for a 0..1 quality score
func (f *Formatter) scoreColor(score float64) *color.Color {
	switch {
	case score >= 0.9:
		return f.colors["green"]
	case score >= 0.6:
		return f.colors["yellow"]
	default:
		return f.colors["red"]
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
