// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strings"

	"pii-redactor/internal/detector"
	"pii-redactor/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "One row per detection for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	headers := []string{"Row", "Column", "Type", "Value"}
	if options.Verbose {
		headers = append(headers, "Input File")
	}

	csvRows := []string{strings.Join(headers, ",")}
	for _, d := range report.Detections {
		csvRows = append(csvRows, f.createCSVRow(d, report, options))
	}

	return strings.Join(csvRows, "\n"), nil
}

// createCSVRow creates a CSV row for a detection
func (f *Formatter) createCSVRow(d detector.Detection, report formatters.Report, options formatters.FormatterOptions) string {
	row := []string{
		fmt.Sprintf("%d", d.Row),
		f.escapeCSVField(d.Column),
		f.escapeCSVField(string(d.Type)),
		f.escapeCSVField(formatters.DisplayValue(d, options)),
	}
	if options.Verbose {
		row = append(row, f.escapeCSVField(report.InputFile))
	}
	return strings.Join(row, ",")
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	// If field contains comma, quote, or newline, wrap in quotes and escape internal quotes
	if strings.ContainsAny(field, ",\"\n\r") {
		escaped := strings.ReplaceAll(field, "\"", "\"\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return field
}

// sanitizeFormulaInjection prefixes fields that a spreadsheet would evaluate as a formula
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	firstChar := field[0]
	if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' {
		return "'" + field
	}

	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
