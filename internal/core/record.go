// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"strings"

	"pii-redactor/internal/detector"
	"pii-redactor/internal/patterns"
	"pii-redactor/internal/redactors"
	"pii-redactor/internal/tabular"
	"pii-redactor/internal/validation"
)

// Record is one data row handed to the pipeline. Columns and Cells are
// parallel slices in file order.
type Record struct {
	Index       int
	Columns     []string
	Cells       []string
	Expected    patterns.Type
	HasExpected bool

	// LabelColumn names the ground-truth column. Its cell is neither scanned
	// nor masked. Empty means the row has no label column.
	LabelColumn string
}

// RecordResult is the outcome of processing one record
type RecordResult struct {
	Index        int
	Cells        []string
	Detections   []detector.Detection
	CellsScanned int
	Delta        validation.Counters
}

// RecordsFromTable converts table rows into records. The second return value
// reports validation mode, which is on when the label column exists. Label
// cells are never scanned and are carried through unchanged.
func RecordsFromTable(table *tabular.Table, labelColumn string) ([]Record, bool) {
	if table == nil {
		return nil, false
	}

	labelIndex := -1
	if labelColumn != "" {
		labelIndex = table.ColumnIndex(labelColumn)
	}

	records := make([]Record, len(table.Rows))
	for i, row := range table.Rows {
		rec := Record{
			Index:   i,
			Columns: table.Header,
			Cells:   row,
		}
		if labelIndex >= 0 {
			rec.LabelColumn = labelColumn
		}
		if labelIndex >= 0 && labelIndex < len(row) {
			rec.Expected = normalizeLabel(row[labelIndex])
			rec.HasExpected = rec.Expected != ""
		}
		records[i] = rec
	}
	return records, labelIndex >= 0
}

func normalizeLabel(label string) patterns.Type {
	return patterns.Type(strings.ToUpper(strings.TrimSpace(label)))
}

// ProcessRecord scans every non-empty cell, masks resolved matches in place
// and scores the row against its expected type. The input record is not
// modified.
func ProcessRecord(rec Record, registry *patterns.Registry, mode redactors.ReplaceMode) RecordResult {
	result := RecordResult{
		Index: rec.Index,
		Cells: make([]string, len(rec.Cells)),
	}
	copy(result.Cells, rec.Cells)

	found := patterns.NewSet()
	for col, cell := range rec.Cells {
		column := ""
		if col < len(rec.Columns) {
			column = rec.Columns[col]
		}
		if cell == "" || (rec.LabelColumn != "" && column == rec.LabelColumn) {
			continue
		}
		result.CellsScanned++

		matches := detector.Detect(cell, registry)
		if len(matches) == 0 {
			continue
		}

		for _, m := range matches {
			found.Add(m.Type)
			result.Detections = append(result.Detections, detector.Detection{
				Type:   m.Type,
				Value:  m.Text,
				Masked: redactors.Mask(m.Type, m.Text),
				Row:    rec.Index,
				Column: column,
			})
		}
		result.Cells[col] = redactors.Apply(cell, matches, mode)
	}

	if rec.HasExpected {
		result.Delta = validation.Score(rec.Expected, found)
	}
	return result
}
