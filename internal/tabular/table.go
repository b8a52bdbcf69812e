// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tabular reads and writes the delimited files the redactor works on.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyInput is returned when the input has no header row
var ErrEmptyInput = errors.New("input has no header row")

// ErrRowTooLong is returned when a row carries non-empty cells past the header width
var ErrRowTooLong = errors.New("row has more fields than the header")

// Table is a header plus string rows. Every row has len(Header) cells.
type Table struct {
	Header   []string
	Rows     [][]string
	Encoding string
}

// ColumnIndex returns the index of the named column or -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Header {
		if col == name {
			return i
		}
	}
	return -1
}

// Read parses CSV content. The encoding is detected and converted to UTF-8
// first. Every cell is kept as a string and short rows are padded with empty
// cells. Trailing empty cells beyond the header are ignored; any other extra
// cell fails the read with ErrRowTooLong.
func Read(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	data, encodingName, err := DecodeToUTF8(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	table := &Table{Header: header, Encoding: encodingName}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d: %w", len(table.Rows)+1, err)
		}
		if extra := lastNonEmpty(record) + 1; extra > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("row %d (line %d) has %d fields, header has %d: %w",
				len(table.Rows)+1, line, extra, len(header), ErrRowTooLong)
		}
		table.Rows = append(table.Rows, normalizeRow(record, len(header)))
	}
	return table, nil
}

// ReadFile reads and parses a CSV file
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	table, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Write emits the table as UTF-8 CSV with its header
func Write(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteFile writes the table to path, replacing any existing file
func WriteFile(path string, table *Table) error {
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func normalizeRow(record []string, width int) []string {
	row := make([]string, width)
	copy(row, record)
	return row
}

func lastNonEmpty(record []string) int {
	for i := len(record) - 1; i >= 0; i-- {
		if record[i] != "" {
			return i
		}
	}
	return -1
}
