// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"sort"
	"strings"
	"time"

	"pii-redactor/internal/core"
	"pii-redactor/internal/detector"
	"pii-redactor/internal/validation"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Verbose    bool // Whether to list every detection
	NoColor    bool // Whether to disable colored output
	ShowValues bool // Whether to display the original detected values instead of their masked form
}

// ValidationSummary carries ground-truth scoring for labelled datasets
type ValidationSummary struct {
	Counters validation.Counters `json:"counters" yaml:"counters"`
	Metrics  validation.Metrics  `json:"metrics" yaml:"metrics"`
}

// Report is the run summary handed to every formatter
type Report struct {
	RunID           string
	InputFile       string
	OutputFile      string
	GeneratedAt     time.Time
	RowsProcessed   int
	CellsScanned    int
	TotalDetections int
	CountsByType    map[string]int
	Detections      []detector.Detection
	Validation      *ValidationSummary
}

// NewReport summarises a processed dataset. Validation is nil when the
// dataset had no label column.
func NewReport(runID, inputFile, outputFile string, result *core.DatasetResult, generatedAt time.Time) Report {
	report := Report{
		RunID:        runID,
		InputFile:    inputFile,
		OutputFile:   outputFile,
		GeneratedAt:  generatedAt.UTC(),
		CountsByType: make(map[string]int),
	}
	if result == nil {
		return report
	}

	report.RowsProcessed = len(result.Records)
	report.CellsScanned = result.CellsScanned
	report.TotalDetections = len(result.Detections)
	report.Detections = result.Detections
	for t, n := range result.CountsByType() {
		report.CountsByType[string(t)] = n
	}
	if m, ok := result.Metrics(); ok {
		report.Validation = &ValidationSummary{Counters: result.Counters, Metrics: m}
	}
	return report
}

// TypeCount is one entry of a report's per-type totals
type TypeCount struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// SortedCounts returns the per-type totals ordered by count, then type name
func (r Report) SortedCounts() []TypeCount {
	counts := make([]TypeCount, 0, len(r.CountsByType))
	for t, n := range r.CountsByType {
		counts = append(counts, TypeCount{Type: t, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Type < counts[j].Type
	})
	return counts
}

// DisplayValue returns the value a formatter may print for a detection
func DisplayValue(d detector.Detection, options FormatterOptions) string {
	if options.ShowValues {
		return d.Value
	}
	return d.Masked
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the report in the formatter's specific output format
	Format(report Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json", ".txt", ".csv")
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[strings.ToLower(name)]
	return formatter, exists
}

// List returns all registered formatter names in sorted order
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// FormatInfo provides metadata about a formatter for help output
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
}

// GetSupportedFormats returns information about all available formatters
func GetSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, name := range List() {
		formatter, _ := Get(name)
		formats = append(formats, FormatInfo{
			Name:        formatter.Name(),
			Description: formatter.Description(),
			Extension:   formatter.FileExtension(),
		})
	}
	return formats
}
