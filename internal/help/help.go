// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"pii-redactor/internal/formatters"
	"pii-redactor/internal/patterns"
	"pii-redactor/internal/redactors"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a check
type CheckInfo struct {
	Name        string // Type tag (e.g., "PAN_CARD")
	Description string // What the pattern matches
	Pattern     string // Regular expression used by the scanner
	MaskPolicy  string // How detected values are redacted
}

// System renders help content for the application
type System struct {
	out    io.Writer
	colors map[string]*color.Color
}

// NewSystem creates a new help system writing to out. noColor only affects
// this system's output.
func NewSystem(out io.Writer, noColor bool) *System {
	colors := map[string]*color.Color{
		"title":    color.New(color.FgWhite, color.Bold),
		"header":   color.New(color.FgBlue, color.Bold),
		"item":     color.New(color.FgCyan),
		"emphasis": color.New(color.FgWhite, color.Bold),
		"example":  color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}

	return &System{out: out, colors: colors}
}

// Checks returns the check descriptions for a registry in registry order
func Checks(registry *patterns.Registry) []CheckInfo {
	defs := registry.Definitions()
	infos := make([]CheckInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, CheckInfo{
			Name:        string(def.Type),
			Description: def.Description,
			Pattern:     def.Pattern,
			MaskPolicy:  redactors.Policy(def.Type),
		})
	}
	return infos
}

// ShowGeneralHelp displays usage, options and examples
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Fprintln(h.out, "PII Redactor - detect and mask PII in CSV datasets")
	fmt.Fprintln(h.out, "=================================================")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "USAGE:")
	fmt.Fprintln(h.out, "  pii-redactor -input <file.csv> [options]")
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "OPTIONS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  -input\t<path>\tCSV file to de-identify (required)")
	fmt.Fprintln(w, "  -output-dir\t<path>\tDirectory for the de-identified file and report (default: output)")
	fmt.Fprintln(w, "  -config\t<path>\tConfiguration file (YAML)")
	fmt.Fprintln(w, "  -profile\t<name>\tProfile from the configuration file")
	fmt.Fprintln(w, "  -checks\t<checks>\tTypes to detect: "+strings.Join(typeNames(), ",")+",all (default: all)")
	fmt.Fprintln(w, "  -format\t<format>\tReport format: "+strings.Join(formatters.List(), ", ")+" (default: text)")
	fmt.Fprintln(w, "  -replace-mode\t<mode>\toffsets (mask matched spans only) or literal (mask every occurrence)")
	fmt.Fprintln(w, "  -workers\t<n>\tParallel workers, 0 uses one per CPU")
	fmt.Fprintln(w, "  -label-column\t<name>\tGround-truth column; when present precision/recall/F1 are reported (default: pii_type)")
	fmt.Fprintln(w, "  -metrics-file\t<path>\tWrite Prometheus metrics in the textfile format")
	fmt.Fprintln(w, "  -trace-file\t<path>\tWrite OpenTelemetry spans as JSON lines")
	fmt.Fprintln(w, "  -allow-outside-cwd\t\tAccept input files outside the working directory")
	fmt.Fprintln(w, "  -show-values\t\tPrint original values in the report instead of masked ones")
	fmt.Fprintln(w, "  -no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  -quiet\t\tSuppress progress and status output")
	fmt.Fprintln(w, "  -debug\t\tLog pipeline steps and timings to stderr")
	fmt.Fprintln(w, "  -list-checks\t\tList detectable PII types and exit")
	fmt.Fprintln(w, "  -version\t\tShow version information")
	w.Flush()

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "REPORT FORMATS:")
	w = tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for _, info := range formatters.GetSupportedFormats() {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", info.Name, info.Extension, info.Description)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "EXAMPLES:")
	h.colors["example"].Fprintln(h.out, "  pii-redactor -input customers.csv")
	h.colors["example"].Fprintln(h.out, "  pii-redactor -input labelled.csv -format json -label-column pii_type")
	h.colors["example"].Fprintln(h.out, "  pii-redactor -input customers.csv -checks EMAIL,INDIAN_MOBILE -replace-mode literal")

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Project config: pii-redactor.yaml or .pii-redactor.yaml (in current directory)")
	fmt.Fprintln(h.out, "  User config:    $XDG_CONFIG_HOME/pii-redactor/config.yaml")
	fmt.Fprintln(h.out, "  Environment:    PII_REDACTOR_CONFIG_DIR overrides the user config directory")
}

// ShowChecksHelp lists every check in the registry
func (h *System) ShowChecksHelp(registry *patterns.Registry) {
	h.colors["title"].Fprintln(h.out, "Available Checks")
	fmt.Fprintln(h.out, "================")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  CHECK\tDESCRIPTION\tMASKING")
	h.colors["header"].Fprintln(w, "  -----\t-----------\t-------")
	for _, info := range Checks(registry) {
		fmt.Fprintf(w, "  ")
		h.colors["emphasis"].Fprintf(w, "%s", info.Name)
		fmt.Fprintf(w, "\t%s\t%s\n", info.Description, info.MaskPolicy)
	}
	w.Flush()
}

// ShowCheckHelp displays the pattern and masking policy for one check
func (h *System) ShowCheckHelp(registry *patterns.Registry, name string) bool {
	def, ok := registry.Lookup(patterns.Type(strings.ToUpper(name)))
	if !ok {
		fmt.Fprintf(h.out, "Error: Check '%s' not found.\n", name)
		return false
	}

	h.colors["title"].Fprintf(h.out, "%s Check\n", def.Type)
	fmt.Fprintln(h.out, strings.Repeat("=", len(def.Type)+6))
	fmt.Fprintln(h.out, def.Description)
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "PATTERN:")
	h.colors["item"].Fprintf(h.out, "  %s\n", def.Pattern)
	h.colors["header"].Fprintln(h.out, "MASKING:")
	fmt.Fprintf(h.out, "  %s\n", redactors.Policy(def.Type))
	return true
}

func typeNames() []string {
	names := make([]string, 0, len(patterns.All()))
	for _, t := range patterns.All() {
		names = append(names, string(t))
	}
	return names
}
