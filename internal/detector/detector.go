// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"sort"

	"pii-redactor/internal/patterns"
)

// Match represents a detected PII candidate. Start and End are byte offsets
// into the scanned text and Text == text[Start:End].
type Match struct {
	Type  patterns.Type
	Text  string
	Start int
	End   int
}

// Len returns the span length in bytes
func (m Match) Len() int {
	return m.End - m.Start
}

// Overlaps reports whether the two spans share at least one byte
func (m Match) Overlaps(other Match) bool {
	return m.Start < other.End && other.Start < m.End
}

// Detection is a resolved match placed in its dataset position, as reported
// to callers outside the pipeline.
type Detection struct {
	Type   patterns.Type `json:"type" yaml:"type"`
	Value  string        `json:"value" yaml:"value"`
	Masked string        `json:"masked" yaml:"masked"`
	Row    int           `json:"row" yaml:"row"`
	Column string        `json:"column" yaml:"column"`
}

// Scan applies every definition to text and returns all raw, possibly
// overlapping candidates. Output is grouped by definition in registry order;
// within a definition, matches are in text order.
func Scan(text string, defs []patterns.Definition) []Match {
	if text == "" {
		return nil
	}

	var matches []Match
	for _, def := range defs {
		re := def.Regexp()
		if re == nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			if start >= end {
				continue
			}
			matches = append(matches, Match{
				Type:  def.Type,
				Text:  text[start:end],
				Start: start,
				End:   end,
			})
		}
	}
	return matches
}

// Resolve reduces raw candidates to a non-overlapping set ordered by Start.
//
// Candidates are stably sorted by Start, then walked once keeping a current
// candidate: a candidate that ends inside the current one is dropped; one that
// starts at or after the current end flushes the current; a partial overlap
// keeps the longer span, and the current span on a tie. The loser is dropped
// entirely. The input slice is not modified.
func Resolve(raw []Match) []Match {
	if len(raw) == 0 {
		return nil
	}

	sorted := make([]Match, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	resolved := make([]Match, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		switch {
		case next.End <= current.End:
			continue
		case next.Start >= current.End:
			resolved = append(resolved, current)
			current = next
		case next.Len() > current.Len():
			current = next
		}
	}
	return append(resolved, current)
}

// Detect scans text with every definition in the registry and resolves overlaps
func Detect(text string, registry *patterns.Registry) []Match {
	return Resolve(Scan(text, registry.Definitions()))
}

// DetectedTypes returns the distinct type tags present in matches
func DetectedTypes(matches []Match) patterns.Set {
	set := make(patterns.Set, len(matches))
	for _, m := range matches {
		set.Add(m.Type)
	}
	return set
}
