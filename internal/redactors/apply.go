// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"strings"

	"pii-redactor/internal/detector"
)

// ReplaceMode selects how masked values are written back into a cell.
type ReplaceMode string

const (
	// ReplaceOffsets rewrites only the recorded span of each match
	ReplaceOffsets ReplaceMode = "offsets"

	// ReplaceLiteral rewrites every literal occurrence of each matched value
	// in the cell, including occurrences outside the matched span. It can
	// over-redact and exists for output compatibility with older runs.
	ReplaceLiteral ReplaceMode = "literal"
)

// ParseReplaceMode validates a mode name. An empty name selects ReplaceOffsets.
func ParseReplaceMode(name string) (ReplaceMode, error) {
	switch ReplaceMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ReplaceOffsets:
		return ReplaceOffsets, nil
	case ReplaceLiteral:
		return ReplaceLiteral, nil
	default:
		return "", fmt.Errorf("unknown replace mode %q (expected %q or %q)", name, ReplaceOffsets, ReplaceLiteral)
	}
}

// Apply returns text with each resolved match replaced by its masked value.
// matches must come from detector.Resolve on the same text.
func Apply(text string, matches []detector.Match, mode ReplaceMode) string {
	if len(matches) == 0 {
		return text
	}
	if mode == ReplaceLiteral {
		return applyLiteral(text, matches)
	}
	return applyOffsets(text, matches)
}

func applyOffsets(text string, matches []detector.Match) string {
	var builder strings.Builder
	builder.Grow(len(text))

	cursor := 0
	for _, match := range matches {
		if match.Start < cursor || match.Start > match.End || match.End > len(text) || text[match.Start:match.End] != match.Text {
			// Span does not belong to this text; leave it alone.
			continue
		}
		builder.WriteString(text[cursor:match.Start])
		builder.WriteString(Mask(match.Type, match.Text))
		cursor = match.End
	}
	builder.WriteString(text[cursor:])
	return builder.String()
}

func applyLiteral(text string, matches []detector.Match) string {
	for _, match := range matches {
		if match.Text == "" {
			continue
		}
		text = strings.ReplaceAll(text, match.Text, Mask(match.Type, match.Text))
	}
	return text
}
