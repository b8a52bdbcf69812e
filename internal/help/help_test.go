// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"bytes"
	"testing"

	_ "pii-redactor/internal/formatters/json"
	"pii-redactor/internal/patterns"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestChecks_FollowRegistryOrder(t *testing.T) {
	infos := Checks(patterns.Default().Subset(patterns.PANCard, patterns.Email))
	if assert.Len(t, infos, 2) {
		assert.Equal(t, "EMAIL", infos[0].Name)
		assert.Equal(t, "PAN_CARD", infos[1].Name)
		assert.NotEmpty(t, infos[1].Pattern)
		assert.NotEmpty(t, infos[1].MaskPolicy)
	}
}

func TestShowChecksHelp(t *testing.T) {
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowChecksHelp(patterns.Default())

	for _, typ := range patterns.All() {
		assert.Contains(t, buf.String(), string(typ))
	}
}

func TestShowCheckHelp(t *testing.T) {
	var buf bytes.Buffer
	h := NewSystem(&buf, true)

	assert.True(t, h.ShowCheckHelp(patterns.Default(), "voter_id"))
	assert.Contains(t, buf.String(), "VOTER_ID Check")

	buf.Reset()
	assert.False(t, h.ShowCheckHelp(patterns.Default(), "ssn"))
	assert.Contains(t, buf.String(), "not found")
}

func TestShowGeneralHelp(t *testing.T) {
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowGeneralHelp()
	assert.Contains(t, buf.String(), "-replace-mode")
	assert.Contains(t, buf.String(), "DRIVING_LICENSE")
}

func TestShowGeneralHelp_ListsReportFormats(t *testing.T) {
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowGeneralHelp()
	assert.Contains(t, buf.String(), "REPORT FORMATS:")
	assert.Regexp(t, `json\s+\.json\s+Structured JSON report`, buf.String())
}

func TestNewSystem_NoColorLeavesGlobalAlone(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })
	color.NoColor = false

	var buf bytes.Buffer
	NewSystem(&buf, true).ShowGeneralHelp()

	assert.False(t, color.NoColor)
	assert.NotContains(t, buf.String(), "\x1b[")
}
