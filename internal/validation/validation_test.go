// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"testing"

	"pii-redactor/internal/patterns"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name     string
		expected patterns.Type
		detected patterns.Set
		delta    Counters
	}{
		{"exact hit", patterns.Email, patterns.NewSet(patterns.Email), Counters{TP: 1}},
		{"miss", patterns.Email, patterns.NewSet(), Counters{FN: 1}},
		{"hit plus extra type", patterns.Email, patterns.NewSet(patterns.Email, patterns.PANCard), Counters{TP: 1, FP: 1}},
		{"miss plus wrong types", patterns.Email, patterns.NewSet(patterns.PANCard, patterns.VoterID), Counters{FP: 2, FN: 1}},
		{"unlabelled record", "", patterns.NewSet(patterns.PANCard), Counters{}},
		{"nil set", patterns.Aadhaar, nil, Counters{FN: 1}},
		{"label outside vocabulary", patterns.Type("NONE"), patterns.NewSet(patterns.Email), Counters{FP: 1, FN: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.delta, Score(tc.expected, tc.detected))
		})
	}
}

func TestScore_DoesNotMutateDetected(t *testing.T) {
	detected := patterns.NewSet(patterns.Email, patterns.PANCard)
	Score(patterns.Email, detected)
	assert.Len(t, detected, 2)
}

func TestCounters_Add(t *testing.T) {
	var total Counters
	assert.True(t, total.IsZero())
	total.Add(Counters{TP: 1})
	total.Add(Counters{FP: 2, FN: 1})
	total.Add(Counters{TP: 2})
	assert.Equal(t, Counters{TP: 3, FP: 2, FN: 1}, total)
	assert.False(t, total.IsZero())
}

func TestCounters_Metrics(t *testing.T) {
	m := Counters{TP: 3, FP: 1, FN: 1}.Metrics()
	assert.InDelta(t, 0.75, m.Precision, 1e-9)
	assert.InDelta(t, 0.75, m.Recall, 1e-9)
	assert.InDelta(t, 0.75, m.F1, 1e-9)

	m = Counters{TP: 1, FP: 1, FN: 3}.Metrics()
	assert.InDelta(t, 0.5, m.Precision, 1e-9)
	assert.InDelta(t, 0.25, m.Recall, 1e-9)
	assert.InDelta(t, 1.0/3.0, m.F1, 1e-9)
}

func TestCounters_MetricsZeroDenominators(t *testing.T) {
	assert.Equal(t, Metrics{}, Counters{}.Metrics())
	assert.Equal(t, Metrics{}, Counters{FP: 4}.Metrics())
	assert.Equal(t, Metrics{}, Counters{FN: 2}.Metrics())
}
