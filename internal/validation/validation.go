// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package validation scores detections against ground-truth type labels.
package validation

import (
	"pii-redactor/internal/patterns"
)

// Counters holds true-positive, false-positive and false-negative totals.
// Counters only grow; combine partial counts with Add.
type Counters struct {
	TP int `json:"tp" yaml:"tp"`
	FP int `json:"fp" yaml:"fp"`
	FN int `json:"fn" yaml:"fn"`
}

// Add folds delta into c
func (c *Counters) Add(delta Counters) {
	c.TP += delta.TP
	c.FP += delta.FP
	c.FN += delta.FN
}

// IsZero reports whether no outcome has been counted
func (c Counters) IsZero() bool {
	return c.TP == 0 && c.FP == 0 && c.FN == 0
}

// Metrics is the read-only quality view derived from Counters.
type Metrics struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1_score" yaml:"f1_score"`
}

// Metrics derives precision, recall and F1. Any zero denominator yields 0.
func (c Counters) Metrics() Metrics {
	var m Metrics
	if c.TP+c.FP > 0 {
		m.Precision = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		m.Recall = float64(c.TP) / float64(c.TP+c.FN)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// Score compares one record's detected types against its expected label and
// returns the counter delta for that record. An empty expected label means the
// record is unlabelled and contributes nothing. False positives are counted per
// distinct extraneous type, not per instance.
func Score(expected patterns.Type, detected patterns.Set) Counters {
	var delta Counters
	if expected == "" {
		return delta
	}

	if detected.Has(expected) {
		delta.TP++
	} else {
		delta.FN++
	}
	for t := range detected {
		if t != expected {
			delta.FP++
		}
	}
	return delta
}
