// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"strings"

	"pii-redactor/internal/patterns"
)

// BuildRegistry returns the pattern registry restricted to the comma separated
// checks. Empty or "all" selects every type. Unknown tags are ignored, but a
// list naming no known type at all is rejected so a typo does not silently
// disable detection.
func BuildRegistry(checks string) (*patterns.Registry, error) {
	types := patterns.ParseChecks(checks)
	if types == nil {
		trimmed := strings.TrimSpace(checks)
		if trimmed == "" || strings.EqualFold(trimmed, "all") {
			return patterns.Default(), nil
		}
		return nil, fmt.Errorf("no known PII types in checks %q", checks)
	}
	return patterns.Default().Subset(types...), nil
}
