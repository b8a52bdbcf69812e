// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patterns holds the fixed vocabulary of PII type tags and the
// regular expression each tag is detected with.
package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Type is a PII type tag. The set of tags is the public vocabulary used by
// ground-truth labels, reports and masking.
type Type string

const (
	Email          Type = "EMAIL"
	Aadhaar        Type = "AADHAAR"
	PANCard        Type = "PAN_CARD"
	CreditCard     Type = "CREDIT_CARD"
	IndianMobile   Type = "INDIAN_MOBILE"
	VoterID        Type = "VOTER_ID"
	DrivingLicense Type = "DRIVING_LICENSE"
)

// String returns the tag as it appears in labels and reports
func (t Type) String() string {
	return string(t)
}

// Definition pairs a type tag with its pattern source and compiled form.
type Definition struct {
	Type        Type
	Pattern     string
	Description string

	re *regexp.Regexp
}

// Regexp returns the compiled pattern
func (d Definition) Regexp() *regexp.Regexp {
	return d.re
}

// builtin is the canonical, ordered table. Order is the discovery order used
// by the scanner and therefore the tie-break order for equal start offsets.
//
// INDIAN_MOBILE binds the optional separator to the +91/0 prefix so that a bare
// number does not absorb the whitespace in front of it.
var builtin = []Definition{
	{
		Type:        Email,
		Pattern:     `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
		Description: "Email address (local@domain.tld)",
	},
	{
		Type:        Aadhaar,
		Pattern:     `\b\d{4}\s?\d{4}\s?\d{4}\b`,
		Description: "Aadhaar number, 12 digits optionally grouped 4-4-4",
	},
	{
		Type:        PANCard,
		Pattern:     `\b[A-Z]{5}\d{4}[A-Z]\b`,
		Description: "PAN card, 5 letters + 4 digits + 1 letter",
	},
	{
		Type:        CreditCard,
		Pattern:     `\b(?:\d{4}[-\s]?){3}\d{4}\b`,
		Description: "Payment card, 4 groups of 4 digits",
	},
	{
		Type:        IndianMobile,
		Pattern:     `(?:\+91[-\s]?|\b0[-\s]?|\b)[6-9]\d{9}\b`,
		Description: "Indian mobile number, optional +91/0 prefix, 10 digits starting 6-9",
	},
	{
		Type:        VoterID,
		Pattern:     `\b[A-Z]{3}\d{7}\b`,
		Description: "Voter ID (EPIC), 3 letters + 7 digits",
	},
	{
		Type:        DrivingLicense,
		Pattern:     `\b[A-Z]{2}[-\s]?\d{2}[-\s]?\d{4}[-\s]?\d{7}\b`,
		Description: "Driving licence, state code + RTO + year + serial",
	},
}

// defaultRegistry is built once at startup. A pattern that fails to compile
// panics here, which keeps the binary from starting with a broken table.
var defaultRegistry = mustRegistry(builtin)

func mustRegistry(defs []Definition) *Registry {
	compiled := make([]Definition, len(defs))
	for i, def := range defs {
		def.re = regexp.MustCompile(def.Pattern)
		compiled[i] = def
	}
	return &Registry{defs: compiled}
}

// Registry is an immutable, ordered set of pattern definitions.
type Registry struct {
	defs []Definition
}

// Default returns the registry holding every built-in type tag
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry compiles a custom set of definitions. Unlike the built-in table,
// a bad definition here is reported as an error.
func NewRegistry(defs []Definition) (*Registry, error) {
	seen := make(map[Type]bool, len(defs))
	compiled := make([]Definition, 0, len(defs))
	for _, def := range defs {
		if def.Type == "" {
			return nil, fmt.Errorf("pattern definition has empty type tag")
		}
		if seen[def.Type] {
			return nil, fmt.Errorf("duplicate pattern definition for %s", def.Type)
		}
		if def.Pattern == "" {
			return nil, fmt.Errorf("pattern definition for %s is empty", def.Type)
		}
		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for %s: %w", def.Type, err)
		}
		seen[def.Type] = true
		def.re = re
		compiled = append(compiled, def)
	}
	return &Registry{defs: compiled}, nil
}

// Definitions returns the definitions in registry order. The returned slice is
// a copy; callers may not alter the registry through it.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Types returns the type tags in registry order
func (r *Registry) Types() []Type {
	types := make([]Type, len(r.defs))
	for i, def := range r.defs {
		types[i] = def.Type
	}
	return types
}

// Lookup returns the definition for a tag
func (r *Registry) Lookup(t Type) (Definition, bool) {
	for _, def := range r.defs {
		if def.Type == t {
			return def, true
		}
	}
	return Definition{}, false
}

// Len returns the number of active definitions
func (r *Registry) Len() int {
	return len(r.defs)
}

// Subset restricts the registry to the given tags. Unknown tags are dropped
// silently, and registry order is kept regardless of the order of types.
// An empty subset means no restriction.
func (r *Registry) Subset(types ...Type) *Registry {
	if len(types) == 0 {
		return r
	}
	want := make(map[Type]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	defs := make([]Definition, 0, len(types))
	for _, def := range r.defs {
		if want[def.Type] {
			defs = append(defs, def)
		}
	}
	return &Registry{defs: defs}
}

// All returns every built-in type tag in canonical order
func All() []Type {
	return defaultRegistry.Types()
}

// IsKnown reports whether t is part of the built-in vocabulary
func IsKnown(t Type) bool {
	_, ok := defaultRegistry.Lookup(t)
	return ok
}

// ParseChecks converts a comma-separated list of tags into type tags.
// An empty string or "all" yields nil, meaning every tag. Unknown names are
// ignored and surrounding whitespace is trimmed.
func ParseChecks(checks string) []Type {
	checks = strings.TrimSpace(checks)
	if checks == "" || strings.EqualFold(checks, "all") {
		return nil
	}

	var types []Type
	seen := make(map[Type]bool)
	for _, name := range strings.Split(checks, ",") {
		t := Type(strings.ToUpper(strings.TrimSpace(name)))
		if t == "" || seen[t] || !IsKnown(t) {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	return types
}

// Set is the set of distinct type tags detected in one record.
type Set map[Type]struct{}

// NewSet builds a set from the given tags
func NewSet(types ...Type) Set {
	s := make(Set, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts t
func (s Set) Add(t Type) {
	s[t] = struct{}{}
}

// Has reports membership
func (s Set) Has(t Type) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the members in lexical order
func (s Set) Sorted() []Type {
	out := make([]Type, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
