// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"strings"
	"unicode/utf8"

	"pii-redactor/internal/patterns"
)

const (
	// emailMask replaces everything after the first character of the local part
	emailMask = "***"

	// mobileMask replaces the middle digits of a mobile number
	mobileMask = "******"

	fullMaskChar = "X"
	cardMaskChar = "*"
)

// Mask returns the redacted form of value for the given type tag. It is pure
// and never fails: input that does not have the expected shape is fully
// masked, and an unknown tag returns value unchanged.
func Mask(t patterns.Type, value string) string {
	switch t {
	case patterns.Email:
		return maskEmail(value)
	case patterns.CreditCard:
		return maskCreditCard(value)
	case patterns.Aadhaar:
		return maskAadhaar(value)
	case patterns.PANCard:
		return fullMask(value)
	case patterns.IndianMobile:
		return maskIndianMobile(value)
	case patterns.VoterID:
		return fullMask(value)
	case patterns.DrivingLicense:
		return maskDrivingLicense(value)
	default:
		return value
	}
}

// Policy describes how Mask transforms values of type t
func Policy(t patterns.Type) string {
	switch t {
	case patterns.Email:
		return "keep first character and domain: x***@domain"
	case patterns.CreditCard:
		return "all digits but the last 4 as *"
	case patterns.Aadhaar:
		return "first4-XXXX-last4"
	case patterns.PANCard, patterns.VoterID:
		return "full mask with X, length preserved"
	case patterns.IndianMobile:
		return "first 2 and last 2 digits kept, middle as ******"
	case patterns.DrivingLicense:
		return "last group masked with X, groups joined by -"
	default:
		return "unchanged"
	}
}

// fullMask replaces every character with X, preserving length in characters
func fullMask(value string) string {
	return strings.Repeat(fullMaskChar, utf8.RuneCountInString(value))
}

// stripSeparators removes spaces and hyphens
func stripSeparators(value string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(value)
}

// maskEmail keeps the first character of the local part and the domain: x***@domain
func maskEmail(value string) string {
	local, domain, found := strings.Cut(value, "@")
	if !found || local == "" || domain == "" {
		return fullMask(value)
	}
	first, _ := utf8.DecodeRuneInString(local)
	return string(first) + emailMask + "@" + domain
}

// maskCreditCard masks every digit except the last four, one * per digit
func maskCreditCard(value string) string {
	clean := stripSeparators(value)
	if len(clean) <= 4 {
		return strings.Repeat(cardMaskChar, len(clean))
	}
	return strings.Repeat(cardMaskChar, len(clean)-4) + clean[len(clean)-4:]
}

// maskAadhaar emits first4-XXXX-last4
func maskAadhaar(value string) string {
	clean := stripSeparators(value)
	if len(clean) < 8 {
		return fullMask(value)
	}
	return clean[:4] + "-XXXX-" + clean[len(clean)-4:]
}

// maskIndianMobile keeps the first and last two digits of the national number
func maskIndianMobile(value string) string {
	clean := strings.TrimPrefix(stripSeparators(value), "+91")
	if len(clean) <= 4 {
		return fullMask(value)
	}
	return clean[:2] + mobileMask + clean[len(clean)-2:]
}

// maskDrivingLicense masks only the serial (last group) when the value is
// separated into groups, otherwise the whole value
func maskDrivingLicense(value string) string {
	parts := strings.Fields(strings.ReplaceAll(value, "-", " "))
	if len(parts) <= 1 {
		return fullMask(value)
	}
	parts[len(parts)-1] = fullMask(parts[len(parts)-1])
	return strings.Join(parts, "-")
}
