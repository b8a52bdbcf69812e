// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package tabular

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by DetectEncoding
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding guesses the character encoding of raw file content. A byte
// order mark wins; otherwise valid UTF-8 is assumed as-is and anything else is
// treated as Windows-1252, the usual spreadsheet export encoding.
func DetectEncoding(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(data):
		return EncodingUTF8
	default:
		return EncodingWindows1252
	}
}

// decoderFor returns the decoder for an encoding name
func decoderFor(name string) (encoding.Encoding, error) {
	switch name {
	case EncodingUTF8:
		return encoding.Nop, nil
	case EncodingUTF8BOM:
		return unicode.UTF8BOM, nil
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), nil
	case EncodingWindows1252:
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
}

// DecodeToUTF8 converts raw content to UTF-8, stripping any byte order mark.
// It returns the decoded bytes and the detected encoding name.
func DecodeToUTF8(data []byte) ([]byte, string, error) {
	name := DetectEncoding(data)
	enc, err := decoderFor(name)
	if err != nil {
		return nil, name, err
	}
	if enc == encoding.Nop {
		return data, name, nil
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, name, fmt.Errorf("failed to decode %s content: %w", name, err)
	}
	return decoded, name, nil
}
