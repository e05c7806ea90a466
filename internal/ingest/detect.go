// Package ingest loads delimited text and Excel workbooks into data
// files: sniffing delimiter, encoding, and time column, decoding values
// to float series, and deriving channel metadata from headers.
package ingest

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// candidate delimiters, in priority order for equal counts.
var delimiters = []string{",", "\t", ";", "|"}

// timeColumnKeywords are matched case-insensitively against headers when
// picking a default time column, in priority order.
var timeColumnKeywords = []string{"time", "timestamp", "date", "elapsed", "t", "seconds", "sec", "ms"}

// DetectDelimiter picks the delimiter occurring most often across the
// first sample lines. Ties and an empty sample fall back to the comma.
func DetectDelimiter(sample string) string {
	lines := strings.Split(sample, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}

	best, bestCount := ",", 0
	for _, d := range delimiters {
		count := 0
		for _, line := range lines {
			count += strings.Count(line, d)
		}
		if count > bestCount {
			best, bestCount = d, count
		}
	}
	return best
}

// DetectEncoding sniffs the byte-order mark and content of raw bytes.
// Returns one of "utf-8", "utf-16-le", "utf-16-be", or "windows-1252"
// (the fallback for non-UTF-8 single-byte content).
func DetectEncoding(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return "utf-16-le"
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return "utf-16-be"
	case utf8.Valid(raw):
		return "utf-8"
	default:
		return "windows-1252"
	}
}

// DetectTimeColumn picks the most likely time column from headers by
// keyword, preferring an exact match over a substring match. Falls back
// to the first header; returns "" for no headers.
func DetectTimeColumn(headers []string) string {
	if len(headers) == 0 {
		return ""
	}
	for _, kw := range timeColumnKeywords {
		for _, h := range headers {
			if strings.EqualFold(h, kw) {
				return h
			}
		}
	}
	for _, kw := range timeColumnKeywords {
		// short keywords like "t" only match exactly, above
		if len(kw) < 2 {
			continue
		}
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), kw) {
				return h
			}
		}
	}
	return headers[0]
}
