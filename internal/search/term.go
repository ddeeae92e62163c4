// internal/search/term.go
package search

import "strings"

// Kind classifies a normalized search term.
type Kind int

const (
	// KindEmpty means the term was blank after trimming. Searches and counts
	// short-circuit to empty results without touching storage.
	KindEmpty Kind = iota
	// KindSingleCode is an exact match on one CNAE code.
	KindSingleCode
	// KindMultiCode is a set-membership match over two or more CNAE codes.
	KindMultiCode
	// KindFreeText is an accent-insensitive substring match against the CNAE
	// description, using the original term as typed.
	KindFreeText
)

// Term is the normalized form of a raw search string. Normalization is pure:
// the same input always produces the same Term, so results are stable across
// repeated identical requests.
type Term struct {
	Raw     string
	Cleaned string
	Codes   []string
	Kind    Kind
}

var codeSeparators = strings.NewReplacer("-", "", "/", "", ".", "")

// Normalize trims the raw term, strips CNAE formatting separators and
// classifies the result.
//
// Classification priority:
//  1. two or more comma-separated all-digit parts -> KindMultiCode
//  2. the whole cleaned string (commas included) is all digits -> KindSingleCode
//  3. anything else -> KindFreeText on the original term
//
// A comma list mixing digit and non-digit parts fails rule 1, and its commas
// fail rule 2, so the whole original term falls through to free text. No part
// is ever silently dropped.
func Normalize(raw string) Term {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Term{Kind: KindEmpty}
	}

	cleaned := codeSeparators.Replace(trimmed)

	parts := strings.Split(cleaned, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}

	if len(codes) >= 2 && allDigits(codes) {
		return Term{Raw: trimmed, Cleaned: cleaned, Codes: codes, Kind: KindMultiCode}
	}

	if isDigits(cleaned) {
		return Term{Raw: trimmed, Cleaned: cleaned, Codes: []string{cleaned}, Kind: KindSingleCode}
	}

	return Term{Raw: trimmed, Cleaned: cleaned, Kind: KindFreeText}
}

// CleanCode strips CNAE formatting separators from a single code, the same
// way Normalize does before classification. Allocation target codes go
// through this so "6821-8/01" and "6821801" select the same companies.
func CleanCode(code string) string {
	return codeSeparators.Replace(strings.TrimSpace(code))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func allDigits(parts []string) bool {
	for _, p := range parts {
		if !isDigits(p) {
			return false
		}
	}
	return true
}
