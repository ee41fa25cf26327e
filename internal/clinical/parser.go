// Package clinical converts the raw, unit-laden fields found in
// retrospective clinical spreadsheets into canonical numeric values.
//
// Every parser in this package is total: malformed input never fails the
// pipeline, it degrades to a missing marker or to the field's documented
// default. Missing-vs-zero semantics differ per field on purpose: a zero
// diopter reading means "no refractive error recorded", while a zero
// outdoor-hours cell usually means "not recorded".
package clinical

import (
	"regexp"
	"strconv"
	"strings"
)

var numberRun = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseAge extracts a numeric age from strings like "9", "9.5" or "9 YRS".
// Returns ok=false when the value is absent or unparsable.
func ParseAge(raw string) (float64, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, "YR") {
		s = strings.ReplaceAll(s, "YRS", "")
		s = strings.ReplaceAll(s, "YR", "")
		s = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseHours extracts a daily-hours figure from strings like "2", "2.5",
// "2 hrs" or "2-3 hrs/day" (first numeric run wins when an hour token is
// present). Returns ok=false when the value is absent or unparsable.
func ParseHours(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, "hr") {
		if m := numberRun.FindString(s); m != "" {
			v, err := strconv.ParseFloat(m, 64)
			if err == nil {
				return v, true
			}
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseDiopters extracts a spherical or cylinder power from prescription
// strings like "-3.50 DS" or "-0.75DC". A missing or malformed value maps
// to 0.0, not to missing: an empty refraction cell records the absence of
// refractive error. Combined "-3.50 DS / -0.75 DC" notations do not survive
// unit stripping and also degrade to 0.0.
func ParseDiopters(raw string) float64 {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return 0.0
	}
	if strings.Contains(s, "DS") {
		s = strings.TrimSpace(strings.ReplaceAll(s, "DS", ""))
	}
	if i := strings.Index(s, "DC"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// ParseAxialLength extracts an axial length in millimeters from strings like
// "24.12" or "24.12 MM". Unlike diopters, a malformed axial length is
// missing, never zero. Returns ok=false when absent or unparsable.
func ParseAxialLength(raw string) (float64, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, "MM", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// EncodeMyopicParents maps a parental-myopia history cell to 0, 1 or 2
// affected parents. Matching is case-insensitive; both-parent co-occurrence
// ("Both", "Father, Mother") scores 2, any single-parent mention or the
// literal "One" scores 1, everything else including missing scores 0.
func EncodeMyopicParents(raw string) int {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}
	switch {
	case strings.Contains(s, "BOTH"),
		strings.Contains(s, "MOTHER, FATHER"),
		strings.Contains(s, "FATHER, MOTHER"):
		return 2
	case strings.Contains(s, "MOTHER"),
		strings.Contains(s, "FATHER"),
		strings.Contains(s, "ONE"):
		return 1
	default:
		return 0
	}
}

// EncodeParentalHistory maps the API's parental-history field ("None",
// "One", "Both") to an affected-parent count. Unlike the workbook encoder
// above, matching is exact after case folding, so "None" never reads as a
// single-parent mention. Unknown values score 0.
func EncodeParentalHistory(raw string) int {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BOTH":
		return 2
	case "ONE", "MOTHER", "FATHER":
		return 1
	default:
		return 0
	}
}

// EncodeGender maps gender strings to the binary feature (M/Male=1,
// F/Female=0). Returns ok=false for anything else so the training pipeline
// can impute it.
func EncodeGender(raw string) (float64, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M", "MALE":
		return 1, true
	case "F", "FEMALE":
		return 0, true
	default:
		return 0, false
	}
}

// HadMyopiaControl flags prior myopia-control treatment: any non-empty cell
// counts as a history of control.
func HadMyopiaControl(raw string) float64 {
	if strings.TrimSpace(raw) == "" {
		return 0
	}
	return 1
}
