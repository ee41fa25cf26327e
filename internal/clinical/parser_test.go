package clinical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAge(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"plain number", "9", 9, true},
		{"decimal", "9.5", 9.5, true},
		{"yrs suffix", "9 YRS", 9, true},
		{"yr suffix", "10YR", 10, true},
		{"lowercase handled upstream", "11 yrs", 11, true},
		{"empty", "", 0, false},
		{"garbage", "unknown", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAge(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"plain number", "2", 2, true},
		{"decimal", "2.5", 2.5, true},
		{"hrs token", "2 hrs", 2, true},
		{"range keeps first number", "2-3 hrs/day", 2, true},
		{"hr token", "1hr", 1, true},
		{"empty", "", 0, false},
		{"text only", "rarely", 0, false},
		{"hr token without number", "some hrs", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHours(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseDiopters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "-3.50", -3.50},
		{"ds suffix", "-3.50 DS", -3.50},
		{"dc only keeps prefix", "-0.75DC", -0.75},
		// Combined sphere/cylinder notation leaves "-3.50  / -0.75" after
		// unit stripping, which does not parse; it degrades to zero just
		// as it does upstream.
		{"combined ds dc maps to zero", "-3.50 DS / -0.75 DC", 0},
		{"zero", "0", 0},
		// Missing and malformed degrade to zero, not missing: an empty
		// refraction cell means no refractive error recorded.
		{"empty maps to zero", "", 0},
		{"garbage maps to zero", "plano-ish", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDiopters(tt.input))
		})
	}
}

func TestParseAxialLength(t *testing.T) {
	got, ok := ParseAxialLength("24.12 MM")
	assert.True(t, ok)
	assert.Equal(t, 24.12, got)

	got, ok = ParseAxialLength("23.80")
	assert.True(t, ok)
	assert.Equal(t, 23.80, got)

	// Axial length is missing on failure, never zero. This asymmetry with
	// diopters is deliberate.
	_, ok = ParseAxialLength("")
	assert.False(t, ok)
	_, ok = ParseAxialLength("n/a")
	assert.False(t, ok)
}

func TestEncodeMyopicParents(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"Both", 2},
		{"both parents", 2},
		{"Father, Mother", 2},
		{"Mother, Father", 2},
		{"Mother", 1},
		{"FATHER", 1},
		{"One", 1},
		{"", 0},
		{"No", 0},
		{"unrelated text", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeMyopicParents(tt.input))
		})
	}
}

func TestEncodeParentalHistory(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"Both", 2},
		{"both", 2},
		{"One", 1},
		{"one", 1},
		{"Mother", 1},
		{"Father", 1},
		// "None" contains the substring "one"; exact matching keeps it
		// at zero, unlike the workbook encoder.
		{"None", 0},
		{"none", 0},
		{"", 0},
		{"unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeParentalHistory(tt.input))
		})
	}
}

func TestEncodeGender(t *testing.T) {
	v, ok := EncodeGender("M")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = EncodeGender("female")
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = EncodeGender("")
	assert.False(t, ok)
}

func TestHadMyopiaControl(t *testing.T) {
	assert.Equal(t, 1.0, HadMyopiaControl("Atropine 0.01%"))
	assert.Equal(t, 0.0, HadMyopiaControl(""))
	assert.Equal(t, 0.0, HadMyopiaControl("   "))
}
