// Package normalize holds the pure, total functions that turn raw source
// values into comparable keys and typed fields.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/reelrank/internal/domain/model"
)

// Rating bounds shared by every source.
const (
	minRating = 0.0
	maxRating = 10.0
)

var romanToArabic = map[string]string{
	"ii":   "2",
	"iii":  "3",
	"iv":   "4",
	"v":    "5",
	"vi":   "6",
	"vii":  "7",
	"viii": "8",
	"ix":   "9",
	"x":    "10",
}

// Title returns the normalization key for a raw title: lowercase, anything
// outside [a-z0-9 ] replaced by a space, whole-word roman numerals ii..x
// folded to digits, whitespace collapsed and trimmed.
//
// Title is idempotent: Title(Title(s)) == Title(s).
func Title(s string) string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		if digit, ok := romanToArabic[w]; ok {
			words[i] = digit
		}
	}
	return strings.Join(words, " ")
}

// Key resolves the group key of a canonical record. An external id wins
// over the title; the release year always partitions.
func Key(rec model.CanonicalRecord) model.GroupKey {
	dedup := strings.TrimSpace(rec.ExternalID)
	if dedup == "" {
		dedup = Title(rec.Title)
	}
	return model.GroupKey{DedupKey: dedup, ReleaseYear: rec.ReleaseYear}
}

// Float parses raw as a float, returning def for empty, malformed, NaN or
// infinite input.
func Float(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Int parses raw as an integer. Decimal input such as "1994.0" truncates.
func Int(raw string, def int) int {
	s := strings.TrimSpace(raw)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f := Float(s, math.NaN())
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return def
	}
	return int(f)
}

// Votes parses a vote count that may carry thousands separators
// ("2,343,110"). Negative or malformed input yields 0.
func Votes(raw string) int {
	v := Int(strings.ReplaceAll(raw, ",", ""), 0)
	if v < 0 {
		return 0
	}
	return v
}

// Rating parses a 0-10 rating, clamping out-of-range values.
func Rating(raw string) float64 {
	return ClampRating(Float(raw, 0))
}

// ClampRating bounds an already-typed rating to [0,10]; NaN becomes 0.
func ClampRating(v float64) float64 {
	if math.IsNaN(v) {
		return minRating
	}
	return math.Max(minRating, math.Min(maxRating, v))
}

// Year extracts a release year from either a bare year ("1994") or a date
// beginning with one ("1994-09-23"). Unknown years are 0.
func Year(raw string) int {
	s := strings.TrimSpace(raw)
	if len(s) >= 4 {
		if y, err := strconv.Atoi(s[:4]); err == nil && (len(s) == 4 || s[4] == '-' || s[4] == '/' || s[4] == '.') {
			return y
		}
	}
	y := Int(s, 0)
	if y < 0 {
		return 0
	}
	return y
}

// Language maps a free-text or coded language to a 2-letter code.
func Language(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return model.UnknownLanguage
	case strings.Contains(s, "hindi"), strings.Contains(s, "bollywood"):
		return "hi"
	case strings.Contains(s, "english"):
		return "en"
	case len(s) == 2 && isLetters(s):
		return s
	}
	return model.UnknownLanguage
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
