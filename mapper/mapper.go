// Package mapper translates between wire rows (flat, string-encoded, as the
// store speaks) and domain entities (typed, as the rest of the application
// speaks). Mapping a batch never aborts on one bad row: malformed rows are
// dropped and a diagnostic is logged.
package mapper

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"p9e.in/flota/store"
)

// parseID fails closed: a row whose id columns do not parse is dropped.
func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: bad uuid %q", field, s)
	}
	return id, nil
}

// parseTime defaults to the zero time on malformed input so downstream code
// can always rely on field presence.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(store.TimeFormat, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// parseOptionalTime maps empty wire values to nil, not a zero time.
func parseOptionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	if t.IsZero() {
		return nil
	}
	return &t
}

// parseNumber defaults to 0 on anything that is not a finite number.
func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseMoney is the strict variant for price/amount columns: failure drops
// the row instead of silently zeroing a monetary value.
func parseMoney(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: bad numeric %q", field, s)
	}
	return f, nil
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(store.TimeFormat)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// dropRow logs the diagnostic for a row excluded from a batch result.
func dropRow(table, id string, err error) {
	log.Printf("mapper: dropping malformed %s row %s: %v", table, id, err)
}
