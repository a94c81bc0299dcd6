package models

import "strings"

// NormalizePlate upper-cases and strips surrounding whitespace so that
// "abc123 " and "ABC123" compare equal for the per-owner uniqueness check.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// TollKey builds the case/whitespace-insensitive uniqueness key for a toll:
// no two tolls of the same owner may share (name, location).
func TollKey(name, location string) string {
	return strings.ToLower(collapseSpaces(name)) + "|" + strings.ToLower(collapseSpaces(location))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
