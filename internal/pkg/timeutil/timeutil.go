// Package timeutil localizes timestamps to the platform's operating
// timezone. Operators schedule and read broadcast times in local wall time;
// everything is stored UTC.
package timeutil

import "time"

// DefaultZone is used when no timezone is configured.
const DefaultZone = "Asia/Singapore"

// Location resolves a zone name, falling back to DefaultZone and then UTC.
func Location(name string) *time.Location {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MidnightOf returns the start of t's calendar day in loc. Date-only filter
// inputs resolve to local midnight, not UTC midnight.
func MidnightOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's calendar day in loc, for
// building inclusive date-range filters.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return MidnightOf(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
