package util

import (
	"database/sql"
	"time"
)

// NullStringPtr converts a *string to sql.NullString.
// Nil pointers are treated as invalid (null).
func NullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullStringToPtr converts sql.NullString to *string.
// Invalid values are returned as nil.
func NullStringToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// NullTime formats a *time.Time as an RFC3339 sql.NullString in UTC.
func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

// NullTimeToPtr parses an RFC3339 sql.NullString.
// Invalid or unparseable values are returned as nil.
func NullTimeToPtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
