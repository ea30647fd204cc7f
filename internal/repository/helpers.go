package repository

import (
	"database/sql"
	"time"
)

// eventTimeLayout keeps sub-second precision with a fixed-width fraction:
// window scans compare the stored text lexicographically, and RFC3339Nano's
// trimmed trailing zeros would break that ordering. Events are always
// stored in UTC.
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// parseNullableTime parses a sql.NullString into a *time.Time using the
// given layout. NULL, empty, and unparseable values map to nil.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a SQLite-storable value,
// mapping nil to SQL NULL.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// nullableString maps a *string to a SQLite-storable value, nil to NULL.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a scanned sql.NullString back to *string.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
