package models

import (
	"bytes"
	"fmt"
	"time"
)

// naiveLayout is how the backend serialises timestamps stored without a
// zone. They are read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Time accepts both RFC 3339 and zone-less timestamps.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(naiveLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
