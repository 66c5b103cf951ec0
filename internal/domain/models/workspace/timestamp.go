package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a creation or update time assigned by the document store.
// The zero value is a server timestamp that has been requested but not yet
// resolved; it sorts before every resolved time.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t. The result is normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC()}
}

// IsPending reports whether the server has not assigned the time yet.
func (t Timestamp) IsPending() bool {
	return t.IsZero()
}

// Seconds returns the timestamp as fractional epoch seconds, 0 when pending.
func (t Timestamp) Seconds() float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / float64(time.Second)
}

// After reports whether t is strictly later than u.
func (t Timestamp) After(u Timestamp) bool {
	return t.Seconds() > u.Seconds()
}

// MarshalJSON encodes RFC 3339, or null when pending.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts null, epoch seconds, an RFC 3339 string, or an
// object of the form {"seconds": N, "nanoseconds": M}.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = Timestamp{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*t = Timestamp{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
		*t = NewTimestamp(parsed)
		return nil

	case '{':
		var obj struct {
			Seconds     int64 `json:"seconds"`
			Nanoseconds int64 `json:"nanoseconds"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*t = NewTimestamp(time.Unix(obj.Seconds, obj.Nanoseconds))
		return nil

	default:
		var secs float64
		if err := json.Unmarshal(data, &secs); err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		*t = FromSeconds(secs)
		return nil
	}
}

// FromSeconds converts fractional epoch seconds; 0 yields a pending timestamp.
func FromSeconds(secs float64) Timestamp {
	if secs == 0 {
		return Timestamp{}
	}
	whole := int64(secs)
	frac := int64((secs - float64(whole)) * float64(time.Second))
	return NewTimestamp(time.Unix(whole, frac))
}
