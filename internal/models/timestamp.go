package models

import (
	"bytes"
	"strconv"
	"time"
)

// timeLayouts are tried in order when decoding textual timestamps. OSINT
// collectors emit everything from full RFC3339 down to bare dates.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// FlexTime is a timestamp that tolerates the loose formats found in scraped
// data. A value that cannot be parsed decodes to the zero time with the raw
// text preserved; callers substitute a fallback instead of aborting the batch.
type FlexTime struct {
	time.Time

	// Raw holds the original text when parsing failed.
	Raw string
}

// NewFlexTime wraps a time.Time in a FlexTime.
func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t}
}

// ParseTimestamp parses a textual timestamp using the known layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Unix seconds, possibly fractional
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), true
	}
	return time.Time{}, false
}

// UnmarshalJSON decodes a timestamp from a JSON string or number. It never
// returns an error for unparsable values; the zero time plus Raw signals the
// failure so the engine can apply its documented fallback.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = FlexTime{}
		return nil
	}

	if data[0] == '"' {
		s := string(data[1 : len(data)-1])
		if parsed, ok := ParseTimestamp(s); ok {
			*t = FlexTime{Time: parsed}
		} else {
			*t = FlexTime{Raw: s}
		}
		return nil
	}

	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		*t = FlexTime{Time: time.Unix(sec, nsec).UTC()}
		return nil
	}

	*t = FlexTime{Raw: string(data)}
	return nil
}

// MarshalJSON encodes the timestamp as RFC3339. Unparsed values round-trip
// their original text.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() && t.Raw != "" {
		return []byte(strconv.Quote(t.Raw)), nil
	}
	return []byte(strconv.Quote(t.Time.Format(time.RFC3339))), nil
}

// Valid reports whether the timestamp was successfully parsed.
func (t FlexTime) Valid() bool {
	return !t.Time.IsZero()
}
