package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "rfc3339",
			input: "2023-06-15T14:30:00Z",
			want:  time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "space separated",
			input: "2023-06-15 14:30:00",
			want:  time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "date only",
			input: "2023-06-15",
			want:  time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "unix seconds",
			input: "1686839400",
			want:  time.Unix(1686839400, 0).UTC(),
			ok:    true,
		},
		{
			name:  "garbage",
			input: "yesterday-ish",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestFlexTimeUnmarshalJSON(t *testing.T) {
	type doc struct {
		TS FlexTime `json:"ts"`
	}

	t.Run("valid string", func(t *testing.T) {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(`{"ts":"2023-06-15T14:30:00Z"}`), &d))
		assert.True(t, d.TS.Valid())
		assert.Equal(t, 2023, d.TS.Year())
	})

	t.Run("numeric epoch", func(t *testing.T) {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(`{"ts":1686839400}`), &d))
		assert.True(t, d.TS.Valid())
		assert.Equal(t, int64(1686839400), d.TS.Unix())
	})

	t.Run("unparsable never errors", func(t *testing.T) {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(`{"ts":"last tuesday"}`), &d))
		assert.False(t, d.TS.Valid())
		assert.Equal(t, "last tuesday", d.TS.Raw)
	})

	t.Run("null decodes to zero", func(t *testing.T) {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(`{"ts":null}`), &d))
		assert.False(t, d.TS.Valid())
		assert.Empty(t, d.TS.Raw)
	})
}

func TestFlexTimeMarshalJSON(t *testing.T) {
	t.Run("valid time encodes as rfc3339", func(t *testing.T) {
		ts := NewFlexTime(time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC))
		data, err := json.Marshal(ts)
		require.NoError(t, err)
		assert.JSONEq(t, `"2023-06-15T14:30:00Z"`, string(data))
	})

	t.Run("unparsed raw text round-trips", func(t *testing.T) {
		ts := FlexTime{Raw: "last tuesday"}
		data, err := json.Marshal(ts)
		require.NoError(t, err)
		assert.JSONEq(t, `"last tuesday"`, string(data))
	})
}

func TestForensicEventFileName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{`C:\Users\victim\Downloads\Evil.EXE`, "evil.exe"},
		{"/var/tmp/dropper.sh", "dropper.sh"},
		{"standalone.bin", "standalone.bin"},
	}
	for _, tt := range tests {
		e := ForensicEvent{FilePath: tt.path}
		assert.Equal(t, tt.want, e.FileName())
	}
}

func TestOsintItemDomain(t *testing.T) {
	t.Run("prefers extraction metadata", func(t *testing.T) {
		item := OsintItem{
			URL:  "https://example.com/post",
			Data: map[string]string{"domain": "Krebsonsecurity.com"},
		}
		assert.Equal(t, "krebsonsecurity.com", item.Domain())
	})

	t.Run("falls back to url host", func(t *testing.T) {
		item := OsintItem{URL: "https://GitHub.com/org/repo"}
		assert.Equal(t, "github.com", item.Domain())
	})

	t.Run("no url no domain", func(t *testing.T) {
		item := OsintItem{}
		assert.Empty(t, item.Domain())
	})
}
