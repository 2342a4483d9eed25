package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// layouts accepted when reading a timestamp back. The zone-less ones cover
// entries written by tools that record local wall-clock time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

var ErrMalformedEntry = errors.New("malformed cache entry")

// Entry is one cached upstream response.
type Entry struct {
	Timestamp time.Time
	Data      json.RawMessage
}

type entryJSON struct {
	Timestamp *string         `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	ts := e.Timestamp.Format(time.RFC3339Nano)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entryJSON{Timestamp: &ts, Data: e.Data}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	if raw.Timestamp == nil {
		return fmt.Errorf("%w: missing timestamp", ErrMalformedEntry)
	}
	if len(raw.Data) == 0 || bytes.Equal(raw.Data, []byte("null")) {
		return fmt.Errorf("%w: missing data", ErrMalformedEntry)
	}
	ts, err := parseTimestamp(*raw.Timestamp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	e.Timestamp = ts
	e.Data = raw.Data
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// encode renders an entry the way it is persisted: two-space indent, no HTML
// escaping so non-ASCII player names stay readable.
func encode(e Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(b []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		if errors.Is(err, ErrMalformedEntry) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	return e, nil
}
