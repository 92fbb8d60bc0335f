package planner

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layouts accepted when decoding a Timestamp. Snapshots written before the
// Go rewrite carry zone-less local times with microseconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is an instant serialized as an RFC 3339 string.
type Timestamp struct {
	time.Time
}

// Now returns the current wall-clock time as a Timestamp.
func Now() Timestamp {
	return Timestamp{Time: time.Now()}
}

// String renders the timestamp the way it is written to snapshots and exports.
func (t Timestamp) String() string {
	return t.Format(time.RFC3339Nano)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp parses s in any of the accepted layouts. Zone-less values
// are read as local time.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: v}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("timestamp %q: unrecognized format", s)
}
