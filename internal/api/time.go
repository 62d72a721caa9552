package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LocalLayout es el formato LocalDateTime que espera el backend.
const LocalLayout = "2006-01-02T15:04:05"

var localLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	LocalLayout,
	"2006-01-02T15:04",
}

// Location interpreta los timestamps sin zona del backend. Se fija una vez
// al arrancar (config TIME_ZONE).
var Location = time.Local

// LocalTime es un LocalDateTime de Java: sin zona en el wire.
type LocalTime struct {
	time.Time
}

func NewLocalTime(t time.Time) *LocalTime { return &LocalTime{Time: t} }

func ParseLocalTime(s string) (LocalTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, Location); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("api: invalid local datetime %q", s)
}

func (t *LocalTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("api: local datetime must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.In(Location).Format(LocalLayout))
}

// TimeOf: nil-safe.
func TimeOf(t *LocalTime) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}
