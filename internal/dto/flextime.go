package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// FlexTime decodes client-reported timestamps that arrive either as an epoch in
// milliseconds or as an RFC 3339 string. Handheld clients send whatever their
// filesystem stat gave them, so absence and zero are both treated as unset.
type FlexTime struct {
	t   time.Time
	set bool
}

func NewFlexTime(t time.Time) FlexTime { return FlexTime{t: t, set: true} }

// Time returns the decoded timestamp and whether one was provided.
func (f FlexTime) Time() (time.Time, bool) { return f.t, f.set }

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FlexTime{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = FlexTime{}
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
				// Unparseable strings behave like "not provided"; the
				// sanitizer falls back to server receipt time.
				*f = FlexTime{}
				return nil
			}
		}
		*f = FlexTime{t: t.UTC(), set: true}
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		// Epoch with a fractional part; accept and truncate.
		var fms float64
		if err2 := json.Unmarshal(data, &fms); err2 != nil {
			return fmt.Errorf("decode timestamp: %w", err)
		}
		ms = int64(fms)
	}
	if ms <= 0 {
		*f = FlexTime{}
		return nil
	}
	*f = FlexTime{t: time.UnixMilli(ms).UTC(), set: true}
	return nil
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.t.UTC().Format(time.RFC3339))
}
