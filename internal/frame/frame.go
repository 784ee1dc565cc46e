package frame

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotObject = errors.New("event data is not a JSON object")

// Frame is one websocket text message: {"event": "...", "data": {...}}.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func Encode(event string, data any) ([]byte, error) {
	f := Frame{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		f.Data = raw
	}
	return json.Marshal(f)
}

func Decode(raw []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	if f.Event == "" {
		return Frame{}, errors.New("decode frame: missing event")
	}
	return f, nil
}

// Stamp returns data with accessCode and timestamp (unix millis) added.
// A nil payload becomes an object holding only those two keys.
func Stamp(data any, accessCode string, ts time.Time) (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		if string(raw) != "null" {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, ErrNotObject
			}
			if fields == nil {
				fields = map[string]json.RawMessage{}
			}
		}
	}

	code, _ := json.Marshal(accessCode)
	fields["accessCode"] = code
	fields["timestamp"] = json.RawMessage(fmt.Sprintf("%d", ts.UnixMilli()))
	return json.Marshal(fields)
}

// Stamped is the envelope every outbound payload carries.
type Stamped struct {
	AccessCode string `json:"accessCode"`
	Timestamp  int64  `json:"timestamp"`
}

// Envelope reads the stamp back out of a payload.
func Envelope(data json.RawMessage) (Stamped, error) {
	var s Stamped
	if len(data) == 0 {
		return s, nil
	}
	err := json.Unmarshal(data, &s)
	return s, err
}
