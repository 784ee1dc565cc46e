package frame

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStamp_AddsEnvelopeFields(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	raw, err := Stamp(map[string]any{"scores": map[string]int{"teamA": 1}}, "ABC123", ts)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "ABC123", got["accessCode"])
	assert.Equal(t, float64(1700000000123), got["timestamp"])
	assert.Equal(t, map[string]any{"teamA": float64(1)}, got["scores"])

	env, err := Envelope(raw)
	require.NoError(t, err)
	assert.Equal(t, Stamped{AccessCode: "ABC123", Timestamp: 1700000000123}, env)
}

func TestStamp_NilAndNonObject(t *testing.T) {
	raw, err := Stamp(nil, "X", time.UnixMilli(5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"accessCode":"X","timestamp":5}`, string(raw))

	_, err = Stamp([]int{1, 2}, "X", time.Now())
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestEncodeDecode(t *testing.T) {
	raw, err := Encode("view_updated", map[string]string{"viewType": "intro"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"view_updated","data":{"viewType":"intro"}}`, string(raw))

	f, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "view_updated", f.Event)
	assert.JSONEq(t, `{"viewType":"intro"}`, string(f.Data))

	_, err = Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
