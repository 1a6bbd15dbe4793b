package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg := ParseConfig(" a:9092, b:9092 ,,", "config-events")
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers)
	assert.Equal(t, "config-events", cfg.Topic)
}

func TestMessage(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := Message(context.Background(), ConfigEvent{
		Type:      EventVersionCreated,
		BrandID:   "brand",
		ConfigID:  "cfg",
		Version:   3,
		Timestamp: ts,
	})
	require.NoError(t, err)

	assert.Equal(t, "brand:cfg", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, EventVersionCreated, headers["type"])
	assert.NotContains(t, headers, "traceparent")

	var evt ConfigEvent
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	assert.Equal(t, 3, evt.Version)
	assert.True(t, ts.Equal(evt.Timestamp))
}
