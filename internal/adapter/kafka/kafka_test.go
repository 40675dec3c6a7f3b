package kafka

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/roadwatch/dgt-situation-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessage(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() {
		domain.SetClock(nil)
	})

	severity := "high"
	event, err := domain.SerializeSituation(domain.Situation{
		ID:        "S1",
		Severity:  &severity,
		Latitude:  40.0,
		Longitude: -3.5,
	})
	require.NoError(t, err)

	msg := toMessage(event)
	assert.Equal(t, []byte("S1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"latitude":40`)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "high", headers["severity"])
	assert.Equal(t, "2026-03-02T09:30:00Z", headers["extracted_at"])
}

func TestToMessage_NoSeverityHeaderWhenAbsent(t *testing.T) {
	event, err := domain.SerializeSituation(domain.Situation{
		ID:        "S2",
		Latitude:  41.0,
		Longitude: -2.0,
	})
	require.NoError(t, err)

	msg := toMessage(event)
	for _, h := range msg.Headers {
		assert.NotEqual(t, "severity", h.Key)
	}
}
