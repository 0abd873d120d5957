package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/recommend"
)

type fakeWriter struct {
	messages []kafka.Message
	writeErr error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher(w writerAPI) *Publisher {
	return &Publisher{writer: w, topic: "teenfin.recommendation.completed", log: logging.NewNopLogger()}
}

func sampleEvent() recommend.CompletedEvent {
	return recommend.CompletedEvent{
		RequestID:    "req-1",
		AnswerDigest: "abc123",
		SavingsCount: 2,
		CardsCount:   1,
		ElapsedMS:    834,
		CompletedAt:  time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRecommendationCompleted_PublishesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	p.RecommendationCompleted(context.Background(), sampleEvent())

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "req-1", string(msg.Key))
	assert.Equal(t, sampleEvent().CompletedAt, msg.Time)

	var decoded recommend.CompletedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, sampleEvent(), decoded)
}

func TestRecommendationCompleted_WriteFailureIsSwallowed(t *testing.T) {
	w := &fakeWriter{writeErr: errors.New("broker unreachable")}
	p := newTestPublisher(w)

	// Must not panic; publish errors never reach the caller.
	p.RecommendationCompleted(context.Background(), sampleEvent())
	assert.Empty(t, w.messages)
}

func TestClose_ClosesWriter(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
