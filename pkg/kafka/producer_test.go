package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error { return nil }

func TestPublishEncodesJSON(t *testing.T) {
	w := &memWriter{}
	p := NewProducerWithWriter(w, "holdings", "snappy")

	err := p.Publish(context.Background(), "", []byte("TCS.NS"), map[string]any{"type": "lot_added"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "holdings", w.msgs[0].Topic)
	assert.Equal(t, "TCS.NS", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"type":"lot_added"}`, string(w.msgs[0].Value))
}

func TestPublishErrors(t *testing.T) {
	p := NewProducerWithWriter(&memWriter{}, "", "snappy")
	assert.Error(t, p.Publish(context.Background(), "", nil, "x"))

	boom := errors.New("broker down")
	p = NewProducerWithWriter(&memWriter{err: boom}, "t", "snappy")
	assert.ErrorIs(t, p.Publish(context.Background(), "", nil, "x"), boom)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}
