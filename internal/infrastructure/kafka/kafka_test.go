package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/example/foodyham/internal/event"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	messages []kafka.Message
	cancel   context.CancelFunc
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	e, err := event.New("cart", "Cart", "CartCleared", map[string]string{})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "cart", e))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "cart", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "CartCleared", string(msg.Headers[0].Value))

	var decoded event.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e.ID, decoded.ID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), "cart", event.Event{})

	assert.ErrorContains(t, err, "broker down")
}

func TestConsumer_Consume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e, err := event.New("user-1", "User", "UserLoggedIn", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	value, err := json.Marshal(e)
	require.NoError(t, err)

	reader := &fakeReader{
		messages: []kafka.Message{
			{Value: []byte("garbage")},
			{Value: value},
		},
		cancel: cancel,
	}
	c := &Consumer{reader: reader}

	var received []event.Event
	err = c.Consume(ctx, func(ctx context.Context, e event.Event) error {
		received = append(received, e)
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, received, 1)
	assert.Equal(t, "UserLoggedIn", received[0].EventType)
}
