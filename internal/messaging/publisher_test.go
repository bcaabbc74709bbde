package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
	closed        bool
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisherPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "wegmans2.events"}

	evt := NewEvent(CartCheckedOut, map[string]string{"store": "S1"})
	require.NoError(t, p.Publish(context.Background(), evt))

	assert.Equal(t, "wegmans2.events", ch.exchange)
	assert.Equal(t, "wegmans2.cart.checked_out", ch.key)
	assert.Equal(t, uint8(amqp.Persistent), ch.msg.DeliveryMode)
	assert.Equal(t, evt.ID.String(), ch.msg.MessageId)

	var decoded struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, CartCheckedOut, decoded.Type)
	assert.Equal(t, "S1", decoded.Payload["store"])

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisherErrors(t *testing.T) {
	p := &AMQPPublisher{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}
	assert.Error(t, p.Publish(context.Background(), NewEvent(ReorderRequested, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, NewEvent(ReorderRequested, nil)), context.Canceled)
}

func TestEmitSwallowsFailures(t *testing.T) {
	p := &AMQPPublisher{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}
	assert.NotPanics(t, func() {
		Emit(context.Background(), p, NewEvent(ReorderFulfilled, nil))
		Emit(context.Background(), nil, NewEvent(ReorderFulfilled, nil))
		Emit(context.Background(), Nop{}, NewEvent(ReorderFulfilled, nil))
	})
}
