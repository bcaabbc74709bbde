package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var evt struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(val, &evt); err != nil {
			return err
		}
		if evt.Type != ReorderFulfilled {
			return errors.New("unexpected event type " + evt.Type)
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := &KafkaPublisher{conn: producer, topic: "wegmans2.events"}
	require.NoError(t, p.Publish(context.Background(), NewEvent(ReorderFulfilled, nil)))
	assert.ErrorIs(t, p.Publish(context.Background(), NewEvent(ReorderFulfilled, nil)), sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

type recordingPublisher struct {
	got []string
	err error
}

func (r *recordingPublisher) Publish(_ context.Context, evt Event) error {
	r.got = append(r.got, evt.Type)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

func TestFanout(t *testing.T) {
	ok := &recordingPublisher{}
	broken := &recordingPublisher{err: errors.New("broker down")}
	f := Fanout{broken, ok}

	err := f.Publish(context.Background(), NewEvent(CartCheckedOut, nil))
	assert.EqualError(t, err, "broker down")
	assert.Equal(t, []string{CartCheckedOut}, ok.got)
	assert.NoError(t, f.Close())
}
