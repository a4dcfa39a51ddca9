package events

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	closed    bool
	published []amqp.Publishing
	keys      []string
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) IsClosed() bool { return f.closed }

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

// channelFactory hands out fake channels, failing while err is set.
type channelFactory struct {
	opened []*fakeChannel
	err    error
}

func (f *channelFactory) open() (amqpChannel, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := &fakeChannel{}
	f.opened = append(f.opened, ch)
	return ch, nil
}

func TestRabbitPublisher_PublishesPersistentMessage(t *testing.T) {
	factory := &channelFactory{}
	p, err := newRabbitPool(factory.open, "orders.submitted", 2)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "order-1", []byte(`{"a":1}`)))

	ch := factory.opened[0]
	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{"orders.submitted"}, ch.keys)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "order-1", ch.published[0].MessageId)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
}

func TestRabbitPublisher_FailedReopenKeepsPoolSize(t *testing.T) {
	factory := &channelFactory{}
	p, err := newRabbitPool(factory.open, "orders", 1)
	require.NoError(t, err)

	// the broker drops the channel and refuses new ones for a while
	factory.opened[0].closed = true
	factory.err = errors.New("connection refused")

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err := p.Publish(ctx, "order-1", []byte("{}"))
		cancel()
		require.Error(t, err)
		assert.ErrorContains(t, err, "connection refused")
		assert.NotErrorIs(t, err, context.DeadlineExceeded)
	}

	factory.err = nil
	require.NoError(t, p.Publish(context.Background(), "order-2", []byte("{}")))
	require.Len(t, factory.opened, 2)
	assert.Len(t, factory.opened[1].published, 1)
	assert.Len(t, p.slots, 1)
}

func TestRabbitPublisher_ReusesHealthyChannel(t *testing.T) {
	factory := &channelFactory{}
	p, err := newRabbitPool(factory.open, "orders", 1)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "a", nil))
	require.NoError(t, p.Publish(context.Background(), "b", nil))

	assert.Len(t, factory.opened, 1)
	assert.Len(t, factory.opened[0].published, 2)
}

func TestRabbitPublisher_InitialOpenFailure(t *testing.T) {
	factory := &channelFactory{err: errors.New("access refused")}

	_, err := newRabbitPool(factory.open, "orders", 2)

	assert.ErrorContains(t, err, "access refused")
}

func TestRabbitPublisher_Close(t *testing.T) {
	factory := &channelFactory{}
	p, err := newRabbitPool(factory.open, "orders", 2)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	for _, ch := range factory.opened {
		assert.True(t, ch.closed)
	}
	assert.ErrorIs(t, p.Publish(context.Background(), "k", nil), errRabbitClosed)
}
