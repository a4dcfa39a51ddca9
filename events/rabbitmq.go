package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errRabbitClosed = errors.New("rabbitmq publisher closed")

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// RabbitPublisher sends events to a durable queue through a fixed number of
// channel slots on one connection. A slot whose channel died is reopened on
// its next use, so a broker outage never shrinks the pool.
type RabbitPublisher struct {
	conn   io.Closer
	open   func() (amqpChannel, error)
	slots  chan amqpChannel // nil entries are slots waiting for a channel
	queue  string
	mu     sync.Mutex
	closed bool
}

func NewRabbitPublisher(url, queue string, size int) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	p, err := newRabbitPool(func() (amqpChannel, error) { return declareQueue(conn, queue) }, queue, size)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func declareQueue(conn *amqp.Connection, queue string) (amqpChannel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	// declaring is idempotent
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return ch, nil
}

func newRabbitPool(open func() (amqpChannel, error), queue string, size int) (*RabbitPublisher, error) {
	if size < 1 {
		size = 1
	}
	p := &RabbitPublisher{open: open, slots: make(chan amqpChannel, size), queue: queue}
	for i := 0; i < size; i++ {
		ch, err := open()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to create channel %d: %w", i, err)
		}
		p.slots <- ch
	}
	return p, nil
}

// acquire takes a slot, opening a channel for it when the previous one is
// gone. A failed open hands the empty slot back before returning.
func (p *RabbitPublisher) acquire(ctx context.Context) (amqpChannel, error) {
	select {
	case ch, ok := <-p.slots:
		if !ok {
			return nil, errRabbitClosed
		}
		if ch != nil && !ch.IsClosed() {
			return ch, nil
		}
		fresh, err := p.open()
		if err != nil {
			p.release(nil)
			return nil, fmt.Errorf("failed to reopen rabbitmq channel: %w", err)
		}
		return fresh, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns a slot to the pool. Closed channels go back as empty slots.
func (p *RabbitPublisher) release(ch amqpChannel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		if ch != nil {
			ch.Close()
		}
		return
	}
	if ch != nil && ch.IsClosed() {
		ch = nil
	}
	select {
	case p.slots <- ch:
	default:
		if ch != nil {
			ch.Close()
		}
	}
}

func (p *RabbitPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	ch, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer p.release(ch)

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    key,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish to %s failed: %w", p.queue, err)
	}
	return nil
}

// Close drains the pool and closes the connection.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.slots)
	for ch := range p.slots {
		if ch != nil {
			ch.Close()
		}
	}
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
