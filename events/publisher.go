package events

import (
	"context"
	"errors"
)

// Publisher delivers an encoded event. key groups related events, e.g. by order id.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, key string, payload []byte) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, key, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
