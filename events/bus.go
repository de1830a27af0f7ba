// Package events delivers progression events to registered subscribers.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

type Kind string

type Handler func(ctx context.Context, kind Kind, payload any) error

// Sink is what publishers depend on.
type Sink interface {
	Publish(ctx context.Context, kind Kind, payload any) error
}

// Bus is a synchronous Sink. Handlers run in the publisher's goroutine in
// subscription order; a failing or panicking handler does not stop the rest.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
	l      *log.Logger
}

type subscription struct {
	id      int
	kind    Kind // empty matches every kind
	handler Handler
}

func NewBus(l *log.Logger) *Bus {
	if l == nil {
		l = log.Default()
	}
	return &Bus{l: l}
}

// Subscribe registers h for kind and returns its unsubscribe func.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, kind: kind, handler: h})
	return func() {
		b.unsubscribe(id)
	}
}

// SubscribeAll registers h for every kind.
func (b *Bus) SubscribeAll(h Handler) func() {
	return b.Subscribe("", h)
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *Bus) Publish(ctx context.Context, kind Kind, payload any) error {
	b.mu.RLock()
	subs := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == "" || s.kind == kind {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := b.deliver(ctx, s, kind, payload); err != nil {
			b.l.Error("event subscriber failed", "kind", kind, "subscriber", s.id, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) deliver(ctx context.Context, s subscription, kind Kind, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return s.handler(ctx, kind, payload)
}
