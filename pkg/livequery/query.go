package livequery

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrClosed = errors.New("livequery: feed closed")

// Snapshot is the complete result of a query at one point in time.
type Snapshot[T any] struct {
	Items []T
}

type Observer[T any] struct {
	Next  func(Snapshot[T])
	Error func(error)
}

func (o Observer[T]) fail(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

// Subscription is released with Unsubscribe. Once Unsubscribe returns the
// observer is not called again. It must not be called from inside Next.
type Subscription interface {
	Unsubscribe()
}

type Query[T any] interface {
	Subscribe(observer Observer[T]) Subscription
}

type ListFunc[T any] func(ctx context.Context) ([]T, error)

type query[T any] struct {
	feed  *Feed
	scope string
	list  ListFunc[T]
}

// NewQuery observes list. An empty scope reacts to every notification.
func NewQuery[T any](feed *Feed, scope string, list ListFunc[T]) Query[T] {
	return &query[T]{feed: feed, scope: scope, list: list}
}

// Subscribe returns immediately. The first snapshot and every later one are
// delivered from a dedicated goroutine.
func (q *query[T]) Subscribe(observer Observer[T]) Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	changes, err := q.feed.pubSub.Subscribe(ctx, q.feed.topic)
	if err != nil {
		cancel()
		close(sub.done)
		observer.fail(fmt.Errorf("%w: %v", ErrClosed, err))
		return sub
	}

	go func() {
		defer close(sub.done)

		q.emit(ctx, observer)
		for msg := range changes {
			msg.Ack()
			if q.scope != "" && string(msg.Payload) != q.scope {
				continue
			}
			q.emit(ctx, observer)
		}
	}()

	return sub
}

func (q *query[T]) emit(ctx context.Context, observer Observer[T]) {
	if ctx.Err() != nil {
		return
	}

	items, err := q.list(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		observer.fail(err)
		return
	}

	if observer.Next != nil {
		observer.Next(Snapshot[T]{Items: items})
	}
}

type subscription struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
	<-s.done
}
