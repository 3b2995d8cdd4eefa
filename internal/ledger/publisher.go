package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"finbot/internal/core"
	"finbot/internal/log"
)

// DefaultQueueSize bounds the events an AsyncPublisher holds while the
// downstream publisher is slow or unreachable.
const DefaultQueueSize = 256

// ErrQueueFull is returned when an event is dropped because the queue is full.
var ErrQueueFull = errors.New("event queue full")

// ErrPublisherClosed is returned for events enqueued after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// AsyncPublisher hands events to a background goroutine so ledger mutations
// never wait on the network. Events are delivered in order.
type AsyncPublisher struct {
	next   Publisher
	logger *log.Logger

	mu     sync.RWMutex
	queue  chan core.LedgerEvent
	closed bool

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	dropped atomic.Uint64
}

// NewAsyncPublisher starts the drain goroutine. Call Close to stop it.
func NewAsyncPublisher(next Publisher, size int, logger *log.Logger) *AsyncPublisher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = log.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &AsyncPublisher{
		next:   next,
		logger: logger.WithComponent(log.ComponentAMQP),
		queue:  make(chan core.LedgerEvent, size),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.drain()
	return p
}

// Publish enqueues ev without blocking.
func (p *AsyncPublisher) Publish(_ context.Context, ev core.LedgerEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- ev:
		return nil
	default:
		p.dropped.Add(1)
		return ErrQueueFull
	}
}

// Dropped counts events discarded because the queue was full.
func (p *AsyncPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

func (p *AsyncPublisher) drain() {
	defer close(p.done)
	for ev := range p.queue {
		if p.ctx.Err() != nil {
			p.dropped.Add(1)
			continue
		}
		if err := p.next.Publish(p.ctx, ev); err != nil {
			p.logger.Warn("Failed to publish ledger event",
				log.FieldEventType, ev.Type,
				log.FieldRevision, ev.Revision,
				log.FieldError, err)
		}
	}
}

// Close stops accepting events and delivers what is queued until ctx is
// done. Events still queued after that are dropped.
func (p *AsyncPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	select {
	case <-p.done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-p.done
		if n := p.dropped.Load(); n > 0 {
			p.logger.Warn("Ledger events dropped on shutdown", log.FieldCount, n)
		}
		return ctx.Err()
	}
}
