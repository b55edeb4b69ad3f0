package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/api/metrics"
	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher delivers session events to listeners on a fixed set of workers.
// Events are sharded by session id, so the events of one session reach every
// listener in the order they were published.
type Dispatcher struct {
	workers []chan domain.SessionEvent
	log     zerolog.Logger

	mu        sync.RWMutex
	listeners map[int]ports.SessionListener
	nextID    int
}

var _ ports.SessionNotifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.SessionEvent, numWorkers),
		log:       log.With().Str("component", "session_events").Logger(),
		listeners: make(map[int]ports.SessionListener),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SessionEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands an event to the worker responsible for its session. It never
// blocks: Publish runs on the login and logout paths, so when the worker's
// buffer is full the event is dropped and counted instead.
func (d *Dispatcher) Publish(event domain.SessionEvent) {
	idx := d.shardIndex(event.SessionID)
	select {
	case d.workers[idx] <- event:
		metrics.SessionEventsTotal.WithLabelValues(string(event.Kind)).Inc()
	default:
		metrics.SessionEventsDroppedTotal.WithLabelValues(string(event.Kind)).Inc()
		d.log.Warn().
			Str("session_id", event.SessionID).
			Str("kind", string(event.Kind)).
			Int("worker_id", idx).
			Msg("session event queue full, event dropped")
	}
	metrics.SessionEventQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// Subscribe registers l and returns a function that removes it.
func (d *Dispatcher) Subscribe(l ports.SessionListener) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) snapshot() []ports.SessionListener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]ports.SessionListener, 0, len(d.listeners))
	for _, l := range d.listeners {
		out = append(out, l)
	}
	return out
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SessionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.SessionEventQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			for _, l := range d.snapshot() {
				d.deliver(id, l, event)
			}
		}
	}
}

// deliver isolates the worker from a panicking listener.
func (d *Dispatcher) deliver(worker int, l ports.SessionListener, event domain.SessionEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("session_id", event.SessionID).
				Int("worker_id", worker).
				Msg("session listener panicked")
		}
	}()
	l(event)
}
