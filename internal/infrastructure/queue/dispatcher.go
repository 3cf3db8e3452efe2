package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/erickogi/cards-restful/internal/api/metrics"
	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes card activities to a fixed set of workers using consistent
// hashing on the card id, guaranteeing per-card ordering of the audit trail.
type Dispatcher struct {
	workers  []chan domain.CardActivity
	recorder ports.ActivityRepository
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to queueSize activities. Non-positive values fall back to the
// defaults.
func NewDispatcher(numWorkers, queueSize int, recorder ports.ActivityRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = channelBuffer
	}
	d := &Dispatcher{
		workers:  make([]chan domain.CardActivity, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.CardActivity, queueSize)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already queued
// and stop when ctx is cancelled; Wait blocks until they are done.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands a to the worker responsible for its card. It never blocks:
// when that worker's queue is full the activity is dropped and counted.
func (d *Dispatcher) Publish(a domain.CardActivity) {
	idx := d.shardIndex(a.CardID)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("card_id", a.CardID).
			Str("action", string(a.Action)).
			Int("worker_id", idx).
			Msg("activity queue full, dropping")
	}
}

// shardIndex maps a card id deterministically to a worker index.
func (d *Dispatcher) shardIndex(cardID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cardID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.CardActivity) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case a := <-ch:
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.record(ctx, id, a)
		}
	}
}

// drain records whatever is still buffered once the dispatcher is stopping.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.CardActivity) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	for {
		select {
		case a := <-ch:
			d.record(drainCtx, id, a)
		default:
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, a domain.CardActivity) {
	if err := d.recorder.InsertActivity(ctx, a); err != nil {
		metrics.ActivityRecordedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("card_id", a.CardID).
			Str("action", string(a.Action)).
			Int("worker_id", id).
			Msg("activity recording failed")
		return
	}
	metrics.ActivityRecordedTotal.WithLabelValues("ok").Inc()
}
