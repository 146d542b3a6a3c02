package lineage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/retry"
)

// Emitter queues lineage records and delivers them to a Sink on a
// background goroutine with bounded retry. It replaces fire-and-forget
// emission: every failure surfaces on the Failures channel so callers can
// attach it to a response note instead of losing it.
type Emitter struct {
	sink     Sink
	queue    chan models.Lineage
	failures chan string
	retryCfg *retry.Config
	timeout  time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

// EmitterOptions tune queue depth and delivery behavior.
type EmitterOptions struct {
	QueueSize   int
	EmitTimeout time.Duration
	Retry       *retry.Config
}

// NewEmitter starts an emitter draining into sink. Close it to stop.
func NewEmitter(sink Sink, opts EmitterOptions, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.EmitTimeout <= 0 {
		opts.EmitTimeout = 10 * time.Second
	}

	e := &Emitter{
		sink:     sink,
		queue:    make(chan models.Lineage, opts.QueueSize),
		failures: make(chan string, opts.QueueSize),
		retryCfg: opts.Retry,
		timeout:  opts.EmitTimeout,
		logger:   logger.Named("lineage-emitter"),
		done:     make(chan struct{}),
	}
	go e.drain()
	return e
}

// Enqueue hands a lineage record to the background task. A full queue is
// reported as a failure note rather than blocking the request path.
func (e *Emitter) Enqueue(lin models.Lineage) {
	select {
	case e.queue <- lin:
	default:
		e.reportFailure(fmt.Sprintf("lineage queue full, dropped run %s", lin.RunID))
	}
}

// EmitLineage implements Sink by enqueueing; delivery happens on the
// background task, so this never fails the caller.
func (e *Emitter) EmitLineage(_ context.Context, lin models.Lineage) error {
	e.Enqueue(lin)
	return nil
}

// PendingFailures drains accumulated delivery failures as human-readable
// notes. The engine attaches them to the next response envelope.
func (e *Emitter) PendingFailures() []string {
	var notes []string
	for {
		select {
		case note := <-e.failures:
			notes = append(notes, note)
		default:
			return notes
		}
	}
}

var _ Sink = (*Emitter)(nil)

// Close stops the background task after draining queued records.
func (e *Emitter) Close() {
	close(e.queue)
	<-e.done
}

func (e *Emitter) drain() {
	defer close(e.done)
	for lin := range e.queue {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		err := retry.Do(ctx, e.retryCfg, func() error {
			return e.sink.EmitLineage(ctx, lin)
		})
		cancel()
		if err != nil {
			e.logger.Warn("Lineage emission failed",
				zap.String("run_id", lin.RunID),
				zap.Error(err))
			e.reportFailure(fmt.Sprintf("lineage emission failed for run %s: %v", lin.RunID, err))
		}
	}
}

func (e *Emitter) reportFailure(note string) {
	select {
	case e.failures <- note:
	default:
		// Failure channel full; the log line above is the fallback record.
	}
}
