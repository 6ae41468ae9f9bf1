package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
	"github.com/mantlenetworkio/op-payload-builder/builder"
	"github.com/mantlenetworkio/op-payload-builder/metrics"
)

const (
	DefaultInterval = 500 * time.Millisecond
	DefaultDeadline = 12 * time.Second
)

type Opts struct {
	// Interval between build attempts.
	Interval time.Duration
	// Deadline is the total build window of the job.
	Deadline time.Duration
}

// Job drives one payload-building request to completion: it re-invokes the
// builder until the deadline or cancellation, keeping the best payload and
// threading the state-read cache from one attempt into the next.
type Job[A builder.PayloadAttributes, P builder.BuiltPayload] struct {
	id   bldrtypes.BuildJobID
	log  log.Logger
	m    metrics.Metricer
	bldr builder.PayloadBuilder[A, P]

	client builder.StateClient
	pool   builder.TransactionPool
	config builder.PayloadConfig[A]

	interval time.Duration
	deadline time.Duration

	mu     sync.Mutex
	best   *P
	cached *builder.CachedReads

	cancel     context.CancelFunc
	done       chan struct{}
	started    bool
	closed     bool
	unregister func()
}

// NewJob creates and registers a build job. The job does not run until Start.
func NewJob[A builder.PayloadAttributes, P builder.BuiltPayload](
	logger log.Logger,
	m metrics.Metricer,
	bldr builder.PayloadBuilder[A, P],
	client builder.StateClient,
	pool builder.TransactionPool,
	config builder.PayloadConfig[A],
	registry *Registry,
	opts Opts,
) (*Job[A, P], error) {
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Deadline == 0 {
		opts.Deadline = DefaultDeadline
	}
	id := bldrtypes.RandomJobID()
	job := &Job[A, P]{
		id:       id,
		log:      logger.New("job", id),
		m:        m,
		bldr:     bldr,
		client:   client,
		pool:     pool,
		config:   config,
		interval: opts.Interval,
		deadline: opts.Deadline,
		done:     make(chan struct{}),
		unregister: func() {
			registry.Unregister(id)
		},
	}
	if err := registry.Register(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (j *Job[A, P]) ID() bldrtypes.BuildJobID {
	return j.id
}

func (j *Job[A, P]) String() string {
	return "build-" + j.id.String()
}

// Start begins the attempt loop. The job's cancellation signal is derived
// from ctx: cancelling ctx cancels whichever builder attempt is running.
func (j *Job[A, P]) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return bldrtypes.ErrJobClosed
	}
	if j.started {
		j.mu.Unlock()
		return bldrtypes.ErrConflictingJob
	}
	j.started = true
	ctx, j.cancel = context.WithTimeout(ctx, j.deadline)
	j.mu.Unlock()

	go j.run(ctx)
	return nil
}

func (j *Job[A, P]) run(ctx context.Context) {
	defer close(j.done)
	for {
		outcome, err := j.bldr.TryBuild(ctx, j.args())
		if err != nil {
			j.log.Warn("Payload build attempt failed", "err", err)
		} else {
			switch outcome.Kind() {
			case builder.OutcomeBetter:
				payload, _ := outcome.Payload()
				j.setBest(&payload, outcome.CachedReads())
				j.log.Debug("Improved payload", "fees", payload.Fees())
			case builder.OutcomeAborted:
				j.setBest(nil, outcome.CachedReads())
				j.log.Debug("Attempt aborted, keeping previous best", "best_fees", outcome.Fees())
			case builder.OutcomeCancelled:
				j.log.Debug("Build cancelled")
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(j.interval):
		}
	}
}

func (j *Job[A, P]) args() builder.BuildArguments[A, P] {
	j.mu.Lock()
	defer j.mu.Unlock()
	return builder.BuildArguments[A, P]{
		Client:      j.client,
		Pool:        j.pool,
		CachedReads: j.cached,
		Config:      j.config,
		BestPayload: j.best,
	}
}

func (j *Job[A, P]) setBest(best *P, cached *builder.CachedReads) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if best != nil {
		j.best = best
	}
	if cached != nil {
		j.cached = cached
	}
}

// BestPayload returns the best payload built so far, if any.
func (j *Job[A, P]) BestPayload() (P, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.best == nil {
		var zero P
		return zero, false
	}
	return *j.best, true
}

// Resolve returns the payload for this job. If no attempt completed yet, the
// builder's missing-payload behaviour decides: a substitute payload is
// returned directly, otherwise an empty payload is constructed as the
// correctness fallback.
func (j *Job[A, P]) Resolve(ctx context.Context) (P, error) {
	if best, ok := j.BestPayload(); ok {
		return best, nil
	}
	behaviour := j.bldr.OnMissingPayload(ctx, j.args())
	switch behaviour.Kind() {
	case builder.MissingPayloadRaceBuilt:
		payload, _ := behaviour.Payload()
		j.log.Debug("Resolved with substitute payload")
		return payload, nil
	case builder.MissingPayloadRaceEmpty:
		j.log.Debug("Resolved with empty payload")
		return j.bldr.BuildEmptyPayload(ctx, j.client, j.config)
	default: // await the in-progress build
		select {
		case <-ctx.Done():
			var zero P
			return zero, ctx.Err()
		case <-j.done:
		}
		if best, ok := j.BestPayload(); ok {
			return best, nil
		}
		return j.bldr.BuildEmptyPayload(ctx, j.client, j.config)
	}
}

// Cancel stops the attempt loop. The best payload so far stays available.
func (j *Job[A, P]) Cancel() {
	j.mu.Lock()
	cancel := j.cancel
	j.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close cancels and unregisters the job. A closed job cannot be restarted.
func (j *Job[A, P]) Close() {
	j.mu.Lock()
	j.closed = true
	j.mu.Unlock()
	j.Cancel()
	j.unregister()
}
