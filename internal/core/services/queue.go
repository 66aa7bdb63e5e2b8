package services

import (
	"context"
	"sync"

	"github.com/quarrylabs/quarry-cli/internal/logger"
)

// ingestJob carries one queued upload. Content rides along in memory;
// only chunks are persisted, so a job cannot be reconstructed from the
// store after a crash.
type ingestJob struct {
	documentID string
	ownerID    string
	filename   string
	content    []byte
}

// processFunc handles a single queued job.
type processFunc func(ctx context.Context, job ingestJob) error

// ingestQueue runs document processing on background workers. Enqueue
// never blocks the caller beyond channel capacity; Stop drains queued
// jobs before returning.
type ingestQueue struct {
	jobs    chan ingestJob
	process processFunc
	workers int

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// newIngestQueue creates a queue with the given worker count and
// buffer size. Values below 1 are raised to 1.
func newIngestQueue(process processFunc, workers, buffer int) *ingestQueue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 1
	}

	return &ingestQueue{
		jobs:    make(chan ingestJob, buffer),
		process: process,
		workers: workers,
	}
}

// Start launches the worker goroutines. Calling Start twice is a no-op.
func (q *ingestQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}
	q.started = true

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.run(ctx)
	}
}

// Enqueue submits a job for background processing.
func (q *ingestQueue) Enqueue(job ingestJob) {
	q.jobs <- job
}

// Stop closes the queue and waits for queued jobs to finish. Jobs
// already dequeued run to completion.
func (q *ingestQueue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.started = false
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	q.cancel()
}

func (q *ingestQueue) run(ctx context.Context) {
	defer q.wg.Done()

	for job := range q.jobs {
		if err := q.process(ctx, job); err != nil {
			// Failures are recorded on the document itself; the error
			// here is informational only.
			logger.Debug("Processing document %s failed: %v", job.documentID, err)
		}
	}
}
