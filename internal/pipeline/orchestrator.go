package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/juristext/internal/config"
	"github.com/dgallion1/juristext/internal/export"
)

// Orchestrator runs uploaded batches in the background. Successful results
// of every finished batch are also written to Sinks, when set before Start.
type Orchestrator struct {
	Sinks []export.Sink

	jobs     *JobStore
	queue    chan *Job
	pipeline *Pipeline
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the job queue. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, p *Pipeline, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.QueueSize),
		pipeline: p,
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.Workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.run(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID)
	job.SetStatus(StatusProcessing)
	log.Info("batch started", "documents", len(job.Inputs()))

	r := &Runner{
		Pipeline:   o.pipeline,
		Reporter:   job,
		Workers:    1,
		DocTimeout: o.cfg.DocTimeout,
	}
	results := r.Process(ctx, job.Inputs())
	if ok := Successes(results); len(ok) > 0 {
		for _, s := range o.Sinks {
			if err := s.Write(ctx, ok); err != nil {
				log.Error("export failed", "target", s.Target(), "error", err)
			}
		}
	}
	job.Complete(results)

	snap := job.Snapshot()
	log.Info("batch finished", "status", snap.Status, "succeeded", snap.Progress.Succeeded, "failed", snap.Progress.Failed)
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new batch of documents and returns its job.
func (o *Orchestrator) Submit(inputs []Input) (*Job, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("job id: %w", err)
	}
	job := NewJob(id.String(), inputs)
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return job, nil
	default:
		job.SetStatus(StatusFailed)
		return job, fmt.Errorf("job queue is full (%d)", o.cfg.QueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// JobCount returns the number of tracked jobs.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Pipeline returns the document pipeline for synchronous requests.
func (o *Orchestrator) Pipeline() *Pipeline {
	return o.pipeline
}
