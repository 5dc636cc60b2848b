package printqueue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"urology-records/report"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

var ErrQueueFull = errors.New("print queue is full")

// Job is a snapshot of one queued render.
type Job struct {
	ID           string     `json:"id"`
	PatientID    int64      `json:"patient_id"`
	Status       Status     `json:"status"`
	Path         string     `json:"path,omitempty"`
	Error        string     `json:"error,omitempty"`
	HistoryError string     `json:"history_error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Renderer produces one report. *report.Renderer satisfies it.
type Renderer interface {
	Render(ctx context.Context, patientID int64, opts report.Options) (*report.Result, error)
}

type request struct {
	id        string
	patientID int64
	opts      report.Options
}

// Queue renders reports one at a time on a single background worker.
type Queue struct {
	renderer Renderer
	logger   *slog.Logger
	requests chan request
	maxJobs  int

	mu       sync.Mutex
	jobs     map[string]*Job
	order    []string
	running  bool
	stopChan chan struct{}
	done     chan struct{}
	cancel   context.CancelFunc
}

// New creates a queue holding up to capacity pending renders. Status is
// kept for the most recent maxJobs jobs.
func New(renderer Renderer, capacity, maxJobs int, logger *slog.Logger) *Queue {
	return &Queue{
		renderer: renderer,
		logger:   logger,
		requests: make(chan request, capacity),
		maxJobs:  maxJobs,
		jobs:     make(map[string]*Job),
	}
}

// Start launches the worker. Calling it on a running queue does nothing.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}
	q.running = true
	q.stopChan = make(chan struct{})
	q.done = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel

	q.logger.Info("print queue started")
	go q.run(ctx, q.stopChan, q.done)
}

// Stop cancels the render in progress and waits for the worker to exit.
// Pending jobs stay queued for the next Start.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	close(q.stopChan)
	q.cancel()
	done := q.done
	q.mu.Unlock()

	<-done
	q.logger.Info("print queue stopped")
}

// Submit queues a render of patientID and returns the job id.
func (q *Queue) Submit(patientID int64, opts report.Options) (string, error) {
	job := &Job{
		ID:        uuid.New().String(),
		PatientID: patientID,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	select {
	case q.requests <- request{id: job.ID, patientID: patientID, opts: opts}:
	default:
		return "", ErrQueueFull
	}

	q.jobs[job.ID] = job
	q.order = append(q.order, job.ID)
	q.prune()
	return job.ID, nil
}

// Status returns a copy of the job, or false for an unknown or pruned id.
func (q *Queue) Status(id string) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (q *Queue) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case req := <-q.requests:
			q.process(ctx, req)
		}
	}
}

func (q *Queue) process(ctx context.Context, req request) {
	q.update(req.id, func(j *Job) { j.Status = StatusRunning })

	res, err := q.renderer.Render(ctx, req.patientID, req.opts)

	finished := time.Now()
	q.update(req.id, func(j *Job) {
		j.FinishedAt = &finished
		if err != nil {
			j.Status = StatusFailed
			j.Error = err.Error()
			return
		}
		j.Status = StatusDone
		j.Path = res.Path
		if res.HistoryErr != nil {
			j.HistoryError = res.HistoryErr.Error()
		}
	})

	if err != nil {
		q.logger.Error("report render failed", "job_id", req.id, "patient_id", req.patientID, "error", err)
		return
	}
	q.logger.Info("report render finished", "job_id", req.id, "patient_id", req.patientID, "path", res.Path)
}

func (q *Queue) update(id string, fn func(*Job)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if job, ok := q.jobs[id]; ok {
		fn(job)
	}
}

// prune drops the oldest finished jobs beyond maxJobs. Caller holds mu.
func (q *Queue) prune() {
	if q.maxJobs <= 0 || len(q.order) <= q.maxJobs {
		return
	}

	kept := q.order[:0]
	excess := len(q.order) - q.maxJobs
	for _, id := range q.order {
		job := q.jobs[id]
		if excess > 0 && (job.Status == StatusDone || job.Status == StatusFailed) {
			delete(q.jobs, id)
			excess--
			continue
		}
		kept = append(kept, id)
	}
	q.order = kept
}
