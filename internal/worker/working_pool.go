package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Job is one unit of background work, typically an evidence validation run.
type Job func(ctx context.Context)

// WorkingPool runs jobs on a fixed set of workers fed by a bounded channel.
// Validation jobs are dispatched here so status-change requests return
// without waiting on network probes.
type WorkingPool struct {
	numWorkers int
	jobChan    chan Job
}

func NewWorkingPool(numWorkers int, queueSize int) *WorkingPool {
	return &WorkingPool{
		numWorkers: numWorkers,
		jobChan:    make(chan Job, queueSize),
	}
}

// Submit enqueues a job. It never blocks the caller: when the queue is full
// the job is rejected and the caller decides how to degrade.
func (p *WorkingPool) Submit(job Job) bool {
	select {
	case p.jobChan <- job:
		return true
	default:
		return false
	}
}

// Start launches the workers and blocks until the context is cancelled and
// every in-flight job has finished.
func (p *WorkingPool) Start(ctx context.Context, managerWg *sync.WaitGroup) {
	defer managerWg.Done()

	var workerWg sync.WaitGroup

	for i := range p.numWorkers {
		workerWg.Add(1)
		go p.worker(ctx, &workerWg, i+1)
	}

	<-ctx.Done()

	slog.Info("Worker pool shutdown signaled, closing job channel")
	close(p.jobChan)

	workerWg.Wait()
	slog.Info("All workers stopped")
}

func (p *WorkingPool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			p.safeExecution(ctx, job, id)
		case <-ctx.Done():
			// Exit even if the job channel is not closed yet; jobs still
			// queued are dropped on shutdown.
			return
		}
	}
}

func (p *WorkingPool) safeExecution(ctx context.Context, job Job, workerID int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic recovered in worker job", "worker", workerID, "panic", r)
		}
	}()

	job(ctx)
}
