package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"golang.org/x/time/rate"
)

var (
	ErrQueueFull = errors.New("queue is full")
	ErrStopped   = errors.New("queue is stopped")
)

type TaskStatus string

const (
	TaskStatusComplete TaskStatus = "complete"
	TaskStatusFailed   TaskStatus = "failed"
	TaskStatusTimeout  TaskStatus = "timeout"
	TaskStatusPanic    TaskStatus = "panic"
)

type Task struct {
	// Name is used for logging only.
	Name string
	Run  func(ctx context.Context) error
}

// Queue is a bounded in-process worker pool. Tasks are lost on restart.
type Queue struct {
	tasks   chan Task
	limiter *rate.Limiter
	workers int
	timeout time.Duration
	logger  logger.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewQueue(cfg config.QueueConfig, log logger.Logger) *Queue {
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	size := max(cfg.Size, 0)
	return &Queue{
		tasks:   make(chan Task, size),
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		workers: max(cfg.Workers, 1),
		timeout: cfg.Timeout,
		logger:  log.WithField("component", "queue"),
	}
}

// Start launches the workers. They exit once Stop drains the queue or ctx is
// cancelled.
func (q *Queue) Start(ctx context.Context) {
	q.logger.WithFields(logger.Fields{
		"workers":  q.workers,
		"capacity": cap(q.tasks),
		"rate":     q.limiter.Limit(),
		"burst":    q.limiter.Burst(),
		"timeout":  q.timeout.String(),
	}).Info("Starting queue")

	for id := range q.workers {
		q.wg.Add(1)
		go q.worker(ctx, id)
	}
}

// Add enqueues task without blocking.
func (q *Queue) Add(task Task) error {
	if task.Run == nil {
		return fmt.Errorf("task %q has no run func", task.Name)
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped {
		return ErrStopped
	}

	select {
	case q.tasks <- task:
		queueDepth.Set(float64(len(q.tasks)))
		q.logger.WithField("task", task.Name).Trace("Task added")
		return nil
	default:
		rejectedTotal.Inc()
		q.logger.WithFields(logger.Fields{
			"task":     task.Name,
			"capacity": cap(q.tasks),
		}).Warn("Queue is full, rejecting task")
		return ErrQueueFull
	}
}

// Stop rejects new tasks and waits for the workers to finish the queued ones.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
	q.logger.Info("Queue stopped")
}

func (q *Queue) Len() int {
	return len(q.tasks)
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	log := q.logger.WithField("worker", id)
	log.Debug("Worker started")
	defer log.Debug("Worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			queueDepth.Set(float64(len(q.tasks)))
			if err := q.limiter.Wait(ctx); err != nil {
				log.WithError(err).WithField("task", task.Name).Warn("Dropping task, rate limiter wait cancelled")
				continue
			}
			q.handleTask(ctx, task)
		}
	}
}

func (q *Queue) handleTask(ctx context.Context, task Task) (status TaskStatus) {
	log := q.logger.WithField("task", task.Name)
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Sprintf("recovered from panic: %v", r))
			status = TaskStatusPanic
		}
		tasksTotal.WithLabelValues(string(status)).Inc()
		taskDuration.Observe(time.Since(start).Seconds())
		log.WithFields(logger.Fields{
			"duration": time.Since(start).String(),
			"status":   status,
		}).Debug("Task processing completed")
	}()

	err := task.Run(ctx)
	switch {
	case err == nil:
		return TaskStatusComplete
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.WithError(err).Warn("Execution timeout exceeded")
		return TaskStatusTimeout
	default:
		log.WithError(err).Error("Task processing failed")
		return TaskStatusFailed
	}
}
