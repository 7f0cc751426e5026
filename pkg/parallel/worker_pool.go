package parallel

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
)

// Task is a unit of work run by a WorkerPool.
type Task func() error

// WorkerPool runs tasks on a fixed number of goroutines and records the
// first task failure. A panicking task is converted into an error instead of
// taking the worker down.
type WorkerPool struct {
	workers   int
	taskQueue chan Task
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu

	errMu    sync.Mutex
	firstErr error
	failed   int
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// ErrPoolClosed is returned by Submit after Wait or Close.
var ErrPoolClosed = errors.New("worker pool is closed")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// NewWorkerPool creates a pool with the given number of workers. A
// non-positive count means one worker per CPU.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan Task, workers*2),
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if err := wp.run(task); err != nil {
			wp.record(err)
		}
	}
}

func (wp *WorkerPool) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return task()
}

func (wp *WorkerPool) record(err error) {
	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	if wp.firstErr == nil {
		wp.firstErr = err
	}
	wp.failed++
}

// Submit queues a task. It blocks while the queue is full and returns
// ErrPoolClosed once the pool has been closed.
func (wp *WorkerPool) Submit(task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return ErrPoolClosed
	}

	wp.taskQueue <- task
	return nil
}

// Close stops accepting tasks and waits for queued tasks to finish. It is
// safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait closes the pool, blocks until every submitted task has finished and
// returns the first task error, if any.
func (wp *WorkerPool) Wait() error {
	wp.Close()

	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	if wp.firstErr == nil {
		return nil
	}
	if wp.failed > 1 {
		return fmt.Errorf("%w (and %d more task failures)", wp.firstErr, wp.failed-1)
	}
	return wp.firstErr
}
