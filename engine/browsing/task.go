package browsing

import (
	"context"
	"sync"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// Task is a unit of work executed by a TaskRunner.
type Task struct {
	Name string
	Run  func(ctx context.Context)
	Keep bool // survives ClearPending
}

// NewTask creates a named task.
func NewTask(name string, run func(ctx context.Context)) Task {
	return Task{Name: name, Run: run}
}

// NewKeptTask creates a named task which is not discarded by ClearPending.
func NewKeptTask(name string, run func(ctx context.Context)) Task {
	return Task{Name: name, Run: run, Keep: true}
}

// TaskRunner executes tasks on a single goroutine, in the order they have
// been scheduled. Tasks which have not been started may be discarded.
type TaskRunner struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   *linkedlistqueue.Queue // of Task
	quit    bool
	running bool
	busy    bool // a task is executing
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewTaskRunner creates a task runner. The runner's goroutine is started
// with Start.
func NewTaskRunner() *TaskRunner {
	tr := &TaskRunner{
		queue: linkedlistqueue.New(),
		done:  make(chan struct{}),
	}
	tr.cond = sync.NewCond(&tr.mu)
	tr.ctx, tr.cancel = context.WithCancel(context.Background())
	return tr
}

// Start starts the goroutine of a task runner.
func (tr *TaskRunner) Start() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.running || tr.quit {
		return
	}
	tr.running = true
	go tr.loop()
}

// Schedule appends a task to the queue. Tasks scheduled after Quit are
// dropped.
func (tr *TaskRunner) Schedule(task Task) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.quit {
		tracer().Debugf("task runner stopped, dropping task %s", task.Name)
		return
	}
	tr.queue.Enqueue(task)
	tr.cond.Signal()
}

// ClearPending discards all tasks which have not been started, except
// kept tasks. Kept tasks stay in order.
func (tr *TaskRunner) ClearPending() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	total := tr.queue.Size()
	kept := linkedlistqueue.New()
	for !tr.queue.Empty() {
		v, _ := tr.queue.Dequeue()
		if v.(Task).Keep {
			kept.Enqueue(v)
		}
	}
	if n := total - kept.Size(); n > 0 {
		tracer().Debugf("discarding %d pending tasks", n)
	}
	tr.queue = kept
}

// Pending returns the number of tasks waiting to be run.
func (tr *TaskRunner) Pending() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.queue.Size()
}

// Idle is true if no task is executing and none is waiting.
func (tr *TaskRunner) Idle() bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return !tr.busy && tr.queue.Empty()
}

// Quit stops a task runner after the current task has finished and waits
// for its goroutine to terminate. Pending tasks are discarded and the
// context passed to running tasks is cancelled.
func (tr *TaskRunner) Quit() {
	tr.mu.Lock()
	tr.quit = true
	tr.queue.Clear()
	running := tr.running
	tr.cond.Broadcast()
	tr.mu.Unlock()
	tr.cancel()
	if running {
		<-tr.done
	}
}

func (tr *TaskRunner) loop() {
	defer close(tr.done)
	for {
		tr.mu.Lock()
		for tr.queue.Empty() && !tr.quit {
			tr.cond.Wait()
		}
		if tr.quit {
			tr.mu.Unlock()
			return
		}
		v, _ := tr.queue.Dequeue()
		tr.busy = true
		tr.mu.Unlock()
		task := v.(Task)
		tracer().Debugf("running task %s", task.Name)
		task.Run(tr.ctx)
		tr.mu.Lock()
		tr.busy = false
		tr.mu.Unlock()
	}
}
