// Package schedule runs metric evaluations over batches of control flow
// graphs with a bounded worker pool, per-task timeouts, and sentinel
// results for anything that cannot produce a value.
package schedule

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Eli-Pregerson/qDat/internal/apc"
	"github.com/Eli-Pregerson/qDat/internal/cfg"
	"github.com/Eli-Pregerson/qDat/internal/metric"
)

// Sentinel value and failure reasons recorded on outcomes that carry no
// metric value.
const (
	SentinelNotAvailable = "NA"

	ReasonTimeout                    = "Timeout"
	ReasonCanceled                   = "Canceled"
	ReasonInputError                 = "InputError"
	ReasonUnsupportedRecursionDegree = "UnsupportedRecursionDegree"
	ReasonNoCombinatorialSolution    = "NoCombinatorialSolution"
	ReasonNumericSingularity         = "NumericSingularity"
	ReasonEvaluationError            = "EvaluationError"
)

// Timeout classes. Path complexity gets a much longer batch budget than
// the counting metrics; interactive runs relax all classes uniformly.
const (
	DefaultPathComplexityTimeout = 1200 * time.Second
	DefaultMetricTimeout         = 180 * time.Second
	DefaultInteractiveTimeout    = 6000 * time.Second
	DefaultPoolSize              = 8
)

// State is the pool lifecycle phase.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Task is one (graph, metric) evaluation unit. Each applicable pair is
// queued exactly once per run.
type Task struct {
	Graph     *cfg.Graph
	Generator metric.Generator
}

// Key identifies a task's slot in the result map.
type Key struct {
	Graph  string
	Metric string
}

// Outcome is the recorded result of one task. Exactly one of Value or
// Sentinel is meaningful: OK selects which.
type Outcome struct {
	OK       bool
	Value    metric.Value
	Sentinel string
	Reason   string
	Elapsed  time.Duration
}

// Options configures a pool run. Zero values fall back to the batch
// defaults.
type Options struct {
	// PoolSize bounds concurrent evaluations. Defaults to 8.
	PoolSize int

	// Interactive applies the long interactive timeout to every task
	// class instead of the batch budgets.
	Interactive bool

	// PathComplexityTimeout overrides the batch budget for path
	// complexity tasks.
	PathComplexityTimeout time.Duration

	// MetricTimeout overrides the batch budget for all other metrics.
	MetricTimeout time.Duration

	// InteractiveTimeout overrides the uniform interactive budget.
	InteractiveTimeout time.Duration

	// Reporter receives progress events when set. Emission never blocks
	// a worker.
	Reporter *Reporter
}

func (o Options) withDefaults() Options {
	if o.PoolSize <= 0 {
		o.PoolSize = DefaultPoolSize
	}
	if o.PathComplexityTimeout <= 0 {
		o.PathComplexityTimeout = DefaultPathComplexityTimeout
	}
	if o.MetricTimeout <= 0 {
		o.MetricTimeout = DefaultMetricTimeout
	}
	if o.InteractiveTimeout <= 0 {
		o.InteractiveTimeout = DefaultInteractiveTimeout
	}
	return o
}

// timeoutFor picks the timeout class for a task.
func (o Options) timeoutFor(gen metric.Generator) time.Duration {
	if o.Interactive {
		return o.InteractiveTimeout
	}
	if _, ok := gen.(*metric.PathComplexity); ok {
		return o.PathComplexityTimeout
	}
	return o.MetricTimeout
}

// Pool evaluates (graph, metric) tasks with bounded concurrency.
type Pool struct {
	opts  Options
	state atomic.Int32

	mu      sync.Mutex
	queue   []Task
	results map[Key]Outcome
}

// NewPool creates an idle pool with the given options.
func NewPool(opts Options) *Pool {
	return &Pool{opts: opts.withDefaults()}
}

// State returns the current lifecycle phase.
func (p *Pool) State() State { return State(p.state.Load()) }

// BuildTasks expands graphs and generators into the applicable cross
// product, ordered by descending node count so the largest graphs start
// first. Ties keep the input order of graphs, then generators.
func BuildTasks(graphs []*cfg.Graph, gens []metric.Generator) []Task {
	tasks := make([]Task, 0, len(graphs)*len(gens))
	for _, g := range graphs {
		for _, gen := range gens {
			if gen.Applicable(g) {
				tasks = append(tasks, Task{Graph: g, Generator: gen})
			}
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Graph.NodeCount() > tasks[j].Graph.NodeCount()
	})
	return tasks
}

// Run evaluates every applicable (graph, metric) pair and returns the
// complete outcome map. The map always holds one entry per queued task:
// failures and timeouts surface as sentinel outcomes, never as a missing
// key or an error from Run itself. Run returns an error only when the
// pool is not idle or ctx is canceled before any work is queued.
func (p *Pool) Run(ctx context.Context, graphs []*cfg.Graph, gens []metric.Generator) (map[Key]Outcome, error) {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, errors.New("schedule: pool already used")
	}
	if err := ctx.Err(); err != nil {
		p.state.Store(int32(StateDone))
		return nil, err
	}

	tasks := BuildTasks(graphs, gens)
	p.mu.Lock()
	p.queue = tasks
	p.results = make(map[Key]Outcome, len(tasks))
	p.mu.Unlock()

	for _, t := range tasks {
		p.emit(t, StatusQueued, "")
	}

	eg, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.opts.PoolSize; i++ {
		eg.Go(func() error {
			for {
				task, ok := p.pop()
				if !ok {
					return nil
				}
				p.emit(task, StatusWorking, "")
				out := p.execute(gctx, task)
				p.record(task, out)
			}
		})
	}
	_ = eg.Wait()

	p.state.Store(int32(StateDone))

	p.mu.Lock()
	defer p.mu.Unlock()
	results := make(map[Key]Outcome, len(p.results))
	for k, v := range p.results {
		results[k] = v
	}
	return results, nil
}

// RunSequential evaluates the same task set single-threaded, invoking
// report after each task. It is the interactive fallback when process
// parallelism is unwanted.
func (p *Pool) RunSequential(ctx context.Context, graphs []*cfg.Graph, gens []metric.Generator, report func(Task, Outcome)) (map[Key]Outcome, error) {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, errors.New("schedule: pool already used")
	}

	tasks := BuildTasks(graphs, gens)
	results := make(map[Key]Outcome, len(tasks))
	for _, task := range tasks {
		p.emit(task, StatusWorking, "")
		out := p.execute(ctx, task)
		results[keyOf(task)] = out
		p.finishEvent(task, out)
		if report != nil {
			report(task, out)
		}
	}

	p.state.Store(int32(StateDone))
	return results, nil
}

// pop takes the next task off the queue. Emptying the queue moves the
// pool from running to draining: workers already past pop finish their
// current task.
func (p *Pool) pop() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		p.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
		return Task{}, false
	}
	task := p.queue[0]
	p.queue = p.queue[1:]
	return task, true
}

func (p *Pool) record(task Task, out Outcome) {
	p.mu.Lock()
	p.results[keyOf(task)] = out
	p.mu.Unlock()
	p.finishEvent(task, out)
}

func keyOf(task Task) Key {
	return Key{Graph: task.Graph.Name, Metric: task.Generator.Name()}
}

// execute runs one task under its timeout class. The evaluation runs in
// its own goroutine; on expiry the worker abandons it and records a
// timeout sentinel. An abandoned evaluation keeps running until it next
// observes its context, so generators must not mutate shared state.
func (p *Pool) execute(ctx context.Context, task Task) Outcome {
	timeout := p.opts.timeoutFor(task.Generator)
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value metric.Value
		err   error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		v, err := task.Generator.Evaluate(tctx, task.Graph)
		done <- result{value: v, err: err}
	}()

	select {
	case res := <-done:
		elapsed := time.Since(start)
		if res.err != nil {
			return Outcome{
				Sentinel: SentinelNotAvailable,
				Reason:   reasonFor(res.err),
				Elapsed:  elapsed,
			}
		}
		return Outcome{OK: true, Value: res.value, Elapsed: elapsed}
	case <-tctx.Done():
		reason := ReasonTimeout
		if ctx.Err() != nil {
			reason = ReasonCanceled
		}
		return Outcome{
			Sentinel: SentinelNotAvailable,
			Reason:   reason,
			Elapsed:  time.Since(start),
		}
	}
}

// reasonFor maps an evaluation error to its sentinel reason.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, cfg.ErrEmptyGraph),
		errors.Is(err, cfg.ErrCyclicGraph),
		errors.Is(err, cfg.ErrMalformedGraph),
		errors.Is(err, metric.ErrNotApplicable):
		return ReasonInputError
	case errors.Is(err, apc.ErrUnsupportedRecursionDegree):
		return ReasonUnsupportedRecursionDegree
	case errors.Is(err, apc.ErrNoCombinatorialSolution):
		return ReasonNoCombinatorialSolution
	case errors.Is(err, metric.ErrNumericSingularity):
		return ReasonNumericSingularity
	}
	return ReasonEvaluationError
}

func (p *Pool) emit(task Task, status Status, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	p.opts.Reporter.Emit(Event{
		Graph:   task.Graph.Name,
		Metric:  task.Generator.Name(),
		Status:  status,
		Message: msg,
	})
}

func (p *Pool) finishEvent(task Task, out Outcome) {
	switch {
	case out.OK:
		p.emit(task, StatusComplete, out.Value.String())
	case out.Reason == ReasonTimeout:
		p.emit(task, StatusTimeout, out.Reason)
	default:
		p.emit(task, StatusFailed, out.Reason)
	}
}

// Run is the one-shot convenience wrapper around NewPool.
func Run(ctx context.Context, graphs []*cfg.Graph, gens []metric.Generator, opts Options) (map[Key]Outcome, error) {
	return NewPool(opts).Run(ctx, graphs, gens)
}
