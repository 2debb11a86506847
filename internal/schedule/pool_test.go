package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eli-Pregerson/qDat/internal/apc"
	"github.com/Eli-Pregerson/qDat/internal/cfg"
	"github.com/Eli-Pregerson/qDat/internal/metric"
)

// chainGraph builds a straight-line graph with n nodes.
func chainGraph(t *testing.T, name string, n int) *cfg.Graph {
	t.Helper()
	edges := make([][2]int, 0, n-1)
	for i := 0; i < n-1; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	return cfg.New(name, cfg.LangGo, 0, edges, nil)
}

// stubGen lets tests control evaluation behavior per graph.
type stubGen struct {
	name string
	eval func(ctx context.Context, g *cfg.Graph) (metric.Value, error)
}

func (s *stubGen) Name() string                  { return s.name }
func (s *stubGen) Applicable(_ *cfg.Graph) bool  { return true }
func (s *stubGen) Evaluate(ctx context.Context, g *cfg.Graph) (metric.Value, error) {
	return s.eval(ctx, g)
}

func TestBuildTasksOrdersByDescendingNodeCount(t *testing.T) {
	graphs := []*cfg.Graph{
		chainGraph(t, "mid", 5),
		chainGraph(t, "big", 50),
		chainGraph(t, "tiny", 1),
	}
	gen := &stubGen{name: "stub", eval: func(_ context.Context, _ *cfg.Graph) (metric.Value, error) {
		return metric.IntValue(1), nil
	}}

	tasks := BuildTasks(graphs, []metric.Generator{gen})
	require.Len(t, tasks, 3)
	assert.Equal(t, "big", tasks[0].Graph.Name)
	assert.Equal(t, "mid", tasks[1].Graph.Name)
	assert.Equal(t, "tiny", tasks[2].Graph.Name)
}

func TestBuildTasksSkipsInapplicablePairs(t *testing.T) {
	graphs := []*cfg.Graph{
		chainGraph(t, "go-func", 3),
		cfg.New("py-func", cfg.LangPython, 0, [][2]int{{0, 1}}, nil),
	}

	tasks := BuildTasks(graphs, []metric.Generator{metric.NewLinesOfCode()})
	require.Len(t, tasks, 1)
	assert.Equal(t, "py-func", tasks[0].Graph.Name)
}

func TestPoolCompletesEveryTask(t *testing.T) {
	graphs := []*cfg.Graph{
		chainGraph(t, "a", 4),
		chainGraph(t, "b", 7),
		chainGraph(t, "c", 2),
	}
	gens := metric.All()
	wantKeys := len(BuildTasks(graphs, gens))

	for _, size := range []int{1, DefaultPoolSize, wantKeys + 5} {
		t.Run(fmt.Sprintf("pool=%d", size), func(t *testing.T) {
			results, err := Run(context.Background(), graphs, gens, Options{PoolSize: size})
			require.NoError(t, err)
			require.Len(t, results, wantKeys)
			for key, out := range results {
				assert.True(t, out.OK, "task %v should succeed: %s", key, out.Reason)
			}
		})
	}
}

func TestPoolRecordsSentinelForFailures(t *testing.T) {
	// Cyclic graph: every metric that validates must fail with an input
	// error, not drop the key.
	cyclic := cfg.New("loop", cfg.LangGo, 0, [][2]int{{0, 1}, {1, 0}}, nil)
	good := chainGraph(t, "ok", 3)

	results, err := Run(context.Background(), []*cfg.Graph{cyclic, good},
		[]metric.Generator{metric.NewNPath()}, Options{PoolSize: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	bad := results[Key{Graph: "loop", Metric: "NPath Complexity"}]
	assert.False(t, bad.OK)
	assert.Equal(t, SentinelNotAvailable, bad.Sentinel)
	assert.Equal(t, ReasonInputError, bad.Reason)

	okOut := results[Key{Graph: "ok", Metric: "NPath Complexity"}]
	assert.True(t, okOut.OK)
	assert.Equal(t, int64(1), okOut.Value.Int)
}

func TestPoolTimeoutIsolatesSlowTask(t *testing.T) {
	graphs := []*cfg.Graph{
		chainGraph(t, "slow", 2),
		chainGraph(t, "fast", 3),
	}
	gen := &stubGen{name: "stub", eval: func(ctx context.Context, g *cfg.Graph) (metric.Value, error) {
		if g.Name == "slow" {
			<-ctx.Done()
			return metric.Value{}, ctx.Err()
		}
		return metric.IntValue(42), nil
	}}

	results, err := Run(context.Background(), graphs, []metric.Generator{gen},
		Options{PoolSize: 2, MetricTimeout: 30 * time.Millisecond})
	require.NoError(t, err)
	require.Len(t, results, 2)

	slow := results[Key{Graph: "slow", Metric: "stub"}]
	assert.False(t, slow.OK)
	assert.Equal(t, SentinelNotAvailable, slow.Sentinel)
	assert.Equal(t, ReasonTimeout, slow.Reason)

	fast := results[Key{Graph: "fast", Metric: "stub"}]
	assert.True(t, fast.OK)
	assert.Equal(t, int64(42), fast.Value.Int)
}

func TestPoolSizeOneRunsLargestFirst(t *testing.T) {
	graphs := []*cfg.Graph{
		chainGraph(t, "mid", 5),
		chainGraph(t, "big", 50),
		chainGraph(t, "tiny", 1),
	}

	var mu sync.Mutex
	var order []string
	gen := &stubGen{name: "stub", eval: func(_ context.Context, g *cfg.Graph) (metric.Value, error) {
		mu.Lock()
		order = append(order, g.Name)
		mu.Unlock()
		return metric.IntValue(int64(g.NodeCount())), nil
	}}

	_, err := Run(context.Background(), graphs, []metric.Generator{gen}, Options{PoolSize: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"big", "mid", "tiny"}, order)
}

func TestPoolRejectsReuse(t *testing.T) {
	p := NewPool(Options{PoolSize: 1})
	_, err := p.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StateDone, p.State())

	_, err = p.Run(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestRunSequentialReportsEachTask(t *testing.T) {
	graphs := []*cfg.Graph{
		chainGraph(t, "a", 2),
		chainGraph(t, "b", 4),
	}
	gen := &stubGen{name: "stub", eval: func(_ context.Context, _ *cfg.Graph) (metric.Value, error) {
		return metric.IntValue(7), nil
	}}

	var seen []string
	results, err := NewPool(Options{Interactive: true}).RunSequential(
		context.Background(), graphs, []metric.Generator{gen},
		func(task Task, out Outcome) {
			seen = append(seen, task.Graph.Name)
			assert.True(t, out.OK)
		})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, []string{"b", "a"}, seen)
}

func TestReasonForClassifiesErrors(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, ReasonTimeout},
		{context.Canceled, ReasonCanceled},
		{fmt.Errorf("wrap: %w", cfg.ErrCyclicGraph), ReasonInputError},
		{fmt.Errorf("wrap: %w", cfg.ErrMalformedGraph), ReasonInputError},
		{fmt.Errorf("wrap: %w", apc.ErrUnsupportedRecursionDegree), ReasonUnsupportedRecursionDegree},
		{fmt.Errorf("wrap: %w", apc.ErrNoCombinatorialSolution), ReasonNoCombinatorialSolution},
		{fmt.Errorf("wrap: %w", metric.ErrNumericSingularity), ReasonNumericSingularity},
		{errors.New("boom"), ReasonEvaluationError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, reasonFor(tc.err), "error %v", tc.err)
	}
}

func TestReporterDropsWhenFull(t *testing.T) {
	r := NewReporter()
	for i := 0; i < 200; i++ {
		r.Emit(Event{Graph: "g", Status: StatusQueued})
	}
	r.Close()

	n := 0
	for range r.Subscribe() {
		n++
	}
	assert.Equal(t, 64, n)
}

func TestPoolEmitsProgressEvents(t *testing.T) {
	r := NewReporter()
	graphs := []*cfg.Graph{chainGraph(t, "g", 3)}
	gen := &stubGen{name: "stub", eval: func(_ context.Context, _ *cfg.Graph) (metric.Value, error) {
		return metric.IntValue(1), nil
	}}

	_, err := Run(context.Background(), graphs, []metric.Generator{gen},
		Options{PoolSize: 1, Reporter: r})
	require.NoError(t, err)
	r.Close()

	var statuses []Status
	for ev := range r.Subscribe() {
		statuses = append(statuses, ev.Status)
	}
	assert.Equal(t, []Status{StatusQueued, StatusWorking, StatusComplete}, statuses)
}
