package mcptools

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Eli-Pregerson/qDat/internal/apc"
	"github.com/Eli-Pregerson/qDat/internal/cfg"
	"github.com/Eli-Pregerson/qDat/internal/lang"
	"github.com/Eli-Pregerson/qDat/internal/metric"
	"github.com/Eli-Pregerson/qDat/internal/results"
	"github.com/Eli-Pregerson/qDat/internal/schedule"
)

// MetricsService holds the result store and converter used by MCP tool
// handlers.
type MetricsService struct {
	store results.Store
	conv  *lang.Converter
	opts  schedule.Options
}

// NewMetricsService creates a MetricsService with the given store and
// converter.
func NewMetricsService(store results.Store, conv *lang.Converter) *MetricsService {
	return &MetricsService{store: store, conv: conv}
}

// SetScheduleOptions overrides the default scheduler options used by
// analysis tools.
func (s *MetricsService) SetScheduleOptions(opts schedule.Options) {
	s.opts = opts
}

// AnalyzeSource walks a repository, converts every function into a CFG,
// evaluates all applicable metrics, and stores the outcomes.
func (s *MetricsService) AnalyzeSource(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeSourceInput,
) (*mcp.CallToolResult, AnalyzeSourceOutput, error) {
	if input.RepoPath == "" {
		return nil, AnalyzeSourceOutput{}, fmt.Errorf("repoPath is required")
	}
	info, err := os.Stat(input.RepoPath)
	if err != nil {
		return nil, AnalyzeSourceOutput{}, fmt.Errorf("cannot access repoPath: %w", err)
	}
	if !info.IsDir() {
		return nil, AnalyzeSourceOutput{}, fmt.Errorf("repoPath is not a directory: %s", input.RepoPath)
	}

	allowed := make(map[cfg.Language]bool)
	if len(input.Languages) == 0 {
		for _, l := range s.conv.SupportedLanguages() {
			allowed[l] = true
		}
	} else {
		for _, l := range input.Languages {
			allowed[cfg.Language(strings.ToLower(l))] = true
		}
	}
	excludeSet := make(map[string]bool, len(input.ExcludeDirs))
	for _, d := range input.ExcludeDirs {
		excludeSet[d] = true
	}

	var graphs []*cfg.Graph
	files := 0
	walkErr := filepath.WalkDir(input.RepoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || excludeSet[name] {
				return filepath.SkipDir
			}
			return nil
		}

		language := lang.DetectLanguage(path)
		if language == cfg.LangUnknown || !allowed[language] {
			return nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable files
		}
		relPath, err := filepath.Rel(input.RepoPath, path)
		if err != nil {
			relPath = path
		}

		fns, err := s.conv.Convert(ctx, relPath, source, language)
		if err != nil {
			return nil // skip unparseable files
		}
		files++
		graphs = append(graphs, fns...)
		return nil
	})
	if walkErr != nil {
		return nil, AnalyzeSourceOutput{}, fmt.Errorf("walk: %w", walkErr)
	}

	rows, err := s.analyze(ctx, graphs, input.PoolSize)
	if err != nil {
		return nil, AnalyzeSourceOutput{}, err
	}
	return nil, AnalyzeSourceOutput{
		Files:     files,
		Functions: len(graphs),
		Results:   rows,
	}, nil
}

// AnalyzeDot loads one .dot file or a directory of .dot files and
// evaluates all applicable metrics on the resulting graphs.
func (s *MetricsService) AnalyzeDot(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeDotInput,
) (*mcp.CallToolResult, AnalyzeDotOutput, error) {
	if input.DotPath == "" {
		return nil, AnalyzeDotOutput{}, fmt.Errorf("dotPath is required")
	}
	info, err := os.Stat(input.DotPath)
	if err != nil {
		return nil, AnalyzeDotOutput{}, fmt.Errorf("cannot access dotPath: %w", err)
	}

	paths := []string{input.DotPath}
	if info.IsDir() {
		paths, err = filepath.Glob(filepath.Join(input.DotPath, "*.dot"))
		if err != nil {
			return nil, AnalyzeDotOutput{}, fmt.Errorf("glob: %w", err)
		}
		sort.Strings(paths)
	}

	var graphs []*cfg.Graph
	for _, p := range paths {
		g, err := cfg.ParseDotFile(p, nil)
		if err != nil {
			return nil, AnalyzeDotOutput{}, fmt.Errorf("parse %s: %w", p, err)
		}
		graphs = append(graphs, g)
	}

	rows, err := s.analyze(ctx, graphs, input.PoolSize)
	if err != nil {
		return nil, AnalyzeDotOutput{}, err
	}
	return nil, AnalyzeDotOutput{Graphs: len(graphs), Results: rows}, nil
}

// GetResult looks up a single stored record.
func (s *MetricsService) GetResult(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetResultInput,
) (*mcp.CallToolResult, GetResultOutput, error) {
	if input.Graph == "" || input.Metric == "" {
		return nil, GetResultOutput{}, fmt.Errorf("graph and metric are required")
	}
	rec, err := s.store.Get(ctx, input.Graph, input.Metric)
	if err != nil {
		return nil, GetResultOutput{}, fmt.Errorf("get result: %w", err)
	}
	return nil, GetResultOutput{Result: toRow(*rec)}, nil
}

// ListResults returns every stored record.
func (s *MetricsService) ListResults(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListResultsInput,
) (*mcp.CallToolResult, ListResultsOutput, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, ListResultsOutput{}, fmt.Errorf("list results: %w", err)
	}
	rows := make([]ResultRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, toRow(rec))
	}
	return nil, ListResultsOutput{Results: rows, Total: len(rows)}, nil
}

// PathComplexity runs the APC pipeline on an inline edge list.
func (s *MetricsService) PathComplexity(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PathComplexityInput,
) (*mcp.CallToolResult, PathComplexityOutput, error) {
	if len(input.Edges) == 0 {
		return nil, PathComplexityOutput{}, fmt.Errorf("edges is required")
	}
	g := cfg.New("inline", cfg.LangUnknown, input.Entry, input.Edges, input.Recursion)

	sys, err := apc.BuildSystem(g)
	if err != nil {
		return nil, PathComplexityOutput{}, fmt.Errorf("build system: %w", err)
	}
	sol, err := apc.Solve(sys)
	if err != nil {
		return nil, PathComplexityOutput{}, fmt.Errorf("solve: %w", err)
	}
	desc := apc.Classify(sol)

	return nil, PathComplexityOutput{
		Class:      desc.Class.String(),
		ClosedForm: desc.ClosedForm,
		GF:         sol.ClosedForm,
		Vector:     desc.Vector(),
	}, nil
}

// analyze schedules all applicable (graph, metric) tasks, persists the
// outcomes, and renders them as rows sorted by graph then metric.
func (s *MetricsService) analyze(ctx context.Context, graphs []*cfg.Graph, poolSize int) ([]ResultRow, error) {
	opts := s.opts
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	outcomes, err := schedule.Run(ctx, graphs, metric.All(), opts)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	if err := s.store.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	recs := make([]results.Record, 0, len(outcomes))
	for key, out := range outcomes {
		recs = append(recs, results.FromOutcome(key, out))
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Graph != recs[j].Graph {
			return recs[i].Graph < recs[j].Graph
		}
		return recs[i].Metric < recs[j].Metric
	})

	rows := make([]ResultRow, 0, len(recs))
	for _, rec := range recs {
		if err := s.store.Put(ctx, rec); err != nil {
			return nil, fmt.Errorf("store %s/%s: %w", rec.Graph, rec.Metric, err)
		}
		rows = append(rows, toRow(rec))
	}
	return rows, nil
}

func toRow(rec results.Record) ResultRow {
	row := ResultRow{
		Graph:     rec.Graph,
		Metric:    rec.Metric,
		Value:     rec.Value,
		Sentinel:  rec.Sentinel,
		Reason:    rec.Reason,
		ElapsedMS: float64(rec.Elapsed.Microseconds()) / 1000,
	}
	if rec.HasVector {
		v := rec.Vector
		row.Vector = &v
	}
	return row
}
