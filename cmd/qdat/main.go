// Command qdat computes control-flow complexity metrics (cyclomatic,
// NPath, asymptotic path complexity, LOC) for source repositories and
// pre-extracted .dot graphs, and can serve the same engine over MCP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
	"github.com/Eli-Pregerson/qDat/internal/config"
	"github.com/Eli-Pregerson/qDat/internal/export"
	"github.com/Eli-Pregerson/qDat/internal/lang"
	"github.com/Eli-Pregerson/qDat/internal/mcptools"
	"github.com/Eli-Pregerson/qDat/internal/results"
	"github.com/Eli-Pregerson/qDat/internal/schedule"
)

// CLI flags parsed from command line.
type cliFlags struct {
	Path        string
	Dot         string
	Out         string
	Vectors     string
	JSON        string
	Diagram     bool
	Store       string
	Pool        int
	Interactive bool
	ServeMCP    bool
	Addr        string
	Verbose     bool
	Version     bool
}

// version is set by the linker at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("qdat", flag.ContinueOnError)
	fs.StringVar(&flags.Path, "path", "", "repository to analyze")
	fs.StringVar(&flags.Dot, "dot", "", ".dot file or directory of .dot graphs to analyze")
	fs.StringVar(&flags.Out, "out", "", "write metric results CSV to this path")
	fs.StringVar(&flags.Vectors, "vectors", "", "write APC feature vector CSV to this path")
	fs.StringVar(&flags.JSON, "json", "", "write full results report as JSON to this path")
	fs.BoolVar(&flags.Diagram, "diagram", false, "with -dot: print a Mermaid diagram of the graph instead of analyzing")
	fs.StringVar(&flags.Store, "store", "", "result store: empty/\"memory\" or a kuzu database path")
	fs.IntVar(&flags.Pool, "pool", 0, "worker pool size (default 8)")
	fs.BoolVar(&flags.Interactive, "interactive", false, "use the relaxed interactive timeout for all metrics")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server")
	fs.StringVar(&flags.Addr, "addr", "localhost:8765", "MCP server listen address")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if flags.Version {
		fmt.Println(version)
		return nil
	}

	level := slog.LevelInfo
	if flags.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	proj, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts := proj.ScheduleOptions()
	if flags.Pool > 0 {
		opts.PoolSize = flags.Pool
	}
	if flags.Interactive {
		opts.Interactive = true
	}

	storePath := flags.Store
	if storePath == "" {
		storePath = proj.Store
	}
	store, err := openStore(storePath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := mcptools.NewMetricsService(store, lang.NewConverter())
	svc.SetScheduleOptions(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case flags.ServeMCP:
		logger.Info("serving MCP", "addr", flags.Addr)
		return mcptools.RunMCPServer(ctx, svc, flags.Addr)
	case flags.Diagram && flags.Dot != "":
		return printDiagram(flags.Dot)
	case flags.Dot != "":
		return analyzeDot(ctx, svc, store, flags, logger, opts)
	case flags.Path != "":
		return analyzeSource(ctx, svc, store, flags, logger, opts)
	}
	return fmt.Errorf("nothing to do: pass -path, -dot, or -serve-mcp")
}

func analyzeSource(ctx context.Context, svc *mcptools.MetricsService, store results.Store, flags cliFlags, logger *slog.Logger, opts schedule.Options) error {
	start := time.Now()
	_, out, err := svc.AnalyzeSource(ctx, nil, mcptools.AnalyzeSourceInput{
		RepoPath: flags.Path,
		PoolSize: opts.PoolSize,
	})
	if err != nil {
		return err
	}
	logger.Info("analysis complete",
		"files", out.Files,
		"functions", out.Functions,
		"results", len(out.Results),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return writeReports(ctx, store, flags, logger)
}

func analyzeDot(ctx context.Context, svc *mcptools.MetricsService, store results.Store, flags cliFlags, logger *slog.Logger, opts schedule.Options) error {
	start := time.Now()
	_, out, err := svc.AnalyzeDot(ctx, nil, mcptools.AnalyzeDotInput{
		DotPath:  flags.Dot,
		PoolSize: opts.PoolSize,
	})
	if err != nil {
		return err
	}
	logger.Info("analysis complete",
		"graphs", out.Graphs,
		"results", len(out.Results),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return writeReports(ctx, store, flags, logger)
}

// printDiagram renders a .dot graph as a Mermaid flowchart on stdout.
func printDiagram(path string) error {
	g, err := cfg.ParseDotFile(path, nil)
	if err != nil {
		return err
	}
	fmt.Print(export.GenerateMermaid(g))
	return nil
}

// writeReports exports the stored results as CSV when output paths are
// set, otherwise prints them to stdout.
func writeReports(ctx context.Context, store results.Store, flags cliFlags, logger *slog.Logger) error {
	recs, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	if flags.Out == "" && flags.Vectors == "" && flags.JSON == "" {
		return export.WriteMetricsCSV(os.Stdout, recs)
	}
	if flags.Out != "" {
		f, err := os.Create(flags.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", flags.Out, err)
		}
		defer f.Close()
		if err := export.WriteMetricsCSV(f, recs); err != nil {
			return err
		}
		logger.Info("wrote metrics CSV", "path", flags.Out, "rows", len(recs))
	}
	if flags.Vectors != "" {
		f, err := os.Create(flags.Vectors)
		if err != nil {
			return fmt.Errorf("create %s: %w", flags.Vectors, err)
		}
		defer f.Close()
		if err := export.WriteVectorCSV(f, recs); err != nil {
			return err
		}
		logger.Info("wrote vector CSV", "path", flags.Vectors)
	}
	if flags.JSON != "" {
		f, err := os.Create(flags.JSON)
		if err != nil {
			return fmt.Errorf("create %s: %w", flags.JSON, err)
		}
		defer f.Close()
		if err := export.WriteJSON(f, recs); err != nil {
			return err
		}
		logger.Info("wrote JSON report", "path", flags.JSON)
	}
	return nil
}
