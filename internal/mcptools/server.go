// Package mcptools exposes the metric engine over the Model Context
// Protocol so agent tooling can analyze repositories and query stored
// results.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewMetricsMCPServer creates an MCP server with all 5 metric tools
// registered.
func NewMetricsMCPServer(svc *MetricsService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "qdat-metrics",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_source",
		Description: "Analyze a repository: parse source files with tree-sitter, build one control-flow graph per function, and evaluate cyclomatic, NPath, path complexity, and LOC metrics over a worker pool.",
	}, svc.AnalyzeSource)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_dot",
		Description: "Analyze pre-extracted control-flow graphs from .dot files and evaluate all applicable metrics.",
	}, svc.AnalyzeDot)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_result",
		Description: "Look up the stored result for one (graph, metric) pair.",
	}, svc.GetResult)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_results",
		Description: "Return every stored metric result, ordered by graph then metric.",
	}, svc.ListResults)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "path_complexity",
		Description: "Run the asymptotic path complexity pipeline on an inline edge list: equation system, generating function, growth classification, and the 5-field APC feature vector.",
	}, svc.PathComplexity)

	return server
}

// RunMCPServer starts an HTTP server exposing the metric MCP tools.
func RunMCPServer(ctx context.Context, svc *MetricsService, addr string) error {
	server := NewMetricsMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
