package mcptools

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// AnalyzeSourceInput is the input for the analyze_source MCP tool.
type AnalyzeSourceInput struct {
	RepoPath    string   `json:"repoPath" jsonschema:"the absolute path to the repository to analyze"`
	Languages   []string `json:"languages,omitempty" jsonschema:"languages to analyze (default: all). Values: go, typescript, python, rust"`
	ExcludeDirs []string `json:"excludeDirs,omitempty" jsonschema:"directories to exclude (e.g. vendor, node_modules)"`
	PoolSize    int      `json:"poolSize,omitempty" jsonschema:"worker pool size (default: 8)"`
}

// AnalyzeSourceOutput is the result of the analyze_source MCP tool.
type AnalyzeSourceOutput struct {
	Files     int         `json:"files"`
	Functions int         `json:"functions"`
	Results   []ResultRow `json:"results"`
}

// AnalyzeDotInput is the input for the analyze_dot MCP tool.
type AnalyzeDotInput struct {
	DotPath  string `json:"dotPath" jsonschema:"path to a .dot file or a directory of .dot files"`
	PoolSize int    `json:"poolSize,omitempty" jsonschema:"worker pool size (default: 8)"`
}

// AnalyzeDotOutput is the result of the analyze_dot MCP tool.
type AnalyzeDotOutput struct {
	Graphs  int         `json:"graphs"`
	Results []ResultRow `json:"results"`
}

// GetResultInput is the input for the get_result MCP tool.
type GetResultInput struct {
	Graph  string `json:"graph" jsonschema:"graph name, e.g. path/to/file.py:func"`
	Metric string `json:"metric" jsonschema:"metric name: Cyclomatic Complexity, NPath Complexity, Path Complexity, Lines of Code"`
}

// GetResultOutput is the result of the get_result MCP tool.
type GetResultOutput struct {
	Result ResultRow `json:"result"`
}

// ListResultsInput is the input for the list_results MCP tool.
type ListResultsInput struct{}

// ListResultsOutput is the result of the list_results MCP tool.
type ListResultsOutput struct {
	Results []ResultRow `json:"results"`
	Total   int         `json:"total"`
}

// PathComplexityInput is the input for the path_complexity MCP tool.
// The graph is given inline as an edge list over integer node ids.
type PathComplexityInput struct {
	Edges     [][2]int    `json:"edges" jsonschema:"directed edges as [source, target] pairs of integer node ids"`
	Entry     int         `json:"entry,omitempty" jsonschema:"entry node id (default: 0)"`
	Recursion map[int]int `json:"recursion,omitempty" jsonschema:"node id -> number of recursive self-invocations at that node"`
}

// PathComplexityOutput is the result of the path_complexity MCP tool.
type PathComplexityOutput struct {
	Class      string     `json:"class"`
	ClosedForm string     `json:"closedForm"`
	GF         string     `json:"generatingFunction"`
	Vector     [5]float64 `json:"vector"`
}

// ResultRow is the JSON rendering of one stored metric record.
type ResultRow struct {
	Graph     string      `json:"graph"`
	Metric    string      `json:"metric"`
	Value     string      `json:"value,omitempty"`
	Sentinel  string      `json:"sentinel,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	ElapsedMS float64     `json:"elapsedMs"`
	Vector    *[5]float64 `json:"vector,omitempty"`
}
