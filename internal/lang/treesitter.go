// Package lang converts source files into control-flow graphs using
// tree-sitter grammars. One graph is produced per function definition,
// with branch and loop structure flattened into an acyclic graph,
// recursion recorded as per-node call multiplicities, and the source
// line span recorded as LOC metadata.
package lang

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// langSpec describes the grammar node kinds one language uses for the
// control constructs the CFG builder recognizes.
type langSpec struct {
	grammar *tree_sitter.Language

	// functionKinds declare a named function or method.
	functionKinds map[string]bool

	// blockKinds wrap statement sequences.
	blockKinds map[string]bool

	// loopKinds are flattened into a branch over the loop body.
	loopKinds map[string]bool

	ifKind     string
	returnKind string
	callKind   string
}

// Converter parses source files and builds one CFG per function.
// A new tree-sitter parser is created per Convert call, so this type is
// safe for sequential use but individual Convert calls are not
// thread-safe.
type Converter struct {
	specs map[cfg.Language]*langSpec
}

// NewConverter creates a Converter with Go, Python, Rust, and
// TypeScript grammars registered.
func NewConverter() *Converter {
	return &Converter{
		specs: map[cfg.Language]*langSpec{
			cfg.LangGo:         goSpec(),
			cfg.LangPython:     pySpec(),
			cfg.LangRust:       rsSpec(),
			cfg.LangTypeScript: tsSpec(),
		},
	}
}

// SupportedLanguages returns the languages this converter can handle.
func (c *Converter) SupportedLanguages() []cfg.Language {
	langs := make([]cfg.Language, 0, len(c.specs))
	for l := range c.specs {
		langs = append(langs, l)
	}
	return langs
}

// DetectLanguage maps a file extension to a language.
func DetectLanguage(path string) cfg.Language {
	switch filepath.Ext(path) {
	case ".go":
		return cfg.LangGo
	case ".py":
		return cfg.LangPython
	case ".rs":
		return cfg.LangRust
	case ".ts", ".tsx":
		return cfg.LangTypeScript
	}
	return cfg.LangUnknown
}

// Convert parses source and returns one graph per function definition,
// in source order. Graph names are "path:function".
func (c *Converter) Convert(ctx context.Context, path string, source []byte, lang cfg.Language) ([]*cfg.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec, ok := c.specs[lang]
	if !ok {
		return nil, fmt.Errorf("lang: unsupported language: %s", lang)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(spec.grammar); err != nil {
		return nil, fmt.Errorf("lang: set language %s: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("lang: tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	var graphs []*cfg.Graph
	collectFunctions(tree.RootNode(), func(fn *tree_sitter.Node) {
		g := buildFunctionGraph(spec, source, path, fn, lang)
		if g != nil {
			graphs = append(graphs, g)
		}
	}, spec)
	return graphs, nil
}

// collectFunctions walks the tree and invokes visit for every function
// definition node, including nested ones.
func collectFunctions(root *tree_sitter.Node, visit func(*tree_sitter.Node), spec *langSpec) {
	cursor := root.Walk()
	defer cursor.Close()

	var walk func()
	walk = func() {
		node := cursor.Node()
		if spec.functionKinds[node.Kind()] {
			visit(node)
		}
		if cursor.GotoFirstChild() {
			walk()
			for cursor.GotoNextSibling() {
				walk()
			}
			cursor.GotoParent()
		}
	}
	walk()
}

// buildFunctionGraph turns one function definition into a CFG. Returns
// nil for nameless or bodyless definitions.
func buildFunctionGraph(spec *langSpec, source []byte, path string, fn *tree_sitter.Node, lang cfg.Language) *cfg.Graph {
	nameNode := fn.ChildByFieldName("name")
	body := fn.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return nil
	}
	name := nameNode.Utf8Text(source)

	b := newCFGBuilder(spec, source, name)
	g := b.build(body)
	g.Name = path + ":" + name
	g.Language = lang
	g.LOC = int(fn.EndPosition().Row-fn.StartPosition().Row) + 1
	return g
}

// matchesSelfCall reports whether a callee expression refers to the
// enclosing function, directly or through a receiver.
func matchesSelfCall(callee, fnName string) bool {
	return callee == fnName || strings.HasSuffix(callee, "."+fnName)
}
