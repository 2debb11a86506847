package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

func pySpec() *langSpec {
	return &langSpec{
		grammar: tree_sitter.NewLanguage(tree_sitter_python.Language()),
		functionKinds: map[string]bool{
			"function_definition": true,
			"lambda":              true,
		},
		blockKinds: map[string]bool{"block": true},
		loopKinds: map[string]bool{
			"for_statement":   true,
			"while_statement": true,
		},
		ifKind:     "if_statement",
		returnKind: "return_statement",
		callKind:   "call",
	}
}
