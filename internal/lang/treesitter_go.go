package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

func goSpec() *langSpec {
	return &langSpec{
		grammar: tree_sitter.NewLanguage(tree_sitter_go.Language()),
		functionKinds: map[string]bool{
			"function_declaration": true,
			"method_declaration":   true,
			"func_literal":         true,
		},
		blockKinds: map[string]bool{"block": true},
		loopKinds:  map[string]bool{"for_statement": true},
		ifKind:     "if_statement",
		returnKind: "return_statement",
		callKind:   "call_expression",
	}
}
