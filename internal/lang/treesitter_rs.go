package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

func rsSpec() *langSpec {
	return &langSpec{
		grammar: tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		functionKinds: map[string]bool{
			"function_item":      true,
			"closure_expression": true,
		},
		blockKinds: map[string]bool{"block": true},
		loopKinds: map[string]bool{
			"for_expression":   true,
			"while_expression": true,
			"loop_expression":  true,
		},
		ifKind:     "if_expression",
		returnKind: "return_expression",
		callKind:   "call_expression",
	}
}
