package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func tsSpec() *langSpec {
	return &langSpec{
		grammar: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		functionKinds: map[string]bool{
			"function_declaration":           true,
			"generator_function_declaration": true,
			"method_definition":              true,
			"function_expression":            true,
			"arrow_function":                 true,
		},
		blockKinds: map[string]bool{"statement_block": true},
		loopKinds: map[string]bool{
			"for_statement":    true,
			"for_in_statement": true,
			"while_statement":  true,
			"do_statement":     true,
		},
		ifKind:     "if_statement",
		returnKind: "return_statement",
		callKind:   "call_expression",
	}
}
