package lang

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// exitMark is the placeholder edge target for the function exit node,
// renumbered to the final id once the body has been walked.
const exitMark = -1

// cfgBuilder accumulates edges while walking one function body.
// Straight-line statements collapse into the current node; branches,
// loops, and returns introduce structure. Loops are flattened: the body
// is entered at most once and a zero-iteration edge bypasses it, so the
// resulting graph is acyclic.
type cfgBuilder struct {
	spec      *langSpec
	source    []byte
	fnName    string
	next      int
	edges     [][2]int
	recursion map[int]int
}

func newCFGBuilder(spec *langSpec, source []byte, fnName string) *cfgBuilder {
	return &cfgBuilder{
		spec:      spec,
		source:    source,
		fnName:    fnName,
		recursion: map[int]int{},
	}
}

func (b *cfgBuilder) alloc() int {
	id := b.next
	b.next++
	return id
}

func (b *cfgBuilder) edge(from, to int) {
	b.edges = append(b.edges, [2]int{from, to})
}

// build walks the body and produces the finished graph. The exit node
// receives the highest id so ids read in rough source order.
func (b *cfgBuilder) build(body *tree_sitter.Node) *cfg.Graph {
	entry := b.alloc()
	cur, cont := b.block(body, entry)
	if cont {
		b.edge(cur, exitMark)
	}

	exit := b.alloc()
	for i := range b.edges {
		if b.edges[i][1] == exitMark {
			b.edges[i][1] = exit
		}
	}
	return cfg.New("", cfg.LangUnknown, entry, b.edges, b.recursion)
}

// block processes a statement sequence starting at node cur. It returns
// the node where control flow ends up and whether flow continues past
// the sequence (false once a return is seen).
func (b *cfgBuilder) block(node *tree_sitter.Node, cur int) (int, bool) {
	if node == nil {
		return cur, true
	}
	if !b.spec.blockKinds[node.Kind()] {
		return b.statement(node, cur)
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		stmt := node.NamedChild(i)
		if stmt == nil {
			continue
		}
		var cont bool
		cur, cont = b.statement(stmt, cur)
		if !cont {
			return cur, false
		}
	}
	return cur, true
}

// statement processes a single statement.
func (b *cfgBuilder) statement(stmt *tree_sitter.Node, cur int) (int, bool) {
	kind := stmt.Kind()
	switch {
	case b.spec.functionKinds[kind]:
		// Nested definition: collected separately, no flow here.
		return cur, true
	case kind == b.spec.ifKind:
		return b.ifStatement(stmt, cur)
	case b.spec.loopKinds[kind]:
		return b.loop(stmt, cur)
	case kind == b.spec.returnKind:
		b.countCalls(cur, stmt)
		b.edge(cur, exitMark)
		return cur, false
	default:
		b.countCalls(cur, stmt)
		return cur, true
	}
}

// ifStatement lowers a conditional. Each alternative (elif clauses and
// the else branch) forks from the condition node; a fallthrough edge is
// added only when no else branch exists. Branches that all return leave
// no merge node behind.
func (b *cfgBuilder) ifStatement(stmt *tree_sitter.Node, cur int) (int, bool) {
	b.countCalls(cur, stmt.ChildByFieldName("condition"))

	var exits []int
	thenEntry := b.alloc()
	b.edge(cur, thenEntry)
	if exit, cont := b.block(stmt.ChildByFieldName("consequence"), thenEntry); cont {
		exits = append(exits, exit)
	}

	hasElse := false
	cursor := stmt.Walk()
	alts := stmt.ChildrenByFieldName("alternative", cursor)
	cursor.Close()
	for i := range alts {
		alt := &alts[i]
		entry := b.alloc()
		b.edge(cur, entry)

		switch alt.Kind() {
		case "elif_clause", "else_if_clause":
			b.countCalls(entry, alt.ChildByFieldName("condition"))
			if exit, cont := b.block(alt.ChildByFieldName("consequence"), entry); cont {
				exits = append(exits, exit)
			}
		case "else_clause":
			hasElse = true
			body := alt.ChildByFieldName("body")
			if body == nil && alt.NamedChildCount() > 0 {
				body = alt.NamedChild(0)
			}
			if exit, cont := b.block(body, entry); cont {
				exits = append(exits, exit)
			}
		default:
			// Go-style alternative: a block or a chained if statement.
			hasElse = true
			if exit, cont := b.block(alt, entry); cont {
				exits = append(exits, exit)
			}
		}
	}

	if !hasElse {
		exits = append(exits, cur)
	}
	if len(exits) == 0 {
		return cur, false
	}
	merge := b.alloc()
	for _, e := range exits {
		b.edge(e, merge)
	}
	return merge, true
}

// loop lowers a loop into a branch: one edge enters the body, one
// bypasses it for the zero-iteration case. Back edges are never emitted.
func (b *cfgBuilder) loop(stmt *tree_sitter.Node, cur int) (int, bool) {
	b.countCalls(cur, stmt.ChildByFieldName("condition"))

	merge := b.alloc()
	bodyEntry := b.alloc()
	b.edge(cur, bodyEntry)
	if exit, cont := b.block(stmt.ChildByFieldName("body"), bodyEntry); cont {
		b.edge(exit, merge)
	}
	b.edge(cur, merge)
	return merge, true
}

// countCalls walks a subtree and adds every self-call it finds to the
// recursion multiplicity of node. Nested function definitions are
// skipped; their calls belong to their own graphs.
func (b *cfgBuilder) countCalls(node int, root *tree_sitter.Node) {
	if root == nil {
		return
	}
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if b.spec.functionKinds[n.Kind()] {
			return
		}
		if n.Kind() == b.spec.callKind {
			if fn := n.ChildByFieldName("function"); fn != nil {
				if matchesSelfCall(fn.Utf8Text(b.source), b.fnName) {
					b.recursion[node]++
				}
			}
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if child := n.NamedChild(i); child != nil {
				walk(child)
			}
		}
	}
	walk(root)
}
