package export

import (
	"fmt"
	"strings"

	"github.com/Eli-Pregerson/qDat/internal/cfg"
)

// GenerateMermaid produces a Mermaid graph TD diagram of a control-flow
// graph. The entry node is double-circled, terminal nodes are stadium
// shaped, and recursive call sites carry a dashed self-edge labeled with
// the call multiplicity.
func GenerateMermaid(g *cfg.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, n := range g.Nodes {
		switch {
		case n == g.Entry:
			sb.WriteString(fmt.Sprintf("  N%d(((%d)))\n", n, n))
		case g.Terminal(n):
			sb.WriteString(fmt.Sprintf("  N%d([%d])\n", n, n))
		default:
			sb.WriteString(fmt.Sprintf("  N%d[%d]\n", n, n))
		}
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("  N%d --> N%d\n", e[0], e[1]))
	}

	for _, n := range g.Nodes {
		if k := g.RecursionAt(n); k > 0 {
			sb.WriteString(fmt.Sprintf("  N%d -. \"call x%d\" .-> N%d\n", n, k, n))
		}
	}

	return sb.String()
}
