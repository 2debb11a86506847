package cfg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ParseDot reads a dot-style edge listing and builds a Graph. Each line
// contributes an edge when it contains two runs of digits (source then
// target); all other lines are ignored. The entry node is the source of the
// first edge. recursion may be nil for non-recursive procedures.
func ParseDot(r io.Reader, name string, recursion map[int]int) (*Graph, error) {
	var edges [][2]int

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if src, dst, ok := scanEdge(scanner.Text()); ok {
			edges = append(edges, [2]int{src, dst})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("dot file %s: %w", name, ErrEmptyGraph)
	}

	g := New(name, LangUnknown, edges[0][0], edges, recursion)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseDotFile loads a .dot file from disk. The graph name is the file's
// base name without extension.
func ParseDotFile(path string, recursion map[int]int) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dot file: %w", err)
	}
	defer f.Close()

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return ParseDot(f, name, recursion)
}

// scanEdge extracts the first two integers on a line. Lines with fewer than
// two digit runs carry no edge (headers, braces, attribute lines).
func scanEdge(line string) (src, dst int, ok bool) {
	var nums []int
	cur, inNum := 0, false
	for _, ch := range line {
		if ch >= '0' && ch <= '9' {
			cur = cur*10 + int(ch-'0')
			inNum = true
			continue
		}
		if inNum {
			nums = append(nums, cur)
			cur, inNum = 0, false
			if len(nums) == 2 {
				break
			}
		}
	}
	if inNum && len(nums) < 2 {
		nums = append(nums, cur)
	}
	if len(nums) < 2 {
		return 0, 0, false
	}
	return nums[0], nums[1], true
}
