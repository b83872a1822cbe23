package style

import (
	"strings"
)

// RenderDiff renders a line-based diff between the current destination
// content and the newly rendered content, for the overwrite confirm
// step. Unchanged lines are muted, removals and additions colored.
func RenderDiff(old, new string) string {
	oldLines := splitLines(old)
	newLines := splitLines(new)

	var b strings.Builder
	for _, op := range diffLines(oldLines, newLines) {
		switch op.kind {
		case diffRemove:
			b.WriteString(RemovedStyle.Render("- "+op.line) + "\n")
		case diffAdd:
			b.WriteString(AddedStyle.Render("+ "+op.line) + "\n")
		default:
			b.WriteString(MutedStyle.Render("  "+op.line) + "\n")
		}
	}
	return b.String()
}

type diffKind int

const (
	diffSame diffKind = iota
	diffRemove
	diffAdd
)

type diffOp struct {
	kind diffKind
	line string
}

// diffLines computes a minimal line diff via the classic LCS table.
// Config files are small; the quadratic table is fine here.
func diffLines(oldLines, newLines []string) []diffOp {
	m, n := len(oldLines), len(newLines)
	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []diffOp
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case oldLines[i] == newLines[j]:
			ops = append(ops, diffOp{diffSame, oldLines[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, diffOp{diffRemove, oldLines[i]})
			i++
		default:
			ops = append(ops, diffOp{diffAdd, newLines[j]})
			j++
		}
	}
	for ; i < m; i++ {
		ops = append(ops, diffOp{diffRemove, oldLines[i]})
	}
	for ; j < n; j++ {
		ops = append(ops, diffOp{diffAdd, newLines[j]})
	}
	return ops
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
