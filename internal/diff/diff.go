// Package diff renders line-level differences between a deployed file and
// its freshly generated counterpart, backing drift reporting in status.
package diff

import (
	"fmt"
	"strings"
)

// Op is a single edit operation kind.
type Op int

const (
	// OpEqual means the line is unchanged.
	OpEqual Op = iota
	// OpInsert means a line exists only in the new content.
	OpInsert
	// OpDelete means a line exists only in the old content.
	OpDelete
)

// Edit is one line-level operation of an edit script.
type Edit struct {
	Op   Op
	Text string
}

// Lines computes a minimal edit script turning a into b, using an
// LCS-based diff.
func Lines(a, b []string) []Edit {
	m, n := len(a), len(b)
	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			switch {
			case a[i-1] == b[j-1]:
				lcs[i][j] = lcs[i-1][j-1] + 1
			case lcs[i-1][j] >= lcs[i][j-1]:
				lcs[i][j] = lcs[i-1][j]
			default:
				lcs[i][j] = lcs[i][j-1]
			}
		}
	}

	var reversed []Edit
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			reversed = append(reversed, Edit{Op: OpEqual, Text: a[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || lcs[i][j-1] >= lcs[i-1][j]):
			reversed = append(reversed, Edit{Op: OpInsert, Text: b[j-1]})
			j--
		default:
			reversed = append(reversed, Edit{Op: OpDelete, Text: a[i-1]})
			i--
		}
	}

	edits := make([]Edit, len(reversed))
	for k, e := range reversed {
		edits[len(reversed)-1-k] = e
	}
	return edits
}

// Unified renders a unified diff between old and new content. Returns the
// empty string when the contents are identical. The output carries the
// full edit script in one hunk; drift reports are small enough that
// context trimming buys nothing.
func Unified(name string, oldContent, newContent []byte) string {
	a := splitLines(string(oldContent))
	b := splitLines(string(newContent))

	edits := Lines(a, b)
	changed := false
	for _, e := range edits {
		if e.Op != OpEqual {
			changed = true
			break
		}
	}
	if !changed {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n", name)
	fmt.Fprintf(&sb, "+++ b/%s\n", name)
	fmt.Fprintf(&sb, "@@ -1,%d +1,%d @@\n", len(a), len(b))
	for _, e := range edits {
		switch e.Op {
		case OpEqual:
			sb.WriteString(" " + e.Text + "\n")
		case OpDelete:
			sb.WriteString("-" + e.Text + "\n")
		case OpInsert:
			sb.WriteString("+" + e.Text + "\n")
		}
	}
	return sb.String()
}

// splitLines splits content into lines without a trailing empty element
// for a final newline.
func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
