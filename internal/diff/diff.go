package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// longLine is the length above which a line is split further. Minified
// bundles are usually a handful of very long lines.
const longLine = 200

// Unified renders a unified diff between before and after.
func Unified(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  1,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// splitLines splits on newlines and breaks long lines after ';' and ','.
// Every returned element ends with a newline so the diff stays readable.
func splitLines(s string) []string {
	var out []string
	for _, line := range difflib.SplitLines(s) {
		if len(line) <= longLine {
			out = append(out, line)
			continue
		}
		out = append(out, splitStatements(line)...)
	}
	return out
}

func splitStatements(line string) []string {
	var out []string
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == ';' || line[i] == ',' {
			out = append(out, line[start:i+1]+"\n")
			start = i + 1
		}
	}
	if rest := strings.TrimSuffix(line[start:], "\n"); rest != "" {
		out = append(out, rest+"\n")
	}
	return out
}
