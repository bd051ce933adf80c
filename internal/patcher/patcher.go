package patcher

import (
	"strings"

	"github.com/sokinpui/routepatch/model"
)

// Apply runs every replacement against content in order. Each one sees the
// output of the previous one, and a replacement whose target is absent is
// recorded as not found rather than skipped silently.
func Apply(content string, reps []model.Replacement) (string, []model.Step) {
	steps := make([]model.Step, 0, len(reps))
	for _, rep := range reps {
		step := model.Step{Target: rep.Target, Replacement: rep.Replacement}
		if rep.Target != "" {
			if n := strings.Count(content, rep.Target); n > 0 {
				content = strings.ReplaceAll(content, rep.Target, rep.Replacement)
				step.Found = true
				step.Count = n
			}
		}
		steps = append(steps, step)
	}
	return content, steps
}

// Changed reports whether any step replaced something.
func Changed(steps []model.Step) bool {
	for _, s := range steps {
		if s.Found {
			return true
		}
	}
	return false
}

// Pending returns the replacements whose targets still occur in content.
func Pending(content string, reps []model.Replacement) []model.Replacement {
	var out []model.Replacement
	for _, rep := range reps {
		if rep.Target != "" && strings.Contains(content, rep.Target) {
			out = append(out, rep)
		}
	}
	return out
}
