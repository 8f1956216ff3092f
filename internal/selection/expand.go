package selection

import (
	"path"
	"strings"
)

// Per-path expansion limits.
const (
	maxSiblings        = 3
	maxGrandparentCode = 2
)

// Expand grows a scored selection with nearby files so the model sees
// cross-file context: for each selected path, up to maxSiblings files
// from the same directory, and for paths nested more than one level
// deep, up to maxGrandparentCode code files from the grandparent
// directory. The input selection is always a subset of the output, no
// path appears twice, and insertion order determines the final ordering.
func Expand(selected, tree []string) []string {
	have := make(map[string]struct{}, len(selected))
	out := make([]string, 0, len(selected))
	for _, p := range selected {
		if _, ok := have[p]; ok {
			continue
		}
		have[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range selected {
		dir := path.Dir(p)

		added := 0
		for _, candidate := range tree {
			if added == maxSiblings {
				break
			}
			if path.Dir(candidate) != dir {
				continue
			}
			if _, ok := have[candidate]; ok {
				continue
			}
			have[candidate] = struct{}{}
			out = append(out, candidate)
			added++
		}

		// More than one level deep: pull a couple of code files from the
		// grandparent directory as well.
		if strings.Count(p, "/") > 1 {
			grandparent := path.Dir(dir)
			added = 0
			for _, candidate := range tree {
				if added == maxGrandparentCode {
					break
				}
				if path.Dir(candidate) != grandparent || !IsCodeFile(candidate) {
					continue
				}
				if _, ok := have[candidate]; ok {
					continue
				}
				have[candidate] = struct{}{}
				out = append(out, candidate)
				added++
			}
		}
	}

	return out
}
