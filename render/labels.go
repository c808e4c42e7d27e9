package render

import (
	"unicode/utf8"

	"github.com/warp/timesheet/generic"
)

// MaxLabelLength is the longest action the printed form fits on one line.
const MaxLabelLength = 25

// OverflowingLabels returns the distinct labels of worked entries longer
// than MaxLabelLength, in order of first appearance.
func OverflowingLabels(s *generic.Schedule) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.Entries {
		if !e.Source.IsWork() || seen[e.Label] {
			continue
		}
		seen[e.Label] = true
		if utf8.RuneCountInString(e.Label) > MaxLabelLength {
			out = append(out, e.Label)
		}
	}
	return out
}
