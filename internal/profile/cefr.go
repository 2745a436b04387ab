package profile

import "sort"

// cefrLevels maps each CEFR level to its position on the six-point
// ordinal scale (A1=0 .. C2=5).
var cefrLevels = map[string]int{
	"A1": 0,
	"A2": 1,
	"B1": 2,
	"B2": 3,
	"C1": 4,
	"C2": 5,
}

// LevelOrdinal returns the ordinal position of a CEFR level code.
// ok is false for anything outside A1..C2.
func LevelOrdinal(level string) (int, bool) {
	n, ok := cefrLevels[level]
	return n, ok
}

// dedupe returns a sorted copy of tags with duplicates and empty strings
// removed. Sorting keeps downstream output (summaries, prompts)
// deterministic regardless of row order in the store.
func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
