package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tandemly/tandem/internal/matching"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func printStatus(label string, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", colorize(colorBold, label+":"), fmt.Sprintf(format, args...))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+fmt.Sprintf(format, args...)))
}

// printMatches renders a ranked result set as a compact table followed
// by the explanation lines for each match.
func printMatches(userID string, matches []matching.MatchScore) {
	if len(matches) == 0 {
		fmt.Printf("no matches for %s\n", userID)
		return
	}

	fmt.Printf("top %d matches for %s\n\n", len(matches), userID)
	fmt.Printf("%-4s %-24s %7s  %s\n", "#", "candidate", "score", "breakdown (lang/lvl/sem/sched/goal/pers/top)")
	for i, m := range matches {
		b := m.Breakdown
		fmt.Printf("%-4d %-24s %7d  %d/%d/%d/%d/%d/%d/%d\n",
			i+1, m.CandidateID, m.OverallScore,
			b.Language, b.Level, b.Semantic, b.Schedule, b.Goals, b.Personality, b.Topics)
	}

	for _, m := range matches {
		fmt.Printf("\n%s\n", colorize(colorBold, m.CandidateID))
		for _, reason := range m.AIReasons {
			fmt.Printf("  - %s\n", reason)
		}
		if len(m.SuggestedTopics) > 0 {
			fmt.Printf("  talk about: %s\n", strings.Join(m.SuggestedTopics, "; "))
		}
		if m.Insight != "" {
			fmt.Printf("  %s\n", m.Insight)
		}
	}
}
