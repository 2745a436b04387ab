package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxSummaryChars caps the summary fed to the embedding model. The cap
// keeps embed latency flat for users with very long bios.
const maxSummaryChars = 2000

// Summary renders the profile as a compact text block for embedding.
//
// Section order is fixed (native language, target languages with levels,
// study goals, interests, personalities, bio) and tag sets are sorted at
// projection time, so the same profile always produces the same text and
// therefore the same embedding vector.
func (p Profile) Summary() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Native speaker of %s.", p.NativeLanguage))

	if len(p.TargetLanguages) > 0 {
		var langs []string
		for _, tl := range p.TargetLanguages {
			if tl.TargetLevel != "" {
				langs = append(langs, fmt.Sprintf("%s (%s, aiming for %s)", tl.Code, tl.CurrentLevel, tl.TargetLevel))
			} else {
				langs = append(langs, fmt.Sprintf("%s (%s)", tl.Code, tl.CurrentLevel))
			}
		}
		parts = append(parts, fmt.Sprintf("Learning: %s.", strings.Join(langs, ", ")))
	}

	if len(p.StudyGoals) > 0 {
		parts = append(parts, fmt.Sprintf("Goals: %s.", strings.Join(p.StudyGoals, ", ")))
	}
	if len(p.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("Interests: %s.", strings.Join(p.Interests, ", ")))
	}
	if len(p.Personalities) > 0 {
		parts = append(parts, fmt.Sprintf("Personality: %s.", strings.Join(p.Personalities, ", ")))
	}
	if p.Bio != "" {
		parts = append(parts, p.Bio)
	}

	summary := strings.Join(parts, " ")
	if len(summary) > maxSummaryChars {
		// Don't split a multi-byte UTF-8 character.
		end := maxSummaryChars
		for end > 0 && !utf8.RuneStart(summary[end]) {
			end--
		}
		if idx := strings.LastIndex(summary[:end], " "); idx > 0 {
			summary = summary[:idx]
		} else {
			summary = summary[:end]
		}
	}
	return summary
}
