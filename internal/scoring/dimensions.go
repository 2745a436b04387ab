// Package scoring holds the deterministic half of the compatibility
// engine: seven-dimension score computation and weighted aggregation.
// Every scorer here is a pure function over two normalized profiles and
// returns an integer in [0,100]. When a dimension has no information to
// judge (empty tag sets, no shared language, no schedule), the neutral
// value 50 is returned so that missing data neither helps nor hurts a
// match.
package scoring

import (
	"github.com/tandemly/tandem/internal/profile"
)

// Neutral is the score used when a dimension has insufficient data.
const Neutral = 50

// Breakdown carries the per-dimension scores of one user×candidate pair.
type Breakdown struct {
	Language    int `json:"language"`
	Level       int `json:"level"`
	Semantic    int `json:"semantic"`
	Schedule    int `json:"schedule"`
	Goals       int `json:"goals"`
	Personality int `json:"personality"`
	Topics      int `json:"topics"`
}

// LanguageScore rates the language-exchange fit of a pair.
//
// 100 when each side's native language is among the other's learning
// targets (mutual exchange), 60 when only one direction holds. The
// one-directional case is intentionally asymmetric: the score reflects
// what the pair offers as seen from this orientation of (user,
// candidate), and only the mutual case is guaranteed symmetric. 40 when
// neither holds but the two learning-target sets intersect (co-learners
// can still practice together), 0 otherwise.
func LanguageScore(user, candidate profile.Profile) int {
	_, userHelps := candidate.Learns(user.NativeLanguage)
	_, candidateHelps := user.Learns(candidate.NativeLanguage)

	switch {
	case userHelps && candidateHelps:
		return 100
	case userHelps || candidateHelps:
		return 60
	}

	for _, tl := range user.TargetLanguages {
		if _, ok := candidate.Learns(tl.Code); ok {
			return 40
		}
	}
	return 0
}

// LevelScore rates proficiency closeness. Comparable pairs are every
// language both sides are learning, plus the exchange cross pair when
// the pair is a mutual exchange: the user's level in the candidate's
// native language against the candidate's level in the user's. Each
// pair scores max(0, 100 - 20*diff) where diff is the absolute CEFR
// ordinal distance, then the pair scores are averaged. Symmetric by
// construction. Returns Neutral when no comparable pair exists.
func LevelScore(user, candidate profile.Profile) int {
	var total, pairs int
	compare := func(userLevel, candLevel string) {
		uo, uok := profile.LevelOrdinal(userLevel)
		co, cok := profile.LevelOrdinal(candLevel)
		if !uok || !cok {
			return
		}
		diff := uo - co
		if diff < 0 {
			diff = -diff
		}
		score := 100 - 20*diff
		if score < 0 {
			score = 0
		}
		total += score
		pairs++
	}

	for _, utl := range user.TargetLanguages {
		if ctl, ok := candidate.Learns(utl.Code); ok {
			compare(utl.CurrentLevel, ctl.CurrentLevel)
		}
	}

	// Mutual exchange: each side is learning the other's native
	// language, so those two levels are comparable even though the
	// language codes differ.
	if utl, ok := user.Learns(candidate.NativeLanguage); ok {
		if ctl, ok := candidate.Learns(user.NativeLanguage); ok {
			compare(utl.CurrentLevel, ctl.CurrentLevel)
		}
	}

	if pairs == 0 {
		return Neutral
	}
	return total / pairs
}

// ScheduleScore compares opaque availability tags. Tags are
// equality-comparable only; no interval semantics are implied.
func ScheduleScore(user, candidate profile.Profile) int {
	u, c := user.ScheduleTag, candidate.ScheduleTag
	switch {
	case u != "" && c != "":
		if u == c {
			return 100
		}
		return 60
	case u != "" || c != "":
		return 30
	default:
		return Neutral
	}
}

// GoalScore rates study-goal alignment via tag overlap.
func GoalScore(user, candidate profile.Profile) int {
	return overlapScore(user.StudyGoals, candidate.StudyGoals)
}

// PersonalityScore rates personality-trait overlap.
func PersonalityScore(user, candidate profile.Profile) int {
	return overlapScore(user.Personalities, candidate.Personalities)
}

// TopicScore rates shared-interest overlap.
func TopicScore(user, candidate profile.Profile) int {
	return overlapScore(user.Interests, candidate.Interests)
}

// overlapScore is |a ∩ b| / max(|a|,|b|) scaled to [0,100], or Neutral
// when either set is empty. Dividing by the larger set rather than the
// union keeps a strict-subset pair from scoring a perfect 100.
func overlapScore(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return Neutral
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	var shared int
	for _, t := range b {
		if _, ok := set[t]; ok {
			shared++
		}
	}
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return shared * 100 / larger
}
