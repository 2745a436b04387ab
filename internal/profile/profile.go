package profile

import (
	"errors"
	"fmt"
)

// ErrProfileIncomplete is returned by Project when a mandatory field is
// missing from the raw profile. Callers ranking a batch should skip the
// offending candidate; callers scoring a single pair may hard-fail.
var ErrProfileIncomplete = errors.New("profile incomplete")

// TargetLanguage is one language a user is learning, with CEFR levels.
type TargetLanguage struct {
	Code         string
	CurrentLevel string
	TargetLevel  string
}

// Raw is a profile as assembled from the relational store: the base row
// plus its language, goal, interest, and personality join rows. Any field
// except ID and NativeLanguage may be absent.
type Raw struct {
	ID             string
	NativeLanguage string
	Bio            string
	ScheduleTag    string
	Languages      []TargetLanguage
	Goals          []string
	Interests      []string
	Personalities  []string
}

// Profile is the normalized shape the scoring pipeline operates on.
// It is immutable for the duration of one scoring call; tag slices are
// deduplicated and sorted, target languages keep their stored order.
type Profile struct {
	ID              string
	NativeLanguage  string
	Bio             string
	ScheduleTag     string
	TargetLanguages []TargetLanguage
	StudyGoals      []string
	Interests       []string
	Personalities   []string

	// learns indexes TargetLanguages by code for O(1) membership checks.
	learns map[string]TargetLanguage
}

// Learns reports whether the profile is learning the given language and
// returns its target-language entry if so.
func (p Profile) Learns(code string) (TargetLanguage, bool) {
	tl, ok := p.learns[code]
	return tl, ok
}

// Project validates and normalizes a raw profile. Missing optional fields
// default to empty sets and an empty schedule tag; a missing ID or native
// language yields ErrProfileIncomplete.
func Project(raw Raw) (Profile, error) {
	if raw.ID == "" {
		return Profile{}, fmt.Errorf("%w: missing user id", ErrProfileIncomplete)
	}
	if raw.NativeLanguage == "" {
		return Profile{}, fmt.Errorf("%w: missing native language for %s", ErrProfileIncomplete, raw.ID)
	}

	p := Profile{
		ID:             raw.ID,
		NativeLanguage: raw.NativeLanguage,
		Bio:            raw.Bio,
		ScheduleTag:    raw.ScheduleTag,
		StudyGoals:     dedupe(raw.Goals),
		Interests:      dedupe(raw.Interests),
		Personalities:  dedupe(raw.Personalities),
	}

	p.learns = make(map[string]TargetLanguage, len(raw.Languages))
	for _, tl := range raw.Languages {
		if tl.Code == "" {
			continue
		}
		if _, seen := p.learns[tl.Code]; seen {
			continue
		}
		if _, ok := LevelOrdinal(tl.CurrentLevel); !ok {
			return Profile{}, fmt.Errorf("%w: invalid level %q for language %s of %s",
				ErrProfileIncomplete, tl.CurrentLevel, tl.Code, raw.ID)
		}
		if tl.TargetLevel != "" {
			if _, ok := LevelOrdinal(tl.TargetLevel); !ok {
				return Profile{}, fmt.Errorf("%w: invalid target level %q for language %s of %s",
					ErrProfileIncomplete, tl.TargetLevel, tl.Code, raw.ID)
			}
		}
		p.learns[tl.Code] = tl
		p.TargetLanguages = append(p.TargetLanguages, tl)
	}

	return p, nil
}
