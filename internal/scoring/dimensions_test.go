package scoring

import (
	"testing"

	"github.com/tandemly/tandem/internal/profile"
)

// mustProfile builds a normalized profile or fails the test.
func mustProfile(t *testing.T, raw profile.Raw) profile.Profile {
	t.Helper()
	p, err := profile.Project(raw)
	if err != nil {
		t.Fatalf("Project(%s): %v", raw.ID, err)
	}
	return p
}

func learner(t *testing.T, id, native string, targets ...profile.TargetLanguage) profile.Profile {
	t.Helper()
	return mustProfile(t, profile.Raw{ID: id, NativeLanguage: native, Languages: targets})
}

func TestLanguageScore(t *testing.T) {
	en2ko := learner(t, "u1", "en", profile.TargetLanguage{Code: "ko", CurrentLevel: "B1"})
	ko2en := learner(t, "u2", "ko", profile.TargetLanguage{Code: "en", CurrentLevel: "B1"})
	fr2ko := learner(t, "u3", "fr", profile.TargetLanguage{Code: "ko", CurrentLevel: "A2"})
	de2es := learner(t, "u4", "de", profile.TargetLanguage{Code: "es", CurrentLevel: "A1"})
	ko2fr := learner(t, "u5", "ko", profile.TargetLanguage{Code: "fr", CurrentLevel: "B2"})

	tests := []struct {
		name  string
		user  profile.Profile
		cand  profile.Profile
		want  int
	}{
		{"mutual exchange", en2ko, ko2en, 100},
		{"one-directional: candidate helps user", en2ko, ko2fr, 60},
		{"co-learners of ko", en2ko, fr2ko, 40},
		{"no overlap at all", en2ko, de2es, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LanguageScore(tt.user, tt.cand); got != tt.want {
				t.Errorf("LanguageScore = %d, want %d", got, tt.want)
			}
		})
	}
}

// The mutual case is symmetric; the one-directional case is not
// required to be. Both halves of that contract are pinned here.
func TestLanguageScore_Symmetry(t *testing.T) {
	a := learner(t, "a", "en", profile.TargetLanguage{Code: "ko", CurrentLevel: "B1"})
	b := learner(t, "b", "ko", profile.TargetLanguage{Code: "en", CurrentLevel: "B2"})
	if LanguageScore(a, b) != 100 || LanguageScore(b, a) != 100 {
		t.Errorf("mutual exchange must be symmetric at 100: got %d and %d",
			LanguageScore(a, b), LanguageScore(b, a))
	}

	// c's native is among d's targets, but not vice versa.
	c := learner(t, "c", "ko", profile.TargetLanguage{Code: "fr", CurrentLevel: "A1"})
	d := learner(t, "d", "es", profile.TargetLanguage{Code: "ko", CurrentLevel: "A1"})
	if got, rev := LanguageScore(c, d), LanguageScore(d, c); got != 60 || rev != 60 {
		// Both orientations see exactly one direction holding, so both
		// score 60 here; the contract only guarantees the 100 case.
		t.Errorf("one-directional scores: %d and %d, want 60 and 60", got, rev)
	}
}

func TestLevelScore(t *testing.T) {
	tests := []struct {
		name       string
		userLevel  string
		candLevel  string
		want       int
	}{
		{"same level", "B1", "B1", 100},
		{"one step apart", "B1", "B2", 80},
		{"two steps apart", "A2", "B2", 60},
		{"full scale apart", "A1", "C2", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := learner(t, "u", "en", profile.TargetLanguage{Code: "ko", CurrentLevel: tt.userLevel})
			c := learner(t, "c", "fr", profile.TargetLanguage{Code: "ko", CurrentLevel: tt.candLevel})
			if got := LevelScore(u, c); got != tt.want {
				t.Errorf("LevelScore = %d, want %d", got, tt.want)
			}
			if got, rev := LevelScore(u, c), LevelScore(c, u); got != rev {
				t.Errorf("LevelScore not symmetric: %d vs %d", got, rev)
			}
		})
	}
}

func TestLevelScore_AveragesSharedLanguages(t *testing.T) {
	u := learner(t, "u", "en",
		profile.TargetLanguage{Code: "ko", CurrentLevel: "B1"},
		profile.TargetLanguage{Code: "es", CurrentLevel: "A1"},
	)
	c := learner(t, "c", "fr",
		profile.TargetLanguage{Code: "ko", CurrentLevel: "B1"}, // diff 0 -> 100
		profile.TargetLanguage{Code: "es", CurrentLevel: "B1"}, // diff 2 -> 60
	)
	if got := LevelScore(u, c); got != 80 {
		t.Errorf("LevelScore = %d, want 80 (average of 100 and 60)", got)
	}
}

// A mutual-exchange pair has no shared learning language, but the two
// cross levels (user's level in the candidate's native language and
// vice versa) are comparable.
func TestLevelScore_MutualExchangeCrossPair(t *testing.T) {
	tests := []struct {
		name      string
		userLevel string
		candLevel string
		want      int
	}{
		{"same level", "B1", "B1", 100},
		{"one step apart", "B1", "B2", 80},
		{"three steps apart", "A1", "B2", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := learner(t, "u", "en", profile.TargetLanguage{Code: "ko", CurrentLevel: tt.userLevel})
			c := learner(t, "c", "ko", profile.TargetLanguage{Code: "en", CurrentLevel: tt.candLevel})
			if got := LevelScore(u, c); got != tt.want {
				t.Errorf("LevelScore = %d, want %d", got, tt.want)
			}
			if got, rev := LevelScore(u, c), LevelScore(c, u); got != rev {
				t.Errorf("LevelScore not symmetric: %d vs %d", got, rev)
			}
		})
	}
}

func TestLevelScore_AveragesCrossPairWithSharedLanguages(t *testing.T) {
	// en native learning ko and es; ko native learning en and es.
	// Shared pair: es (diff 2 -> 60). Cross pair: user's ko@B1 against
	// candidate's en@B1 (diff 0 -> 100). Average is 80.
	u := learner(t, "u", "en",
		profile.TargetLanguage{Code: "ko", CurrentLevel: "B1"},
		profile.TargetLanguage{Code: "es", CurrentLevel: "A1"},
	)
	c := learner(t, "c", "ko",
		profile.TargetLanguage{Code: "en", CurrentLevel: "B1"},
		profile.TargetLanguage{Code: "es", CurrentLevel: "B1"},
	)
	if got := LevelScore(u, c); got != 80 {
		t.Errorf("LevelScore = %d, want 80 (average of 60 and 100)", got)
	}
}

// One-directional exchange has no cross pair: only mutual exchange
// makes the cross levels comparable.
func TestLevelScore_OneDirectionalHasNoCrossPair(t *testing.T) {
	u := learner(t, "u", "en", profile.TargetLanguage{Code: "ko", CurrentLevel: "B1"})
	c := learner(t, "c", "ko", profile.TargetLanguage{Code: "fr", CurrentLevel: "B1"})
	if got := LevelScore(u, c); got != Neutral {
		t.Errorf("LevelScore = %d, want neutral %d", got, Neutral)
	}
}

func TestLevelScore_NoSharedLanguageIsNeutral(t *testing.T) {
	u := learner(t, "u", "en", profile.TargetLanguage{Code: "ko", CurrentLevel: "B1"})
	c := learner(t, "c", "fr", profile.TargetLanguage{Code: "es", CurrentLevel: "B1"})
	if got := LevelScore(u, c); got != Neutral {
		t.Errorf("LevelScore = %d, want neutral %d", got, Neutral)
	}
}

func TestScheduleScore(t *testing.T) {
	tests := []struct {
		name       string
		user, cand string
		want       int
	}{
		{"both present and equal", "evenings", "evenings", 100},
		{"both present, different", "evenings", "mornings", 60},
		{"only user has one", "evenings", "", 30},
		{"only candidate has one", "", "mornings", 30},
		{"both absent", "", "", Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := mustProfile(t, profile.Raw{ID: "u", NativeLanguage: "en", ScheduleTag: tt.user})
			c := mustProfile(t, profile.Raw{ID: "c", NativeLanguage: "ko", ScheduleTag: tt.cand})
			if got := ScheduleScore(u, c); got != tt.want {
				t.Errorf("ScheduleScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverlapScorers(t *testing.T) {
	tests := []struct {
		name       string
		user, cand []string
		want       int
	}{
		{"identical sets", []string{"travel", "exam"}, []string{"travel", "exam"}, 100},
		{"half overlap against larger set", []string{"travel"}, []string{"travel", "exam"}, 50},
		{"no overlap", []string{"travel"}, []string{"exam"}, 0},
		{"user set empty", nil, []string{"exam"}, Neutral},
		{"both empty", nil, nil, Neutral},
		{"third overlap truncates", []string{"a"}, []string{"a", "b", "c"}, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := mustProfile(t, profile.Raw{ID: "u", NativeLanguage: "en", Goals: tt.user, Interests: tt.user, Personalities: tt.user})
			c := mustProfile(t, profile.Raw{ID: "c", NativeLanguage: "ko", Goals: tt.cand, Interests: tt.cand, Personalities: tt.cand})
			if got := GoalScore(u, c); got != tt.want {
				t.Errorf("GoalScore = %d, want %d", got, tt.want)
			}
			if got := PersonalityScore(u, c); got != tt.want {
				t.Errorf("PersonalityScore = %d, want %d", got, tt.want)
			}
			if got := TopicScore(u, c); got != tt.want {
				t.Errorf("TopicScore = %d, want %d", got, tt.want)
			}
		})
	}
}

// Every scorer must stay in [0,100] even for degenerate profiles.
func TestScorers_RangeOnDegenerateInput(t *testing.T) {
	empty := mustProfile(t, profile.Raw{ID: "e", NativeLanguage: "en"})
	full := mustProfile(t, profile.Raw{
		ID: "f", NativeLanguage: "ko", ScheduleTag: "weekends",
		Languages:     []profile.TargetLanguage{{Code: "en", CurrentLevel: "C2"}},
		Goals:         []string{"travel"},
		Interests:     []string{"music"},
		Personalities: []string{"outgoing"},
	})

	scorers := map[string]func(a, b profile.Profile) int{
		"language":    LanguageScore,
		"level":       LevelScore,
		"schedule":    ScheduleScore,
		"goals":       GoalScore,
		"personality": PersonalityScore,
		"topics":      TopicScore,
	}
	pairs := [][2]profile.Profile{{empty, empty}, {empty, full}, {full, empty}, {full, full}}
	for name, fn := range scorers {
		for _, pair := range pairs {
			if got := fn(pair[0], pair[1]); got < 0 || got > 100 {
				t.Errorf("%s(%s,%s) = %d, outside [0,100]", name, pair[0].ID, pair[1].ID, got)
			}
		}
	}
}
