package profile

import (
	"errors"
	"testing"
)

func TestProject_MandatoryFields(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
	}{
		{"missing id", Raw{NativeLanguage: "en"}},
		{"missing native language", Raw{ID: "u1"}},
		{"invalid current level", Raw{ID: "u1", NativeLanguage: "en",
			Languages: []TargetLanguage{{Code: "ko", CurrentLevel: "B7"}}}},
		{"invalid target level", Raw{ID: "u1", NativeLanguage: "en",
			Languages: []TargetLanguage{{Code: "ko", CurrentLevel: "B1", TargetLevel: "Z9"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(tt.raw)
			if !errors.Is(err, ErrProfileIncomplete) {
				t.Errorf("Project() error = %v, want ErrProfileIncomplete", err)
			}
		})
	}
}

func TestProject_OptionalFieldsDefaultEmpty(t *testing.T) {
	p, err := Project(Raw{ID: "u1", NativeLanguage: "en"})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(p.TargetLanguages) != 0 || len(p.StudyGoals) != 0 ||
		len(p.Interests) != 0 || len(p.Personalities) != 0 || p.ScheduleTag != "" {
		t.Errorf("optional fields not empty: %+v", p)
	}
}

func TestProject_DedupesAndSortsTags(t *testing.T) {
	p, err := Project(Raw{
		ID: "u1", NativeLanguage: "en",
		Goals: []string{"travel", "exam", "travel", ""},
	})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	want := []string{"exam", "travel"}
	if len(p.StudyGoals) != len(want) {
		t.Fatalf("StudyGoals = %v, want %v", p.StudyGoals, want)
	}
	for i := range want {
		if p.StudyGoals[i] != want[i] {
			t.Errorf("StudyGoals[%d] = %q, want %q", i, p.StudyGoals[i], want[i])
		}
	}
}

func TestProject_DedupesLanguagesKeepingFirst(t *testing.T) {
	p, err := Project(Raw{
		ID: "u1", NativeLanguage: "en",
		Languages: []TargetLanguage{
			{Code: "ko", CurrentLevel: "B1"},
			{Code: "ko", CurrentLevel: "A1"},
			{Code: "es", CurrentLevel: "A2"},
		},
	})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(p.TargetLanguages) != 2 {
		t.Fatalf("got %d target languages, want 2", len(p.TargetLanguages))
	}
	if tl, ok := p.Learns("ko"); !ok || tl.CurrentLevel != "B1" {
		t.Errorf("Learns(ko) = %+v, %v; want first entry with B1", tl, ok)
	}
}

func TestLevelOrdinal(t *testing.T) {
	ordered := []string{"A1", "A2", "B1", "B2", "C1", "C2"}
	for i, lvl := range ordered {
		n, ok := LevelOrdinal(lvl)
		if !ok || n != i {
			t.Errorf("LevelOrdinal(%s) = %d, %v; want %d, true", lvl, n, ok, i)
		}
	}
	if _, ok := LevelOrdinal("D1"); ok {
		t.Error("LevelOrdinal(D1) ok = true, want false")
	}
}
