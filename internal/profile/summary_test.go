package profile

import (
	"strings"
	"testing"
)

func TestSummary_Deterministic(t *testing.T) {
	// Same profile content, different row order in the raw shape.
	a, err := Project(Raw{
		ID: "u1", NativeLanguage: "en",
		Languages: []TargetLanguage{{Code: "ko", CurrentLevel: "B1", TargetLevel: "C1"}},
		Goals:     []string{"travel", "conversation"},
		Interests: []string{"cooking", "design"},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Project(Raw{
		ID: "u1", NativeLanguage: "en",
		Languages: []TargetLanguage{{Code: "ko", CurrentLevel: "B1", TargetLevel: "C1"}},
		Goals:     []string{"conversation", "travel"},
		Interests: []string{"design", "cooking"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Summary() != b.Summary() {
		t.Errorf("summaries differ for equivalent profiles:\n%q\n%q", a.Summary(), b.Summary())
	}
}

func TestSummary_SectionOrder(t *testing.T) {
	p, err := Project(Raw{
		ID: "u1", NativeLanguage: "en", Bio: "Hello there.",
		Languages:     []TargetLanguage{{Code: "ko", CurrentLevel: "B1"}},
		Goals:         []string{"travel"},
		Interests:     []string{"cooking"},
		Personalities: []string{"curious"},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := p.Summary()

	markers := []string{"Native speaker of en", "Learning: ko (B1)", "Goals: travel", "Interests: cooking", "Personality: curious", "Hello there."}
	last := -1
	for _, m := range markers {
		idx := strings.Index(s, m)
		if idx == -1 {
			t.Fatalf("summary missing %q: %q", m, s)
		}
		if idx < last {
			t.Errorf("section %q out of order in %q", m, s)
		}
		last = idx
	}
}

func TestSummary_CapsLongBio(t *testing.T) {
	p, err := Project(Raw{
		ID: "u1", NativeLanguage: "en",
		Bio: strings.Repeat("very long bio ", 400),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(p.Summary()); got > maxSummaryChars {
		t.Errorf("summary length = %d, want <= %d", got, maxSummaryChars)
	}
}
