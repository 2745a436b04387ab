package explain

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tandemly/tandem/internal/engine"
	"github.com/tandemly/tandem/internal/profile"
	"github.com/tandemly/tandem/internal/scoring"
)

type fakeChatter struct {
	resp string
	err  error
}

func (f *fakeChatter) Chat(ctx context.Context, model string, messages []engine.Message, schema *engine.Schema) (string, error) {
	return f.resp, f.err
}

func pair(t *testing.T) (profile.Profile, profile.Profile) {
	t.Helper()
	user, err := profile.Project(profile.Raw{
		ID: "u1", NativeLanguage: "en",
		Languages: []profile.TargetLanguage{{Code: "ko", CurrentLevel: "B1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	cand, err := profile.Project(profile.Raw{
		ID: "c1", NativeLanguage: "ko",
		Languages: []profile.TargetLanguage{{Code: "en", CurrentLevel: "B2"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return user, cand
}

func TestExplain_CleanJSON(t *testing.T) {
	chatter := &fakeChatter{resp: `{"reasons":["You can teach each other"],"topics":["Korean food"],"insight":"Great fit."}`}
	e := New(chatter, "test-model", 0)
	user, cand := pair(t)

	got := e.Explain(context.Background(), user, cand, scoring.Breakdown{}, 85)

	want := Explanation{
		Reasons: []string{"You can teach each other"},
		Topics:  []string{"Korean food"},
		Insight: "Great fit.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Explain = %+v, want %+v", got, want)
	}
}

func TestExplain_FencedAndWrappedJSON(t *testing.T) {
	tests := []struct {
		name string
		resp string
	}{
		{"markdown fence", "```json\n{\"reasons\":[\"r\"],\"topics\":[\"t\"],\"insight\":\"i\"}\n```"},
		{"bare fence", "```\n{\"reasons\":[\"r\"],\"topics\":[\"t\"],\"insight\":\"i\"}\n```"},
		{"conversational filler", "Sure! Here is the match summary:\n{\"reasons\":[\"r\"],\"topics\":[\"t\"],\"insight\":\"i\"}\nHope that helps."},
	}
	user, cand := pair(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(&fakeChatter{resp: tt.resp}, "test-model", 0)
			got := e.Explain(context.Background(), user, cand, scoring.Breakdown{}, 70)
			if len(got.Reasons) != 1 || got.Reasons[0] != "r" {
				t.Errorf("Reasons = %v, want [r]", got.Reasons)
			}
			if got.Insight != "i" {
				t.Errorf("Insight = %q, want %q", got.Insight, "i")
			}
		})
	}
}

func TestExplain_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		chatter *fakeChatter
	}{
		{"chat error", &fakeChatter{err: errors.New("ollama down")}},
		{"not JSON", &fakeChatter{resp: "the members seem compatible"}},
		{"invalid JSON", &fakeChatter{resp: `{"reasons": [unquoted]}`}},
		{"empty reasons", &fakeChatter{resp: `{"reasons":[],"topics":["t"],"insight":"i"}`}},
		{"blank-only topics", &fakeChatter{resp: `{"reasons":["r"],"topics":["  "],"insight":"i"}`}},
	}
	user, cand := pair(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.chatter, "test-model", 0)
			got := e.Explain(context.Background(), user, cand, scoring.Breakdown{}, 60)
			if !reflect.DeepEqual(got, Fallback()) {
				t.Errorf("Explain = %+v, want fallback", got)
			}
		})
	}
}

func TestExplain_CapsItems(t *testing.T) {
	chatter := &fakeChatter{resp: `{"reasons":["a","b","c","d","e","f","g"],"topics":["1","2","3","4","5","6"],"insight":"i"}`}
	e := New(chatter, "test-model", 0)
	user, cand := pair(t)

	got := e.Explain(context.Background(), user, cand, scoring.Breakdown{}, 90)
	if len(got.Reasons) != maxItems {
		t.Errorf("len(Reasons) = %d, want %d", len(got.Reasons), maxItems)
	}
	if len(got.Topics) != maxItems {
		t.Errorf("len(Topics) = %d, want %d", len(got.Topics), maxItems)
	}
}

func TestFallback_Shape(t *testing.T) {
	f := Fallback()
	if len(f.Reasons) != 2 {
		t.Errorf("fallback reasons = %d, want 2", len(f.Reasons))
	}
	if len(f.Topics) != 3 {
		t.Errorf("fallback topics = %d, want 3", len(f.Topics))
	}
	if f.Insight != "" {
		t.Errorf("fallback insight = %q, want empty", f.Insight)
	}
}
