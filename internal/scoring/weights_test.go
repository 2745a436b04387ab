package scoring

import "testing"

func TestDefaultWeights_Valid(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("DefaultWeights().Validate(): %v", err)
	}
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *Weights)
		wantErr bool
	}{
		{"defaults pass", func(w *Weights) {}, false},
		{"sum below one", func(w *Weights) { w.Language = 0.10 }, true},
		{"sum above one", func(w *Weights) { w.Topics = 0.50 }, true},
		{"negative weight", func(w *Weights) { w.Goals = -0.10; w.Language = 0.45 }, true},
		{"weight above one", func(w *Weights) {
			*w = Weights{Language: 1.5, Level: -0.5, Semantic: 0, Schedule: 0, Goals: 0, Personality: 0, Topics: 0}
		}, true},
		{"within tolerance", func(w *Weights) { w.Language += 5e-7 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWeights()
			tt.mutate(&w)
			err := w.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Validate() = nil, want error (sum=%.6f)", w.Sum())
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
