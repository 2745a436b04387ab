package scoring

import "testing"

func uniform(score int) Breakdown {
	return Breakdown{
		Language:    score,
		Level:       score,
		Semantic:    score,
		Schedule:    score,
		Goals:       score,
		Personality: score,
		Topics:      score,
	}
}

func TestAggregate_Bounds(t *testing.T) {
	w := DefaultWeights()
	if got := Aggregate(uniform(100), w); got != 100 {
		t.Errorf("Aggregate(all-100) = %d, want 100", got)
	}
	if got := Aggregate(uniform(0), w); got != 0 {
		t.Errorf("Aggregate(all-0) = %d, want 0", got)
	}
	if got := Aggregate(uniform(Neutral), w); got != Neutral {
		t.Errorf("Aggregate(all-neutral) = %d, want %d", got, Neutral)
	}
}

// The reference scenario: mutual en↔ko exchange at equal levels with
// every other dimension neutral. 100*.25 + 100*.15 + 50*(.15+.15+.10+
// .10+.10) = 25 + 15 + 30 = 70 under the default weights.
func TestAggregate_MutualExchangeExample(t *testing.T) {
	b := Breakdown{
		Language:    100,
		Level:       100,
		Semantic:    Neutral,
		Schedule:    Neutral,
		Goals:       Neutral,
		Personality: Neutral,
		Topics:      Neutral,
	}
	if got := Aggregate(b, DefaultWeights()); got != 70 {
		t.Errorf("Aggregate = %d, want 70", got)
	}
}

func TestAggregate_Rounds(t *testing.T) {
	// 0.25*99 = 24.75, everything else 0 with a language-only weight
	// distribution exercises rounding.
	w := Weights{Language: 0.25, Level: 0.75}
	b := Breakdown{Language: 99, Level: 0}
	// 24.75 rounds to 25.
	if got := Aggregate(b, w); got != 25 {
		t.Errorf("Aggregate = %d, want 25", got)
	}
}

func TestAggregate_ClampsOutOfRangeBreakdown(t *testing.T) {
	// An upstream scorer breaking its range contract must still yield a
	// bounded overall score.
	if got := Aggregate(uniform(250), DefaultWeights()); got != 100 {
		t.Errorf("Aggregate(all-250) = %d, want clamp to 100", got)
	}
	if got := Aggregate(uniform(-50), DefaultWeights()); got != 0 {
		t.Errorf("Aggregate(all-negative) = %d, want clamp to 0", got)
	}
}
