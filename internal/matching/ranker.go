// Package matching fans the scoring pipeline out over a candidate pool
// and reduces it to a ranked, bounded result set. One evaluation runs
// projector → dimension scorers → aggregation → explanation; the ranker
// isolates per-candidate failures so a single malformed profile or
// stalled model call never aborts the whole batch.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tandemly/tandem/internal/explain"
	"github.com/tandemly/tandem/internal/profile"
	"github.com/tandemly/tandem/internal/scoring"
	"github.com/tandemly/tandem/internal/semantic"
)

// defaultConcurrency bounds in-flight candidate evaluations when the
// configured value is unset. Each evaluation holds at most one embedding
// and one chat call, so this also caps pressure on the engine.
const defaultConcurrency = 8

// MatchScore is the outcome of scoring one user×candidate pair. It is
// constructed once per evaluation and never mutated afterwards; callers
// own persistence and caching.
type MatchScore struct {
	CandidateID     string            `json:"candidate_id"`
	OverallScore    int               `json:"overall_score"`
	Breakdown       scoring.Breakdown `json:"breakdown"`
	AIReasons       []string          `json:"ai_reasons"`
	SuggestedTopics []string          `json:"suggested_topics"`
	Insight         string            `json:"insight,omitempty"`
}

// Ranker scores candidate pools against a requesting user.
type Ranker struct {
	weights     scoring.Weights
	semantic    *semantic.Scorer
	explainer   *explain.Explainer
	concurrency int
}

// NewRanker validates the weights once and returns a Ranker. Invalid
// weights are a configuration error and fail construction. concurrency
// bounds parallel candidate evaluations; <= 0 selects the default (8).
func NewRanker(weights scoring.Weights, sem *semantic.Scorer, exp *explain.Explainer, concurrency int) (*Ranker, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching weights: %w", err)
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Ranker{
		weights:     weights,
		semantic:    sem,
		explainer:   exp,
		concurrency: concurrency,
	}, nil
}

// Rank scores every candidate against the user concurrently and returns
// at most limit results sorted by overall score descending, ties broken
// by candidate id ascending. limit <= 0 disables truncation.
//
// A malformed requesting user fails the call. A malformed or failing
// candidate is logged and skipped; the rest of the batch completes. When
// ctx is cancelled, no new evaluations start and whatever has finished
// is returned.
func (r *Ranker) Rank(ctx context.Context, user profile.Raw, candidates []profile.Raw, limit int) ([]MatchScore, error) {
	u, err := profile.Project(user)
	if err != nil {
		return nil, fmt.Errorf("projecting user profile: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// The user's vector is shared read-only by all evaluations; compute
	// it once. A degraded vector scores the semantic dimension neutral
	// for the entire batch.
	userVec, _ := r.semantic.Vector(ctx, u)

	// Buffered so workers never block on send after the collector stops
	// reading (cancellation path).
	results := make(chan MatchScore, len(candidates))
	sem := make(chan struct{}, r.concurrency)

	var wg sync.WaitGroup
	for _, raw := range candidates {
		wg.Add(1)
		go func(raw profile.Raw) {
			defer wg.Done()
			// Acquire a concurrency slot or bail on cancellation.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			score, err := r.scoreCandidate(ctx, u, userVec, raw)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("skipping candidate", "user_id", u.ID, "candidate_id", raw.ID, "error", err)
				return
			}
			results <- score
		}(raw)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	scored := make([]MatchScore, 0, len(candidates))
collect:
	for {
		select {
		case ms, ok := <-results:
			if !ok {
				break collect
			}
			scored = append(scored, ms)
		case <-ctx.Done():
			// Deadline or cancellation. Evaluations already in flight
			// degrade and finish quickly once ctx is dead, and workers
			// that never got a slot bail out, so draining until the
			// channel closes collects every completed score instead of
			// dropping the ones already buffered.
			for ms := range results {
				scored = append(scored, ms)
			}
			slog.Warn("ranking cancelled, returning partial results",
				"user_id", u.ID, "completed", len(scored), "candidates", len(candidates))
			break collect
		}
	}

	sortMatches(scored)
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// scoreCandidate runs the full pipeline for one pair. Only a malformed
// candidate profile is an error; engine trouble degrades inside the
// semantic scorer and explainer.
func (r *Ranker) scoreCandidate(ctx context.Context, user profile.Profile, userVec []float32, raw profile.Raw) (MatchScore, error) {
	c, err := profile.Project(raw)
	if err != nil {
		return MatchScore{}, err
	}

	b := scoring.Breakdown{
		Language:    scoring.LanguageScore(user, c),
		Level:       scoring.LevelScore(user, c),
		Schedule:    scoring.ScheduleScore(user, c),
		Goals:       scoring.GoalScore(user, c),
		Personality: scoring.PersonalityScore(user, c),
		Topics:      scoring.TopicScore(user, c),
	}

	b.Semantic = scoring.Neutral
	if userVec != nil {
		if candVec, ok := r.semantic.Vector(ctx, c); ok {
			b.Semantic = semantic.Score(userVec, candVec)
		}
	}

	overall := scoring.Aggregate(b, r.weights)
	expl := r.explainer.Explain(ctx, user, c, b, overall)

	return MatchScore{
		CandidateID:     c.ID,
		OverallScore:    overall,
		Breakdown:       b,
		AIReasons:       expl.Reasons,
		SuggestedTopics: expl.Topics,
		Insight:         expl.Insight,
	}, nil
}

// sortMatches orders by overall score descending, then candidate id
// ascending so equal scores rank deterministically.
func sortMatches(scored []MatchScore) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].OverallScore != scored[j].OverallScore {
			return scored[i].OverallScore > scored[j].OverallScore
		}
		return scored[i].CandidateID < scored[j].CandidateID
	})
}

// IsProfileError reports whether err stems from an incomplete profile,
// letting callers distinguish bad input from infrastructure trouble.
func IsProfileError(err error) bool {
	return errors.Is(err, profile.ErrProfileIncomplete)
}
