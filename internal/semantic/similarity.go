// Package semantic derives the embedding-based compatibility dimension.
// It owns only the vector math and the [-1,1] to [0,100] scaling; the
// vectors themselves come from the inference engine, which is treated as
// unreliable. Any failure degrades to the neutral score instead of
// aborting a scoring run.
package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tandemly/tandem/internal/engine"
	"github.com/tandemly/tandem/internal/profile"
	"github.com/tandemly/tandem/internal/scoring"
)

const (
	defaultEmbedTimeout = 5 * time.Second
	warmConcurrency     = 4
)

// Cache stores summary embeddings keyed by profile id and summary hash.
// Implemented by storage.Store. A nil Cache disables caching.
type Cache interface {
	GetEmbedding(ctx context.Context, profileID, summaryHash string) ([]float32, error)
	PutEmbedding(ctx context.Context, profileID, summaryHash string, vec []float32) error
}

// Scorer produces profile-summary embeddings and similarity scores.
type Scorer struct {
	engine  engine.Engine
	model   string
	cache   Cache
	timeout time.Duration
}

// NewScorer creates a Scorer using the given engine and embedding model.
// cache may be nil. If timeout <= 0 a 5s default applies per embed call.
func NewScorer(e engine.Engine, model string, cache Cache, timeout time.Duration) *Scorer {
	if timeout <= 0 {
		timeout = defaultEmbedTimeout
	}
	return &Scorer{engine: e, model: model, cache: cache, timeout: timeout}
}

// Vector returns the embedding of the profile's summary text. ok is
// false when the vector could not be produced; the caller scores the
// semantic dimension as neutral in that case. Cache failures are soft:
// a broken cache only costs an extra engine call.
func (s *Scorer) Vector(ctx context.Context, p profile.Profile) (vec []float32, ok bool) {
	summary := p.Summary()
	hash := summaryHash(summary)

	if s.cache != nil {
		cached, err := s.cache.GetEmbedding(ctx, p.ID, hash)
		if err != nil {
			slog.Warn("embedding cache read failed", "profile_id", p.ID, "error", err)
		} else if cached != nil {
			return cached, true
		}
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vec, err := s.engine.Embed(embedCtx, s.model, summary)
	if err != nil {
		slog.Warn("embedding failed, semantic score degrades to neutral", "profile_id", p.ID, "error", err)
		return nil, false
	}

	if s.cache != nil {
		if err := s.cache.PutEmbedding(ctx, p.ID, hash, vec); err != nil {
			slog.Warn("embedding cache write failed", "profile_id", p.ID, "error", err)
		}
	}
	return vec, true
}

// Warm precomputes and caches summary embeddings for a set of profiles,
// bounding in-flight engine calls. Individual failures are logged by
// Vector and do not fail the batch.
func (s *Scorer) Warm(ctx context.Context, profiles []profile.Profile) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, p := range profiles {
		g.Go(func() error {
			s.Vector(gCtx, p)
			return nil
		})
	}
	g.Wait()
}

// Score maps the cosine similarity of two vectors from [-1,1] to
// [0,100], clamped. Either vector being absent or zero-norm yields the
// neutral score.
func Score(a, b []float32) int {
	sim, ok := Cosine(a, b)
	if !ok {
		return scoring.Neutral
	}
	score := int(math.Round((sim + 1) / 2 * 100))
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return score
}

// Cosine computes the cosine similarity of two vectors. ok is false for
// mismatched lengths, empty input, or a zero-norm vector.
func Cosine(a, b []float32) (sim float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

func summaryHash(summary string) string {
	sum := sha256.Sum256([]byte(summary))
	return hex.EncodeToString(sum[:])
}
