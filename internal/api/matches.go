// Package api exposes the matching engine over a minimal REST surface.
// It is deliberately thin glue: parse, delegate, encode.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tandemly/tandem/internal/matching"
	"github.com/tandemly/tandem/internal/profile"
	"github.com/tandemly/tandem/internal/storage"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxLimit              = 100
)

// ProfileSource is the slice of the store the handler needs.
type ProfileSource interface {
	GetProfile(ctx context.Context, id string) (profile.Raw, error)
	ListCandidates(ctx context.Context, excludeID string) ([]profile.Raw, error)
}

// Matcher ranks a candidate pool for a user.
type Matcher interface {
	Rank(ctx context.Context, user profile.Raw, candidates []profile.Raw, limit int) ([]matching.MatchScore, error)
}

// NewHandler returns the REST router. defaultLimit caps result sets when
// the client doesn't pass ?limit.
func NewHandler(profiles ProfileSource, matcher Matcher, defaultLimit int) http.Handler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	r := chi.NewRouter()
	r.Get("/health", handleHealth)
	r.Get("/v1/matches/{userID}", handleMatches(profiles, matcher, defaultLimit))
	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// matchesResponse is the JSON body for GET /v1/matches/{userID}.
type matchesResponse struct {
	UserID  string                `json:"user_id"`
	Count   int                   `json:"count"`
	Matches []matching.MatchScore `json:"matches"`
}

func handleMatches(profiles ProfileSource, matcher Matcher, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		userID := chi.URLParam(r, "userID")

		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxLimit {
				httpError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer in [1,%d]", maxLimit)
				return
			}
			limit = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
		defer cancel()

		user, err := profiles.GetProfile(ctx, userID)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "unknown_user", "no profile for user %s", userID)
			return
		}
		if err != nil {
			slog.Error("loading user profile failed", "request_id", requestID, "user_id", userID, "error", err)
			httpError(w, http.StatusInternalServerError, "storage_error", "could not load profile")
			return
		}

		candidates, err := profiles.ListCandidates(ctx, userID)
		if err != nil {
			slog.Error("loading candidates failed", "request_id", requestID, "user_id", userID, "error", err)
			httpError(w, http.StatusInternalServerError, "storage_error", "could not load candidates")
			return
		}

		matches, err := matcher.Rank(ctx, user, candidates, limit)
		if matching.IsProfileError(err) {
			httpError(w, http.StatusUnprocessableEntity, "incomplete_profile", "profile for user %s is incomplete", userID)
			return
		}
		if err != nil {
			slog.Error("ranking failed", "request_id", requestID, "user_id", userID, "error", err)
			httpError(w, http.StatusInternalServerError, "ranking_error", "could not rank candidates")
			return
		}

		slog.Info("ranked candidates",
			"request_id", requestID, "user_id", userID,
			"candidates", len(candidates), "returned", len(matches))

		if matches == nil {
			matches = []matching.MatchScore{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(matchesResponse{
			UserID:  userID,
			Count:   len(matches),
			Matches: matches,
		})
	}
}

// httpError writes a JSON error body with the given status.
func httpError(w http.ResponseWriter, status int, code, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": fmt.Sprintf(format, args...),
		},
	})
}
