package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// GetEmbedding returns the cached summary embedding for a profile, or
// nil when no entry exists or the cached entry was computed from a
// different summary (hash mismatch means the profile changed).
func (s *Store) GetEmbedding(ctx context.Context, profileID, summaryHash string) ([]float32, error) {
	var hash string
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT summary_hash, embedding FROM profile_embeddings WHERE profile_id = ?", profileID).
		Scan(&hash, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying embedding for %s: %w", profileID, err)
	}
	if hash != summaryHash {
		return nil, nil
	}

	vec, err := decodeFloat32s(blob)
	if err != nil {
		return nil, fmt.Errorf("decoding embedding for %s: %w", profileID, err)
	}
	return vec, nil
}

// PutEmbedding stores (or replaces) the summary embedding for a profile.
func (s *Store) PutEmbedding(ctx context.Context, profileID, summaryHash string, vec []float32) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile_embeddings (profile_id, summary_hash, embedding, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(profile_id) DO UPDATE SET
			summary_hash = excluded.summary_hash,
			embedding = excluded.embedding,
			created_at = excluded.created_at`,
		profileID, summaryHash, encodeFloat32s(vec), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing embedding for %s: %w", profileID, err)
	}
	return nil
}

// encodeFloat32s packs a vector into a little-endian byte blob.
func encodeFloat32s(v []float32) []byte {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

// decodeFloat32s unpacks a little-endian byte blob into a vector.
func decodeFloat32s(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("blob length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
