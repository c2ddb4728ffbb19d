package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

// RequestHash fingerprints a request body so a replayed key with a
// different payload can be told apart from a genuine retry.
func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// CheckIdempotency looks up a prior response for the same user, endpoint
// and key. A hit with a matching hash returns the stored response; a hit
// with a different hash is a conflict.
func CheckIdempotency(ctx context.Context, db *pgxpool.Pool, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error) {
	if db == nil || key == "" {
		return nil, false, nil
	}
	var storedHash string
	var stored json.RawMessage
	err := db.QueryRow(ctx, `
        SELECT request_hash, response_json
        FROM idempotency_keys
        WHERE user_id = $1 AND endpoint = $2 AND key = $3
    `, userID, endpoint, key).Scan(&storedHash, &stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if storedHash != requestHash {
		return nil, false, ErrIdempotencyConflict
	}
	return stored, true, nil
}

func SaveIdempotency(ctx context.Context, db *pgxpool.Pool, userID, endpoint, key, requestHash string, response json.RawMessage) error {
	if db == nil || key == "" {
		return nil
	}
	tag, err := db.Exec(ctx, `
        INSERT INTO idempotency_keys (user_id, endpoint, key, request_hash, response_json)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, endpoint, key)
        DO UPDATE SET response_json = EXCLUDED.response_json
        WHERE idempotency_keys.request_hash = EXCLUDED.request_hash
    `, userID, endpoint, key, requestHash, response)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}
