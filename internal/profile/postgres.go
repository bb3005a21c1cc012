package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/onnwee/quorum/internal/interaction"
)

// PostgresStore implements profile reads against PostgreSQL and provides the
// transaction-scoped write used by the interaction ledger.
//
// Tag weights are stored as a JSONB document and items as a text array; a
// profile is one row keyed by user id.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, logger: logger}
}

// Get retrieves a user's profile, or (nil, nil) when the user has none.
func (s *PostgresStore) Get(ctx context.Context, userID string) (*Profile, error) {
	const query = `
		SELECT tags, items FROM interest_profiles
		WHERE user_id = $1
	`
	var tagsJSON []byte
	var items pq.StringArray
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&tagsJSON, &items)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for user %s: %w", userID, err)
	}
	return buildProfile(userID, tagsJSON, items)
}

// ListOthers returns the profiles of every user except the given one.
func (s *PostgresStore) ListOthers(ctx context.Context, userID string) ([]*Profile, error) {
	const query = `
		SELECT user_id, tags, items FROM interest_profiles
		WHERE user_id <> $1
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("failed to close profile rows", "error", err)
		}
	}()

	var profiles []*Profile
	for rows.Next() {
		var owner string
		var tagsJSON []byte
		var items pq.StringArray
		if err := rows.Scan(&owner, &tagsJSON, &items); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		p, err := buildProfile(owner, tagsJSON, items)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// ApplyTx folds one interaction into the user's profile inside the caller's
// transaction. Non-qualifying actions return without touching the row. The
// row is locked for the duration of the merge so two interactions from the
// same user serialize rather than losing updates.
func (s *PostgresStore) ApplyTx(ctx context.Context, tx *sql.Tx, userID, contentID string, tags []string, action interaction.Action) error {
	if _, ok := Weight(action); !ok {
		return nil
	}

	const selectQuery = `
		SELECT tags, items FROM interest_profiles
		WHERE user_id = $1
		FOR UPDATE
	`
	p := New(userID)
	var tagsJSON []byte
	var items pq.StringArray
	err := tx.QueryRowContext(ctx, selectQuery, userID).Scan(&tagsJSON, &items)
	switch {
	case err == sql.ErrNoRows:
		// First qualifying interaction creates the profile.
	case err != nil:
		return fmt.Errorf("failed to lock profile for user %s: %w", userID, err)
	default:
		p, err = buildProfile(userID, tagsJSON, items)
		if err != nil {
			return err
		}
	}

	p.Apply(contentID, tags, action)

	merged, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tag weights: %w", err)
	}

	const upsertQuery = `
		INSERT INTO interest_profiles (user_id, tags, items, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			tags = EXCLUDED.tags,
			items = EXCLUDED.items,
			updated_at = NOW()
	`
	if _, err := tx.ExecContext(ctx, upsertQuery, userID, merged, pq.Array(p.Items())); err != nil {
		return fmt.Errorf("failed to upsert profile for user %s: %w", userID, err)
	}
	return nil
}

func buildProfile(userID string, tagsJSON []byte, items []string) (*Profile, error) {
	p := New(userID)
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tag weights for user %s: %w", userID, err)
		}
	}
	p.SetItems(items)
	return p, nil
}
