package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/onnwee/quorum/internal/content"
	"github.com/onnwee/quorum/internal/interaction"
	"github.com/onnwee/quorum/internal/profile"
	"github.com/onnwee/quorum/internal/reputation"
	"github.com/onnwee/quorum/internal/stats"
)

// PostgresLedger implements Ledger using PostgreSQL with full transaction
// support: the interaction upsert, reputation batch update, and interest
// profile update all commit or all roll back.
type PostgresLedger struct {
	db       *sql.DB
	contents content.Repository
	profiles *profile.PostgresStore
	logger   *slog.Logger
	metrics  *Metrics
	stats    *stats.UpsertStats
}

// NewPostgresLedger creates a new PostgresLedger. Metrics may be nil.
func NewPostgresLedger(db *sql.DB, contents content.Repository, profiles *profile.PostgresStore, logger *slog.Logger, metrics *Metrics) *PostgresLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLedger{
		db:       db,
		contents: contents,
		profiles: profiles,
		logger:   logger,
		metrics:  metrics,
	}
}

// WithStats attaches upsert statistics tracking to the ledger.
func (l *PostgresLedger) WithStats(s *stats.UpsertStats) *PostgresLedger {
	l.stats = s
	return l
}

// Record upserts the interaction and applies its side effects atomically.
func (l *PostgresLedger) Record(ctx context.Context, req interaction.Request) (*interaction.Record, error) {
	// Validation and authorization happen before any mutation; no
	// transaction is opened for a rejected request.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Tag resolution is a plain read and sits outside the transaction.
	tags, err := resolveTags(ctx, l.contents, req)
	if err != nil {
		return nil, err
	}

	rec, err := l.recordTx(ctx, req, tags)
	if err != nil {
		if l.metrics != nil {
			l.metrics.RecordError()
		}
		return nil, err
	}
	if l.metrics != nil {
		l.metrics.RecordInteraction(string(req.Action))
	}
	return rec, nil
}

func (l *PostgresLedger) recordTx(ctx context.Context, req interaction.Request, tags []string) (*interaction.Record, error) {
	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	// No-op after a successful commit.
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.logger.Warn("failed to rollback interaction transaction",
				slog.String("error", err.Error()))
		}
	}()

	const upsertQuery = `
		INSERT INTO interactions (id, user_id, action, target_id, target_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id, target_id, action, target_type)
		DO UPDATE SET updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	rec := &interaction.Record{
		UserID:     req.UserID,
		Action:     req.Action,
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
	}
	err = tx.QueryRowContext(ctx, upsertQuery,
		uuid.New().String(), req.UserID, string(req.Action), req.TargetID, string(req.TargetType),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: upsert interaction: %v", ErrTransactionFailed, err)
	}

	// NOW() is transaction-stable, so a fresh insert carries identical
	// timestamps while a re-stamp moves UpdatedAt forward.
	if l.stats != nil {
		if rec.UpdatedAt.Equal(rec.CreatedAt) {
			l.stats.RecordInsert()
		} else {
			l.stats.RecordRestamp()
		}
	}

	delta := reputation.Compute(req.Action, req.TargetType)
	if err := reputation.ApplyTx(ctx, tx, delta, req.UserID, req.AuthorID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	if err := l.profiles.ApplyTx(ctx, tx, req.UserID, req.TargetID, tags, req.Action); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	l.logger.Debug("interaction recorded",
		slog.String("record_id", rec.ID),
		slog.String("user_id", req.UserID),
		slog.String("action", string(req.Action)),
		slog.String("target_id", req.TargetID),
		slog.String("target_type", string(req.TargetType)))

	return rec, nil
}
