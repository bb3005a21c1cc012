package content

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// PostgresRepository implements Repository against PostgreSQL.
type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRepository{db: db, logger: logger}
}

const itemColumns = `
	q.id, q.title, q.tags, q.upvotes, q.answers, q.views, q.created_at,
	u.id, u.name, COALESCE(u.image, '')
`

// GetByID retrieves a single question with its author summary.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM questions q
		JOIN users u ON u.id = q.author_id
		WHERE q.id = $1
	`, itemColumns)

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load question %s: %w", id, err)
	}
	return item, nil
}

// ListAll returns every question with its tags and counters.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM questions q
		JOIN users u ON u.id = q.author_id
		ORDER BY q.created_at, q.id
	`, itemColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return r.collect(rows)
}

// GetByIDs returns the questions for the given ids, skipping missing ones.
func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]*Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT %s FROM questions q
		JOIN users u ON u.id = q.author_id
		WHERE q.id = ANY($1)
	`, itemColumns)

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return r.collect(rows)
}

// ParentQuestionTags resolves an answer's tag set from its parent question.
func (r *PostgresRepository) ParentQuestionTags(ctx context.Context, answerID string) ([]string, error) {
	const query = `
		SELECT q.tags FROM answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.id = $1
	`
	var tags pq.StringArray
	err := r.db.QueryRowContext(ctx, query, answerID).Scan(&tags)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags for answer %s: %w", answerID, err)
	}
	return tags, nil
}

func (r *PostgresRepository) collect(rows *sql.Rows) ([]*Item, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close question rows", "error", err)
		}
	}()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var tags pq.StringArray
	err := row.Scan(
		&item.ID, &item.Title, &tags, &item.Upvotes, &item.Answers,
		&item.Views, &item.CreatedAt,
		&item.Author.ID, &item.Author.Name, &item.Author.Image,
	)
	if err != nil {
		return nil, err
	}
	item.Tags = tags
	return &item, nil
}
