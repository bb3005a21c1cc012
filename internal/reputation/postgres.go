package reputation

import (
	"context"
	"database/sql"
	"fmt"
)

// ApplyTx applies the per-user reputation increments inside the caller's
// transaction. The ledger owns the transaction scope; this function never
// commits or rolls back.
func ApplyTx(ctx context.Context, tx *sql.Tx, d Delta, performerID, authorID string) error {
	const query = `UPDATE users SET reputation = reputation + $1 WHERE id = $2`

	for userID, points := range Adjustments(d, performerID, authorID) {
		if _, err := tx.ExecContext(ctx, query, points, userID); err != nil {
			return fmt.Errorf("failed to adjust reputation for user %s: %w", userID, err)
		}
	}
	return nil
}
