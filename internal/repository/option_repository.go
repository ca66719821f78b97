package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/doc-vault-api/internal/models"
)

// OptionRepository persists per-owner classification options.
type OptionRepository struct {
	db *sqlx.DB
}

// NewOptionRepository constructs the repository.
func NewOptionRepository(db *sqlx.DB) *OptionRepository {
	return &OptionRepository{db: db}
}

// ListLabels returns the owner's labels in insertion order.
func (r *OptionRepository) ListLabels(ctx context.Context, ownerID string) ([]string, error) {
	const query = `SELECT label FROM classification_options WHERE owner_id = $1 ORDER BY seq ASC`
	var labels []string
	if err := r.db.SelectContext(ctx, &labels, query, ownerID); err != nil {
		return nil, fmt.Errorf("list classification options: %w", err)
	}
	return labels, nil
}

// SeedDefaults inserts the given labels for an owner, skipping any that
// already exist. The unique index on (owner_id, label) makes repeated or
// concurrent seeding attempts a no-op, never a duplicate. Returns how many
// rows were actually inserted.
func (r *OptionRepository) SeedDefaults(ctx context.Context, ownerID string, labels []string) (int64, error) {
	if len(labels) == 0 {
		return 0, nil
	}
	const query = `INSERT INTO classification_options (id, owner_id, label, created_at)
VALUES (:id, :owner_id, :label, :created_at)
ON CONFLICT (owner_id, label) DO NOTHING`

	var inserted int64
	now := time.Now().UTC()
	for _, label := range labels {
		option := models.ClassificationOption{
			ID:        uuid.NewString(),
			OwnerID:   ownerID,
			Label:     label,
			CreatedAt: now,
		}
		res, err := r.db.NamedExecContext(ctx, query, option)
		if err != nil {
			return inserted, fmt.Errorf("seed classification option %q: %w", label, err)
		}
		if affected, err := res.RowsAffected(); err == nil {
			inserted += affected
		}
	}
	return inserted, nil
}

// Count reports how many options the owner has.
func (r *OptionRepository) Count(ctx context.Context, ownerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM classification_options WHERE owner_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, ownerID); err != nil {
		return 0, fmt.Errorf("count classification options: %w", err)
	}
	return count, nil
}
