package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/doc-vault-api/internal/models"
	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
)

const pqUniqueViolation = "23505"

// FileRepository persists file metadata records.
type FileRepository struct {
	db *sqlx.DB
}

// NewFileRepository constructs the repository.
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create stores metadata for a newly uploaded file. The storage layer never
// hands out a taken path, so a unique violation on (owner_id, file_path)
// means an invariant broke; it maps to ErrConflict.
func (r *FileRepository) Create(ctx context.Context, record *models.FileRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.UploadedAt.IsZero() {
		record.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO file_records (id, owner_id, file_name, file_path, classification, uploaded_at)
VALUES (:id, :owner_id, :file_name, :file_path, :classification, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
				fmt.Sprintf("storage path %s already recorded for owner %s", record.FilePath, record.OwnerID))
		}
		return fmt.Errorf("create file record: %w", err)
	}
	return nil
}

// GetByID fetches one record scoped to its owner.
func (r *FileRepository) GetByID(ctx context.Context, id, ownerID string) (*models.FileRecord, error) {
	const query = `SELECT id, owner_id, file_name, file_path, classification, uploaded_at
FROM file_records WHERE id = $1 AND owner_id = $2`
	var record models.FileRecord
	if err := r.db.GetContext(ctx, &record, query, id, ownerID); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns the owner's records applying optional case-insensitive
// substring filters on name and classification. Ordering is newest first
// with the id as a tie breaker, so identical queries return identical
// orders.
func (r *FileRepository) List(ctx context.Context, ownerID string, filter models.FileFilter) ([]models.FileRecord, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT id, owner_id, file_name, file_path, classification, uploaded_at
FROM file_records WHERE owner_id = $1`)
	args := []interface{}{ownerID}

	if filter.NameContains != "" {
		args = append(args, "%"+filter.NameContains+"%")
		builder.WriteString(fmt.Sprintf(" AND file_name ILIKE $%d", len(args)))
	}
	if filter.ClassificationContains != "" {
		args = append(args, "%"+filter.ClassificationContains+"%")
		builder.WriteString(fmt.Sprintf(" AND classification ILIKE $%d", len(args)))
	}
	builder.WriteString(" ORDER BY uploaded_at DESC, id ASC")

	var records []models.FileRecord
	if err := r.db.SelectContext(ctx, &records, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list file records: %w", err)
	}
	return records, nil
}

// UpdateClassification mutates only the classification field and returns the
// updated record. sql.ErrNoRows signals an unknown id for the owner.
func (r *FileRepository) UpdateClassification(ctx context.Context, id, ownerID, classification string) (*models.FileRecord, error) {
	const query = `UPDATE file_records SET classification = $3
WHERE id = $1 AND owner_id = $2
RETURNING id, owner_id, file_name, file_path, classification, uploaded_at`
	var record models.FileRecord
	if err := r.db.GetContext(ctx, &record, query, id, ownerID, classification); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes the record and returns the storage path it referenced so
// the caller can attempt physical removal. sql.ErrNoRows signals an unknown
// id for the owner.
func (r *FileRepository) Delete(ctx context.Context, id, ownerID string) (string, error) {
	const query = `DELETE FROM file_records WHERE id = $1 AND owner_id = $2 RETURNING file_path`
	var filePath string
	if err := r.db.GetContext(ctx, &filePath, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sql.ErrNoRows
		}
		return "", fmt.Errorf("delete file record: %w", err)
	}
	return filePath, nil
}
