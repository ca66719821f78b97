package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/doc-vault-api/internal/classifier"
	"github.com/noah-isme/doc-vault-api/internal/dto"
	"github.com/noah-isme/doc-vault-api/internal/models"
	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
)

type fileStore interface {
	Create(ctx context.Context, record *models.FileRecord) error
	GetByID(ctx context.Context, id, ownerID string) (*models.FileRecord, error)
	List(ctx context.Context, ownerID string, filter models.FileFilter) ([]models.FileRecord, error)
	UpdateClassification(ctx context.Context, id, ownerID, classification string) (*models.FileRecord, error)
	Delete(ctx context.Context, id, ownerID string) (string, error)
}

// BlobStorage is the physical file store the service writes through. Local
// disk and S3 implementations live in pkg/storage.
type BlobStorage interface {
	Store(ctx context.Context, ownerID, displayName string, r io.Reader, size int64) (string, error)
	Open(ctx context.Context, relPath string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, relPath string) error
}

type optionsProvider interface {
	EnsureSeeded(ctx context.Context, ownerID string) error
	List(ctx context.Context, ownerID string) ([]string, error)
}

type downloadSigner interface {
	Generate(fileID, relPath string) (string, time.Time, error)
	Parse(token string) (fileID, relPath string, expiresAt time.Time, err error)
}

// Upload is one file submitted for ingestion.
type Upload struct {
	FileName string
	Content  []byte
}

// IngestOutcome reports one file's fate. Err is set when the file was not
// ingested; the other fields are set when it was.
type IngestOutcome struct {
	ID             string
	FileName       string
	FilePath       string
	Classification string
	Err            error
}

// FileDownload bundles a stored file's reader with response metadata.
type FileDownload struct {
	Content  io.ReadCloser
	FileName string
	Size     int64
}

// FileServiceConfig tunes ingestion limits and URL generation.
type FileServiceConfig struct {
	MaxFileSize int64
	APIPrefix   string
}

// FileService composes storage, classification and metadata persistence for
// the upload, list, update and delete flows.
type FileService struct {
	repo       fileStore
	storage    BlobStorage
	options    optionsProvider
	classifier classifier.Classifier
	signer     downloadSigner
	validate   *validator.Validate
	logger     *zap.Logger
	cfg        FileServiceConfig
}

// NewFileService constructs the service with defaults.
func NewFileService(repo fileStore, storage BlobStorage, options optionsProvider, clf classifier.Classifier, signer downloadSigner, validate *validator.Validate, logger *zap.Logger, cfg FileServiceConfig) *FileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 25 * 1024 * 1024
	}
	return &FileService{
		repo:       repo,
		storage:    storage,
		options:    options,
		classifier: clf,
		signer:     signer,
		validate:   validate,
		logger:     logger,
		cfg:        cfg,
	}
}

// Ingest stores, classifies and records a batch of files. Files fail
// independently: a storage error is reported in that file's outcome and the
// rest of the batch proceeds. Outcomes preserve input order. The returned
// labels are the option set the classifier drew from.
func (s *FileService) Ingest(ctx context.Context, ownerID string, uploads []Upload) ([]IngestOutcome, []string, error) {
	if len(uploads) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "no files provided")
	}

	// Seed once per batch, not per file.
	if err := s.options.EnsureSeeded(ctx, ownerID); err != nil {
		s.logger.Warn("failed to seed classification options", zap.Error(err), zap.String("owner_id", ownerID))
	}
	labels, err := s.options.List(ctx, ownerID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classification options")
	}

	outcomes := make([]IngestOutcome, 0, len(uploads))
	for _, upload := range uploads {
		outcomes = append(outcomes, s.ingestOne(ctx, ownerID, upload, labels))
	}
	return outcomes, labels, nil
}

func (s *FileService) ingestOne(ctx context.Context, ownerID string, upload Upload, labels []string) IngestOutcome {
	outcome := IngestOutcome{FileName: upload.FileName}

	if int64(len(upload.Content)) > s.cfg.MaxFileSize {
		outcome.Err = appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
		return outcome
	}

	relPath, err := s.storage.Store(ctx, ownerID, upload.FileName, bytes.NewReader(upload.Content), int64(len(upload.Content)))
	if err != nil {
		s.logger.Warn("failed to store uploaded file",
			zap.Error(err), zap.String("owner_id", ownerID), zap.String("file_name", upload.FileName))
		outcome.Err = appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store file")
		return outcome
	}

	label, err := s.classifier.Classify(ctx, classifier.Input{FileName: upload.FileName, Content: upload.Content}, labels)
	if err != nil {
		// A labeling failure never aborts ingestion; the record is
		// created unclassified.
		s.logger.Warn("classification failed, leaving record unclassified",
			zap.Error(err), zap.String("file_name", upload.FileName))
		label = ""
	}

	record := &models.FileRecord{
		OwnerID:        ownerID,
		FileName:       upload.FileName,
		FilePath:       relPath,
		Classification: label,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if delErr := s.storage.Delete(ctx, relPath); delErr != nil {
			s.logger.Warn("failed to remove stored file after create failure",
				zap.Error(delErr), zap.String("file_path", relPath))
		}
		outcome.Err = err
		return outcome
	}

	outcome.ID = record.ID
	outcome.FilePath = record.FilePath
	outcome.Classification = record.Classification
	return outcome
}

// List returns the owner's records matching the optional filters.
func (s *FileService) List(ctx context.Context, ownerID string, filter models.FileFilter) ([]models.FileRecord, error) {
	records, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list files")
	}
	return records, nil
}

// UpdateClassification replaces one record's label with arbitrary text. The
// label is deliberately not validated against the owner's option set.
func (s *FileService) UpdateClassification(ctx context.Context, ownerID string, req dto.UpdateClassificationRequest) (*models.FileRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id and classification are required")
	}
	record, err := s.repo.UpdateClassification(ctx, req.ID, ownerID, req.Classification)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update classification")
	}
	return record, nil
}

// Delete removes the metadata record, then attempts to remove the backing
// bytes. The record removal is the source of truth and is never rolled back:
// a leftover file on disk is logged and tolerated, a dangling record is not.
func (s *FileService) Delete(ctx context.Context, ownerID string, req dto.DeleteFileRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	relPath, err := s.repo.Delete(ctx, req.ID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete file record")
	}

	if err := s.storage.Delete(ctx, relPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("stored file already absent", zap.String("file_path", relPath))
		} else {
			s.logger.Warn("failed to remove stored file, orphan left behind",
				zap.Error(err), zap.String("file_path", relPath), zap.String("owner_id", ownerID))
		}
	}
	return nil
}

// GetDownloadURL returns a signed, time-limited link for the stored bytes.
func (s *FileService) GetDownloadURL(ctx context.Context, ownerID, id string) (*dto.DownloadURLResponse, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "download signer unavailable")
	}
	record, err := s.getRecord(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(record.ID, record.FilePath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate download token")
	}
	base := strings.TrimRight(s.cfg.APIPrefix, "/")
	return &dto.DownloadURLResponse{
		ID:          record.ID,
		DownloadURL: fmt.Sprintf("%s/files/%s/download?token=%s", base, record.ID, token),
		ExpiresAt:   expiresAt,
	}, nil
}

// Download validates the token and opens the stored bytes for streaming.
func (s *FileService) Download(ctx context.Context, ownerID, id, token string) (*FileDownload, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "download signer unavailable")
	}
	record, err := s.getRecord(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	fileID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid or expired token")
	}
	if fileID != record.ID || relPath != record.FilePath {
		return nil, appErrors.Clone(appErrors.ErrValidation, "token mismatch")
	}
	content, size, err := s.storage.Open(ctx, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to open stored file")
	}
	return &FileDownload{Content: content, FileName: record.FileName, Size: size}, nil
}

func (s *FileService) getRecord(ctx context.Context, id, ownerID string) (*models.FileRecord, error) {
	record, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load file record")
	}
	return record, nil
}
