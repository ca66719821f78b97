package service

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/doc-vault-api/internal/models"
	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
	"github.com/noah-isme/doc-vault-api/pkg/export"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportResult holds a rendered listing ready to be written to the client.
type ExportResult struct {
	Content     []byte
	ContentType string
	FileName    string
}

type fileLister interface {
	List(ctx context.Context, ownerID string, filter models.FileFilter) ([]models.FileRecord, error)
}

// ExportService renders the file listing as CSV or PDF.
type ExportService struct {
	files fileLister
}

func NewExportService(files fileLister) *ExportService {
	return &ExportService{files: files}
}

// Listing exports the owner's records matching filter in the given format.
func (s *ExportService) Listing(ctx context.Context, ownerID, format string, filter models.FileFilter) (*ExportResult, error) {
	records, err := s.files.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "File Name", "Classification", "Uploaded At"},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, record := range records {
		dataset.Rows = append(dataset.Rows, []string{
			record.ID,
			record.FileName,
			record.Classification,
			record.UploadedAt.Format(time.RFC3339),
		})
	}

	stamp := time.Now().Format("20060102_150405")
	switch format {
	case ExportFormatCSV:
		content, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			FileName:    fmt.Sprintf("files_%s.csv", stamp),
		}, nil
	case ExportFormatPDF:
		content, err := export.NewPDFExporter().Render(dataset, "File Listing")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			FileName:    fmt.Sprintf("files_%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
