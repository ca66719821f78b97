package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/doc-vault-api/internal/models"
	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
)

type listerStub struct {
	records []models.FileRecord
	filter  models.FileFilter
}

func (l *listerStub) List(ctx context.Context, ownerID string, filter models.FileFilter) ([]models.FileRecord, error) {
	l.filter = filter
	return l.records, nil
}

func TestExportServiceCSV(t *testing.T) {
	lister := &listerStub{records: []models.FileRecord{
		{ID: "file-1", FileName: "scan.jpg", Classification: "Invoice", UploadedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "file-2", FileName: "contract.pdf", Classification: "", UploadedAt: time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)},
	}}
	svc := NewExportService(lister)

	result, err := svc.Listing(context.Background(), "1", ExportFormatCSV, models.FileFilter{NameContains: "a"})
	require.NoError(t, err)
	require.Equal(t, "text/csv", result.ContentType)
	require.True(t, strings.HasPrefix(result.FileName, "files_"))
	require.True(t, strings.HasSuffix(result.FileName, ".csv"))
	require.Equal(t, "a", lister.filter.NameContains)

	content := string(result.Content)
	require.Contains(t, content, "ID,File Name,Classification,Uploaded At")
	require.Contains(t, content, "file-1,scan.jpg,Invoice,2026-03-01T10:00:00Z")
	require.Contains(t, content, "file-2,contract.pdf,,2026-03-02T11:00:00Z")
}

func TestExportServicePDF(t *testing.T) {
	lister := &listerStub{records: []models.FileRecord{
		{ID: "file-1", FileName: "scan.jpg", Classification: "Invoice", UploadedAt: time.Now()},
	}}
	svc := NewExportService(lister)

	result, err := svc.Listing(context.Background(), "1", ExportFormatPDF, models.FileFilter{})
	require.NoError(t, err)
	require.Equal(t, "application/pdf", result.ContentType)
	require.True(t, strings.HasSuffix(result.FileName, ".pdf"))
	require.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := NewExportService(&listerStub{})

	_, err := svc.Listing(context.Background(), "1", "xml", models.FileFilter{})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
