package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/doc-vault-api/internal/middleware"
	"github.com/noah-isme/doc-vault-api/internal/models"
	"github.com/noah-isme/doc-vault-api/internal/service"
	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
)

type exportServiceMock struct {
	format string
	filter models.FileFilter
}

func (m *exportServiceMock) Listing(ctx context.Context, ownerID, format string, filter models.FileFilter) (*service.ExportResult, error) {
	m.format = format
	m.filter = filter
	if format != service.ExportFormatCSV && format != service.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	return &service.ExportResult{
		Content:     []byte("id,file_name\n"),
		ContentType: "text/csv",
		FileName:    "files_20260301_100000.csv",
	}, nil
}

func newExportRouter(export *exportServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Owner("X-Owner-ID", "1"))
	router.GET("/files/export", NewFileHandler(newFileServiceMock(), export, nil).Export)
	return router
}

func TestFileHandlerExportDefaultsToCSV(t *testing.T) {
	export := &exportServiceMock{}
	router := newExportRouter(export)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/export?q=invoice", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, service.ExportFormatCSV, export.format)
	require.Equal(t, "invoice", export.filter.NameContains)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
}

func TestFileHandlerExportUnknownFormat(t *testing.T) {
	router := newExportRouter(&exportServiceMock{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/export?format=xml", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
}
