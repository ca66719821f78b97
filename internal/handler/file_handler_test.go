package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/doc-vault-api/internal/dto"
	"github.com/noah-isme/doc-vault-api/internal/middleware"
	"github.com/noah-isme/doc-vault-api/internal/models"
	"github.com/noah-isme/doc-vault-api/internal/service"
	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
)

type fileServiceMock struct {
	records   map[string]*models.FileRecord
	order     []string
	labels    []string
	ingestErr error
}

func newFileServiceMock() *fileServiceMock {
	return &fileServiceMock{
		records: make(map[string]*models.FileRecord),
		labels:  models.DefaultClassificationOptions,
	}
}

func (m *fileServiceMock) Ingest(ctx context.Context, ownerID string, uploads []service.Upload) ([]service.IngestOutcome, []string, error) {
	if m.ingestErr != nil {
		return nil, nil, m.ingestErr
	}
	outcomes := make([]service.IngestOutcome, 0, len(uploads))
	for _, upload := range uploads {
		if strings.HasPrefix(upload.FileName, "fail") {
			outcomes = append(outcomes, service.IngestOutcome{
				FileName: upload.FileName,
				Err:      appErrors.Clone(appErrors.ErrStorage, "failed to store file"),
			})
			continue
		}
		id := fmt.Sprintf("file-%d", len(m.records)+1)
		record := &models.FileRecord{
			ID:             id,
			OwnerID:        ownerID,
			FileName:       upload.FileName,
			FilePath:       "user_" + ownerID + "/" + upload.FileName,
			Classification: m.labels[0],
			UploadedAt:     time.Now(),
		}
		m.records[id] = record
		m.order = append(m.order, id)
		outcomes = append(outcomes, service.IngestOutcome{
			ID:             record.ID,
			FileName:       record.FileName,
			FilePath:       record.FilePath,
			Classification: record.Classification,
		})
	}
	return outcomes, m.labels, nil
}

func (m *fileServiceMock) List(ctx context.Context, ownerID string, filter models.FileFilter) ([]models.FileRecord, error) {
	result := make([]models.FileRecord, 0, len(m.records))
	for _, id := range m.order {
		record, ok := m.records[id]
		if !ok || record.OwnerID != ownerID {
			continue
		}
		if filter.NameContains != "" && !strings.Contains(strings.ToLower(record.FileName), strings.ToLower(filter.NameContains)) {
			continue
		}
		if filter.ClassificationContains != "" && !strings.Contains(strings.ToLower(record.Classification), strings.ToLower(filter.ClassificationContains)) {
			continue
		}
		result = append(result, *record)
	}
	return result, nil
}

func (m *fileServiceMock) UpdateClassification(ctx context.Context, ownerID string, req dto.UpdateClassificationRequest) (*models.FileRecord, error) {
	record, ok := m.records[req.ID]
	if !ok || record.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	record.Classification = req.Classification
	copied := *record
	return &copied, nil
}

func (m *fileServiceMock) Delete(ctx context.Context, ownerID string, req dto.DeleteFileRequest) error {
	record, ok := m.records[req.ID]
	if !ok || record.OwnerID != ownerID {
		return appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	delete(m.records, req.ID)
	return nil
}

func (m *fileServiceMock) GetDownloadURL(ctx context.Context, ownerID, id string) (*dto.DownloadURLResponse, error) {
	record, ok := m.records[id]
	if !ok || record.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	return &dto.DownloadURLResponse{
		ID:          id,
		DownloadURL: "/api/v1/files/" + id + "/download?token=tok",
		ExpiresAt:   time.Now().Add(time.Minute),
	}, nil
}

func (m *fileServiceMock) Download(ctx context.Context, ownerID, id, token string) (*service.FileDownload, error) {
	record, ok := m.records[id]
	if !ok || record.OwnerID != ownerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
	}
	if token != "tok" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid or expired token")
	}
	return &service.FileDownload{
		Content:  httptestBody("hello"),
		FileName: record.FileName,
		Size:     5,
	}, nil
}

func httptestBody(s string) *nopCloser {
	return &nopCloser{Reader: strings.NewReader(s)}
}

type nopCloser struct {
	*strings.Reader
}

func (n *nopCloser) Close() error { return nil }

type optionServiceMock struct {
	options []string
	err     error
}

func (m *optionServiceMock) Options(ctx context.Context, ownerID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.options, nil
}

func newTestRouter(files *fileServiceMock, options *optionServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Owner("X-Owner-ID", "1"))

	fileHandler := NewFileHandler(files, nil, nil)
	router.POST("/upload/", fileHandler.Upload)
	router.GET("/files/", fileHandler.List)
	router.PATCH("/files/", fileHandler.UpdateClassification)
	router.DELETE("/files/", fileHandler.Delete)
	router.GET("/files/:id/download-url", fileHandler.DownloadURL)
	router.GET("/files/:id/download", fileHandler.Download)

	if options != nil {
		router.GET("/classification-options/", NewOptionHandler(options).List)
	}
	return router
}

func multipartUpload(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range names {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestFileHandlerUpload(t *testing.T) {
	router := newTestRouter(newFileServiceMock(), nil)

	body, contentType := multipartUpload(t, "scan.jpg", "contract.pdf")
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.UploadedFiles, 2)
	require.Equal(t, models.DefaultClassificationOptions, resp.OptionsUsed)
}

func TestFileHandlerUploadEmpty(t *testing.T) {
	router := newTestRouter(newFileServiceMock(), nil)

	body, contentType := multipartUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileHandlerUploadPartialFailure(t *testing.T) {
	router := newTestRouter(newFileServiceMock(), nil)

	body, contentType := multipartUpload(t, "good.pdf", "fail.pdf")
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		UploadedFiles []map[string]interface{} `json:"uploaded_files"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.UploadedFiles, 2)
	require.NotEmpty(t, resp.UploadedFiles[0]["id"])
	require.Equal(t, "fail.pdf", resp.UploadedFiles[1]["file_name"])
	require.NotEmpty(t, resp.UploadedFiles[1]["error"])
}

func TestFileHandlerListFilters(t *testing.T) {
	files := newFileServiceMock()
	router := newTestRouter(files, nil)

	body, contentType := multipartUpload(t, "invoice-march.pdf", "photo.png")
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/?q=INVOICE", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListFilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 1)
	require.Equal(t, "invoice-march.pdf", resp.Files[0].FileName)
}

func TestFileHandlerUpdateClassification(t *testing.T) {
	files := newFileServiceMock()
	files.records["file-1"] = &models.FileRecord{ID: "file-1", OwnerID: "1", FileName: "a.pdf"}
	files.order = []string{"file-1"}
	router := newTestRouter(files, nil)

	payload, _ := json.Marshal(dto.UpdateClassificationRequest{ID: "file-1", Classification: "Tax Form"})
	req := httptest.NewRequest(http.MethodPatch, "/files/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.UpdateClassificationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "file-1", resp.ID)
	require.Equal(t, "Tax Form", resp.Classification)
}

func TestFileHandlerUpdateClassificationNotFound(t *testing.T) {
	router := newTestRouter(newFileServiceMock(), nil)

	payload, _ := json.Marshal(dto.UpdateClassificationRequest{ID: "missing", Classification: "Invoice"})
	req := httptest.NewRequest(http.MethodPatch, "/files/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileHandlerUpdateClassificationMissingFields(t *testing.T) {
	router := newTestRouter(newFileServiceMock(), nil)

	req := httptest.NewRequest(http.MethodPatch, "/files/", strings.NewReader(`{"id":"file-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileHandlerDeleteByBody(t *testing.T) {
	files := newFileServiceMock()
	files.records["file-1"] = &models.FileRecord{ID: "file-1", OwnerID: "1", FileName: "a.pdf"}
	files.order = []string{"file-1"}
	router := newTestRouter(files, nil)

	req := httptest.NewRequest(http.MethodDelete, "/files/", strings.NewReader(`{"id":"file-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.DeleteFileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "file-1", resp.ID)
	require.Empty(t, files.records)
}

func TestFileHandlerDeleteByQueryParam(t *testing.T) {
	files := newFileServiceMock()
	files.records["file-1"] = &models.FileRecord{ID: "file-1", OwnerID: "1", FileName: "a.pdf"}
	files.order = []string{"file-1"}
	router := newTestRouter(files, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/files/?id=file-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, files.records)
}

func TestFileHandlerDeleteNotFound(t *testing.T) {
	router := newTestRouter(newFileServiceMock(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/files/?id=missing", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileHandlerDownloadFlow(t *testing.T) {
	files := newFileServiceMock()
	files.records["file-1"] = &models.FileRecord{ID: "file-1", OwnerID: "1", FileName: "a.pdf"}
	files.order = []string{"file-1"}
	router := newTestRouter(files, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/file-1/download-url", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var urlResp dto.DownloadURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &urlResp))
	require.Contains(t, urlResp.DownloadURL, "token=")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/file-1/download?token=tok", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "hello", w.Body.String())
	require.Contains(t, w.Header().Get("Content-Disposition"), "a.pdf")
}

// Full lifecycle at the HTTP layer: upload a batch, list with filters,
// reclassify, fetch the catalog, delete, verify the listing shrinks.
func TestFileAPILifecycle(t *testing.T) {
	files := newFileServiceMock()
	options := &optionServiceMock{options: models.DefaultClassificationOptions}
	router := newTestRouter(files, options)

	body, contentType := multipartUpload(t, "scan.jpg", "scan.jpg")
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var uploadResp struct {
		UploadedFiles []map[string]interface{} `json:"uploaded_files"`
		OptionsUsed   []string                 `json:"options_used"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploadResp))
	require.Len(t, uploadResp.UploadedFiles, 2)
	require.Equal(t, models.DefaultClassificationOptions, uploadResp.OptionsUsed)
	firstID := uploadResp.UploadedFiles[0]["id"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/classification-options/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var optionsResp dto.OptionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &optionsResp))
	require.Equal(t, models.DefaultClassificationOptions, optionsResp.Options)

	payload, _ := json.Marshal(dto.UpdateClassificationRequest{ID: firstID, Classification: "Contract"})
	req = httptest.NewRequest(http.MethodPatch, "/files/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/?classification=contract", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var listResp dto.ListFilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Files, 1)
	require.Equal(t, firstID, listResp.Files[0].ID)

	req = httptest.NewRequest(http.MethodDelete, "/files/", strings.NewReader(`{"id":"`+firstID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/", nil))
	var remaining dto.ListFilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &remaining))
	require.Len(t, remaining.Files, 1)
}

func TestFileHandlerOwnerIsolation(t *testing.T) {
	files := newFileServiceMock()
	files.records["file-1"] = &models.FileRecord{ID: "file-1", OwnerID: "1", FileName: "a.pdf"}
	files.order = []string{"file-1"}
	router := newTestRouter(files, nil)

	req := httptest.NewRequest(http.MethodGet, "/files/", nil)
	req.Header.Set("X-Owner-ID", "2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListFilesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp.Files)
}
