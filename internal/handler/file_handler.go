package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/doc-vault-api/internal/dto"
	"github.com/noah-isme/doc-vault-api/internal/middleware"
	"github.com/noah-isme/doc-vault-api/internal/models"
	"github.com/noah-isme/doc-vault-api/internal/service"
	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
	"github.com/noah-isme/doc-vault-api/pkg/response"
)

type fileService interface {
	Ingest(ctx context.Context, ownerID string, uploads []service.Upload) ([]service.IngestOutcome, []string, error)
	List(ctx context.Context, ownerID string, filter models.FileFilter) ([]models.FileRecord, error)
	UpdateClassification(ctx context.Context, ownerID string, req dto.UpdateClassificationRequest) (*models.FileRecord, error)
	Delete(ctx context.Context, ownerID string, req dto.DeleteFileRequest) error
	GetDownloadURL(ctx context.Context, ownerID, id string) (*dto.DownloadURLResponse, error)
	Download(ctx context.Context, ownerID, id, token string) (*service.FileDownload, error)
}

type exportService interface {
	Listing(ctx context.Context, ownerID, format string, filter models.FileFilter) (*service.ExportResult, error)
}

// FileHandler manages the file metadata HTTP endpoints.
type FileHandler struct {
	service fileService
	export  exportService
	metrics *service.MetricsService
}

// NewFileHandler constructs the handler. export and metrics may be nil.
func NewFileHandler(svc fileService, export exportService, metrics *service.MetricsService) *FileHandler {
	return &FileHandler{service: svc, export: export, metrics: metrics}
}

// Upload godoc
// @Summary Upload one or more files
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files to upload"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} response.ErrorBody
// @Router /upload/ [post]
func (h *FileHandler) Upload(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "file service not configured"))
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no files provided"))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no files provided"))
		return
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
			return
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
			return
		}
		uploads = append(uploads, service.Upload{FileName: header.Filename, Content: content})
	}

	ownerID := middleware.OwnerID(c)
	outcomes, labels, err := h.service.Ingest(c.Request.Context(), ownerID, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.UploadResponse{
		UploadedFiles: make([]interface{}, 0, len(outcomes)),
		OptionsUsed:   labels,
	}
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			h.metrics.ObserveUpload(false, 0)
			resp.UploadedFiles = append(resp.UploadedFiles, dto.FailedFile{
				FileName: outcome.FileName,
				Error:    appErrors.FromError(outcome.Err).Message,
			})
			continue
		}
		h.metrics.ObserveUpload(true, int64(len(uploads[i].Content)))
		resp.UploadedFiles = append(resp.UploadedFiles, dto.UploadedFile{
			ID:             outcome.ID,
			FileName:       outcome.FileName,
			FilePath:       outcome.FilePath,
			Classification: outcome.Classification,
		})
	}
	response.JSON(c, http.StatusCreated, resp)
}

// List godoc
// @Summary List files with optional filters
// @Tags Files
// @Produce json
// @Param q query string false "Case-insensitive file name substring"
// @Param classification query string false "Case-insensitive classification substring"
// @Success 200 {object} dto.ListFilesResponse
// @Router /files/ [get]
func (h *FileHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "file service not configured"))
		return
	}
	filter := models.FileFilter{
		NameContains:           strings.TrimSpace(c.Query("q")),
		ClassificationContains: strings.TrimSpace(c.Query("classification")),
	}
	records, err := h.service.List(c.Request.Context(), middleware.OwnerID(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.ListFilesResponse{Files: make([]dto.FileView, 0, len(records))}
	for _, record := range records {
		resp.Files = append(resp.Files, dto.FileView{
			ID:             record.ID,
			FileName:       record.FileName,
			Classification: record.Classification,
			UploadedAt:     record.UploadedAt,
		})
	}
	response.JSON(c, http.StatusOK, resp)
}

// UpdateClassification godoc
// @Summary Update a file's classification
// @Tags Files
// @Accept json
// @Produce json
// @Param payload body dto.UpdateClassificationRequest true "Target record and new label"
// @Success 200 {object} dto.UpdateClassificationResponse
// @Failure 404 {object} response.ErrorBody
// @Router /files/ [patch]
func (h *FileHandler) UpdateClassification(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "file service not configured"))
		return
	}
	var req dto.UpdateClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id and classification are required"))
		return
	}
	record, err := h.service.UpdateClassification(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.UpdateClassificationResponse{
		Message:        "Classification updated",
		ID:             record.ID,
		Classification: record.Classification,
	})
}

// Delete godoc
// @Summary Delete a file record and its stored bytes
// @Tags Files
// @Accept json
// @Produce json
// @Param payload body dto.DeleteFileRequest false "Target record"
// @Param id query string false "Target record id, alternative to the body"
// @Success 200 {object} dto.DeleteFileResponse
// @Failure 404 {object} response.ErrorBody
// @Router /files/ [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "file service not configured"))
		return
	}
	var req dto.DeleteFileRequest
	// The id may come in the JSON body or as a query parameter.
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		req.ID = strings.TrimSpace(c.Query("id"))
	}
	if req.ID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id is required"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.OwnerID(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DeleteFileResponse{
		Message: "File deleted",
		ID:      req.ID,
	})
}

// DownloadURL godoc
// @Summary Get a signed download link for a file
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} dto.DownloadURLResponse
// @Router /files/{id}/download-url [get]
func (h *FileHandler) DownloadURL(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "file service not configured"))
		return
	}
	resp, err := h.service.GetDownloadURL(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Download godoc
// @Summary Download a file via signed token
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "file service not configured"))
		return
	}
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.service.Download(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.Content.Close() //nolint:errcheck
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, result.Size, "application/octet-stream", result.Content, nil)
}

// Export godoc
// @Summary Export the file listing as CSV or PDF
// @Tags Files
// @Produce octet-stream
// @Param format query string false "csv or pdf, default csv"
// @Param q query string false "Case-insensitive file name substring"
// @Param classification query string false "Case-insensitive classification substring"
// @Success 200 {file} binary
// @Router /files/export [get]
func (h *FileHandler) Export(c *gin.Context) {
	if h.export == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", service.ExportFormatCSV)))
	filter := models.FileFilter{
		NameContains:           strings.TrimSpace(c.Query("q")),
		ClassificationContains: strings.TrimSpace(c.Query("classification")),
	}
	result, err := h.export.Listing(c.Request.Context(), middleware.OwnerID(c), format, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
