package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/doc-vault-api/internal/dto"
	"github.com/noah-isme/doc-vault-api/internal/middleware"
	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
	"github.com/noah-isme/doc-vault-api/pkg/response"
)

type optionService interface {
	Options(ctx context.Context, ownerID string) ([]string, error)
}

// OptionHandler serves the classification option catalog.
type OptionHandler struct {
	service optionService
}

// NewOptionHandler constructs the handler.
func NewOptionHandler(service optionService) *OptionHandler {
	return &OptionHandler{service: service}
}

// List godoc
// @Summary List classification options
// @Tags Options
// @Produce json
// @Success 200 {object} dto.OptionsResponse
// @Router /classification-options/ [get]
func (h *OptionHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "option service not configured"))
		return
	}
	options, err := h.service.Options(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if options == nil {
		options = []string{}
	}
	response.JSON(c, http.StatusOK, dto.OptionsResponse{Options: options})
}
