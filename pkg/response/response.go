package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/doc-vault-api/pkg/errors"
)

// ErrorBody wraps an error payload. Success payloads are written as-is to
// keep the wire contract identical to the legacy service.
type ErrorBody struct {
	Error *appErrors.Error `json:"error"`
}

// JSON sends a success response with the payload written verbatim.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, payload)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Error: appErr})
}
