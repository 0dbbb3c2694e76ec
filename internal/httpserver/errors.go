package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"qkart/internal/domain"
)

type errorResponse struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// writeError renders err as {"code","message"} with the status the domain
// assigns to it. Causes of 500s are logged and never sent to the client.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	status := domain.StatusCode(err)
	resp := errorResponse{Code: status, Message: err.Error()}

	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = verrs
	}
	if status >= http.StatusInternalServerError {
		cause := err
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Err != nil {
			cause = apiErr.Err
		}
		logger.Printf("%s %s request_id=%s error=%v", c.Request.Method, c.Request.URL.Path, c.GetString(requestIDKey), cause)
		resp.Message = http.StatusText(status)
		resp.Details = nil
	}
	c.AbortWithStatusJSON(status, resp)
}

// bindError turns a request binding failure into a 400.
func bindError(err error) error {
	converted := domain.FromValidator(err)
	var verrs domain.ValidationErrors
	if errors.As(converted, &verrs) {
		return converted
	}
	return domain.InvalidRequest("Invalid request body")
}
