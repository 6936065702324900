package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendmoni/models"
	"trendmoni/services"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status, body := classify(err)
	c.JSON(status, body)
}

func classify(err error) (int, ErrorResponse) {
	var (
		verr *models.InputValidationError
		aerr *models.AuthError
		serr *models.StoreError
		berr *bindError
	)
	switch {
	case errors.As(err, &berr):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "BAD_REQUEST"}
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Code: "VALIDATION_ERROR", Details: verr.Problems}
	case errors.As(err, &aerr):
		return http.StatusUnauthorized, ErrorResponse{Error: aerr.Error(), Code: "AUTH_ERROR"}
	case errors.Is(err, services.ErrProfileNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "PROFILE_NOT_FOUND"}
	case errors.Is(err, errUnknownView):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"}
	case errors.As(err, &serr):
		return http.StatusInternalServerError, ErrorResponse{Error: "profile store unavailable", Code: "STORE_ERROR"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "INTERNAL_ERROR"}
	}
}

// bindError wraps a malformed request body.
type bindError struct{ err error }

func (e *bindError) Error() string { return "malformed request: " + e.err.Error() }
func (e *bindError) Unwrap() error { return e.err }
