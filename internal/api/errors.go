// ABOUTME: Maps classified errors to HTTP status codes and JSON error bodies.
// ABOUTME: Every failure response carries a message, a code and, for store failures, the step.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harperreed/liftlog/internal/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Step  string `json:"step,omitempty"`
}

// MessageResponse confirms a deletion.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err. Endpoints that must not reveal whether another
// user's record exists pass hideForbidden, which reports Forbidden as
// NotFound.
func respondError(c *gin.Context, err error, hideForbidden bool) {
	kind := apperr.KindOf(err)
	msg := err.Error()
	if hideForbidden && kind == apperr.KindForbidden {
		kind = apperr.KindNotFound
		msg = "not found"
	}

	status := statusFor(kind)
	body := ErrorResponse{Error: msg, Code: kind.String(), Step: apperr.StepOf(err)}
	if status >= http.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Str("step", body.Step).Msg("request failed")
		if kind == apperr.KindStoreFailure {
			body.Error = "store call failed; retry the request"
		} else {
			body.Error = "internal error"
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the request body, reporting failures as invalid input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.InvalidInput("invalid request body: %v", err), false)
		return false
	}
	return true
}
