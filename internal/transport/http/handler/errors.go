package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"renewal-tracker/internal/domain"
	resp "renewal-tracker/internal/transport/http/response"
)

// writeError maps the service error taxonomy onto the JSON envelope.
// Nothing propagates past the handlers uncaught; unknown errors become a
// 500 with fixed wording and get attached to the gin context for the
// access log.
func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		resp.FailFields(c, http.StatusUnprocessableEntity, resp.MsgValidation, ve.Fields)
	case errors.Is(err, domain.ErrInvalidCredentials):
		resp.Fail(c, http.StatusUnauthorized, resp.MsgInvalidCredentials)
	case errors.Is(err, domain.ErrUnauthenticated):
		resp.Fail(c, http.StatusUnauthorized, resp.MsgUnauthenticated)
	case errors.Is(err, domain.ErrNotFound):
		resp.Fail(c, http.StatusNotFound, resp.MsgNotFound)
	case errors.Is(err, domain.ErrInvalidStatus):
		resp.Fail(c, http.StatusBadRequest, "status must be one of active, expired, cancelled")
	default:
		_ = c.Error(err)
		resp.Fail(c, http.StatusInternalServerError, resp.MsgUnexpected)
	}
}
