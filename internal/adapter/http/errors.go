package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/infrastructure/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Ordered: the first sentinel matched by errors.Is wins.
var errorMappings = []errorMapping{
	{apperr.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{apperr.ErrMemberNotFound, http.StatusForbidden, "member_not_found"},
	{apperr.ErrInactive, http.StatusForbidden, "inactive"},
	{apperr.ErrWrongRole, http.StatusForbidden, "wrong_role"},
	{apperr.ErrSelfApproval, http.StatusForbidden, "self_approval"},
	{apperr.ErrSelfModification, http.StatusForbidden, "self_modification"},
	{apperr.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperr.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{apperr.ErrConflict, http.StatusConflict, "conflict"},
	{apperr.ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},
}

// statusFor maps an error returned by a handler or middleware to its HTTP
// status and response body.
func statusFor(err error) (int, ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			resp := ErrorResponse{Error: m.target.Error(), Code: m.code}
			if m.target == apperr.ErrValidation {
				resp.Details = apperr.Fields(err)
			}
			return m.status, resp
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, ErrorResponse{Error: msg, Code: codeFor(he.Code)}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "internal"}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	if status >= http.StatusInternalServerError {
		return "internal"
	}
	return fmt.Sprintf("http_%d", status)
}

// NewErrorHandler renders every error as an ErrorResponse. Internal errors
// are logged and never leak their message.
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	log = log.WithComponent(logger.ComponentHTTP)
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "unhandled error",
				logger.FieldPath, c.Request().URL.Path,
				logger.FieldError, err,
			)
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WarnContext(c.Request().Context(), "write error response", logger.FieldError, err)
		}
	}
}
