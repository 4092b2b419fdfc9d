package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"chapter-fund-ledger/internal/adapter/middleware"
	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/pkg/id"
)

const dateLayout = "2006-01-02"

// bind decodes the JSON body into req and runs struct validation. Field
// failures surface as apperr validation errors.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return &apperr.ValidationError{Fields: ToFieldErrors(err)}
	}
	return nil
}

func callerOf(c echo.Context) (member.Caller, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return member.Caller{}, apperr.ErrUnauthenticated
	}
	return caller, nil
}

// pathID reads a 32-char hex path parameter.
func pathID(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if !id.Valid(v) {
		return "", apperr.Validation(name, "must be 32-char lowercase hex")
	}
	return v, nil
}

// parseDate parses a YYYY-MM-DD value already checked by the validator.
func parseDate(s string) time.Time {
	t, _ := time.ParseInLocation(dateLayout, s, time.UTC)
	return t
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t := parseDate(*s)
	return &t
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(c echo.Context, name string) (*time.Time, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return nil, apperr.Validation(name, "must be a date in "+dateLayout+" format")
	}
	return &t, nil
}

func queryBool(c echo.Context, name string) (bool, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, apperr.Validation(name, "must be a boolean")
	}
	return b, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperr.Validation(name, "must be a non-negative integer")
	}
	return n, nil
}
