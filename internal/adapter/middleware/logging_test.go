package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"chapter-fund-ledger/internal/domain/member"
	"chapter-fund-ledger/internal/infrastructure/logger"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(callerKey, member.Caller{MemberID: "m-1", ClubID: "c-1"})
			return next(c)
		}
	})
	e.Use(RequestLogger(logger.New(logger.Config{Output: &buf})))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(echo.Context) error { return errors.New("db down") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	line := buf.String()
	for _, want := range []string{"msg=request", "component=http", "path=/ok", "status_code=204", "member_id=m-1"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}

	buf.Reset()
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	line = buf.String()
	if !strings.Contains(line, "level=ERROR") || !strings.Contains(line, "db down") || !strings.Contains(line, "status_code=500") {
		t.Errorf("error log line %q", line)
	}
}
