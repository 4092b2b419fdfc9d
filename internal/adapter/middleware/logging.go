package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"chapter-fund-ledger/internal/infrastructure/logger"
)

// RequestLogger writes one structured line per request. Server errors log at
// error level, rejected requests at warn.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	log = log.WithComponent(logger.ComponentHTTP)
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				logger.FieldMethod, v.Method,
				logger.FieldPath, v.URI,
				logger.FieldStatusCode, v.Status,
				logger.FieldDuration, v.Latency.Milliseconds(),
				logger.FieldClientIP, v.RemoteIP,
			}
			if v.RequestID != "" {
				attrs = append(attrs, logger.FieldRequestID, v.RequestID)
			}
			if caller, ok := CallerFrom(c); ok {
				attrs = append(attrs, logger.FieldMemberID, caller.MemberID, logger.FieldClubID, caller.ClubID)
			}
			ctx := c.Request().Context()
			switch {
			case v.Error != nil && v.Status >= http.StatusInternalServerError:
				log.ErrorContext(ctx, "request failed", append(attrs, logger.FieldError, v.Error)...)
				return nil
			case v.Error != nil:
				log.WarnContext(ctx, "request rejected", append(attrs, logger.FieldError, v.Error)...)
				return nil
			}
			log.InfoContext(ctx, "request", attrs...)
			return nil
		},
	})
}
