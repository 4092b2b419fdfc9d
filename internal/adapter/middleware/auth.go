package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"chapter-fund-ledger/internal/domain/apperr"
	"chapter-fund-ledger/internal/domain/member"
)

const (
	subjectKey = "auth.subject"
	callerKey  = "auth.caller"
)

// CallerResolver maps a verified identity to the member acting in a request.
type CallerResolver interface {
	Resolve(ctx context.Context, authID string) (member.Caller, error)
}

// Authenticate verifies an HS256 bearer token and stores its subject, the
// external identity id. Tokens must carry an expiry; when issuer is set it
// must match.
func Authenticate(secret []byte, issuer string) echo.MiddlewareFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return fmt.Errorf("missing bearer token: %w", apperr.ErrUnauthenticated)
			}
			var claims jwt.RegisteredClaims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				return fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
			}
			if strings.TrimSpace(claims.Subject) == "" {
				return fmt.Errorf("token without subject: %w", apperr.ErrUnauthenticated)
			}
			c.Set(subjectKey, claims.Subject)
			return next(c)
		}
	}
}

// RequireMember resolves the authenticated subject to an active member and
// stores the Caller for handlers.
func RequireMember(res CallerResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := res.Resolve(c.Request().Context(), Subject(c))
			if err != nil {
				return err
			}
			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

// Subject returns the verified token subject, or "".
func Subject(c echo.Context) string {
	s, _ := c.Get(subjectKey).(string)
	return s
}

func CallerFrom(c echo.Context) (member.Caller, bool) {
	caller, ok := c.Get(callerKey).(member.Caller)
	return caller, ok
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}
