package server

import (
	"context"
	"strings"
	"time"

	"projecthub/internal/middleware"
	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/session"

	"github.com/gofiber/fiber/v2"
)

const (
	localScope  = "scope"
	localClaims = "claims"
)

// requestScope is what a handler knows about the caller. It is built once per
// request by Authenticate and passed around explicitly.
type requestScope struct {
	Principal models.Principal
	Ctx       context.Context
}

// User returns the authenticated user, or nil for anonymous callers.
func (rs requestScope) User() *models.User {
	u, _ := rs.Principal.(*models.User)
	return u
}

// scopeOf returns the scope stored by Authenticate, falling back to an
// anonymous scope for routes mounted without it.
func scopeOf(c *fiber.Ctx) requestScope {
	if rs, ok := c.Locals(localScope).(requestScope); ok {
		return rs
	}
	return requestScope{Principal: models.Anonymous{}, Ctx: c.UserContext()}
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// Authenticate resolves the caller from the bearer token. A missing or
// invalid token leaves the caller anonymous; AuthRequired decides whether
// that is acceptable.
func (s *Server) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rs := requestScope{Principal: models.Anonymous{}, Ctx: c.UserContext()}

		if token := bearerToken(c); token != "" {
			user, claims, err := s.resolveToken(rs.Ctx, token)
			if err != nil {
				observability.Ctx(rs.Ctx).Debug().Err(err).Msg("ignoring bearer token")
			} else {
				rs.Principal = user
				rs.Ctx = observability.WithUserID(rs.Ctx, user.ID)
				c.Locals(middleware.LocalUserID, user.ID)
				c.Locals(localClaims, claims)
				c.SetUserContext(rs.Ctx)
			}
		}

		c.Locals(localScope, rs)
		return c.Next()
	}
}

func (s *Server) resolveToken(ctx context.Context, token string) (*models.User, *session.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		observability.Ctx(ctx).Warn().Err(err).Msg("revocation check failed")
	}
	if revoked {
		return nil, nil, session.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, err
	}
	user, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// AuthRequired rejects anonymous callers with 401.
// Must be placed after Authenticate.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !scopeOf(c).Principal.IsAuthenticated() {
			msg := "Authorization required"
			if bearerToken(c) != "" {
				msg = "Invalid or expired token"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msg))
		}
		return c.Next()
	}
}

// tokenTTL is how long the caller's token remains valid.
func tokenTTL(c *fiber.Ctx) (string, time.Duration) {
	claims, ok := c.Locals(localClaims).(*session.Claims)
	if !ok || claims.ExpiresAt == nil {
		return "", 0
	}
	return claims.ID, time.Until(claims.ExpiresAt.Time)
}
