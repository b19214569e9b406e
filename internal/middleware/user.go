package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	// UserIDHeader is the header carrying the caller's user ID
	UserIDHeader = "X-User-ID"
	// ContextKeyUserID is the context key for the resolved user ID
	ContextKeyUserID = "user_id"
)

// UserMiddleware resolves the calling user from the X-User-ID header. The API
// sits behind a gateway that authenticates the caller and forwards their ID.
type UserMiddleware struct{}

// NewUserMiddleware creates a new UserMiddleware
func NewUserMiddleware() *UserMiddleware {
	return &UserMiddleware{}
}

// Identify returns an echo middleware that requires a valid X-User-ID header
// and stores the parsed ID in the request context.
func (m *UserMiddleware) Identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(UserIDHeader)
			if header == "" {
				return unauthorizedError(c, "Missing "+UserIDHeader+" header")
			}

			userID, err := uuid.Parse(header)
			if err != nil {
				log.Debug().Str("header", header).Msg("Rejected malformed user ID header")
				return unauthorizedError(c, "Invalid "+UserIDHeader+" header")
			}

			c.Set(ContextKeyUserID, userID)
			return next(c)
		}
	}
}

// GetUserID retrieves the user ID from the echo context. Returns uuid.Nil if
// the request was not identified.
func GetUserID(c echo.Context) uuid.UUID {
	if userID, ok := c.Get(ContextKeyUserID).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
