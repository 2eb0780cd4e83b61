package middleware

// identity.go defines helper functions shared across middleware files.
// Currently it provides a userID extraction function that reads the
// identifier JWTAuth stored in the Echo context. When no user is
// authenticated, "guest" is returned so cache and rate-limit keys still
// partition sensibly on public routes.

import (
    "github.com/labstack/echo/v4"
)

// userID extracts a user identifier from context. It returns "guest"
// when no user is authenticated.
func userID(c echo.Context) string {
    if v, ok := c.Get("user_id").(string); ok && v != "" {
        return v
    }
    return "guest"
}
