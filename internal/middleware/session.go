package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/family-travel-blog/internal/utils" // session token verification
)

// SessionCookieName is the cookie carrying the session token. The
// cookie is HttpOnly; browser clients never read it from script.
const SessionCookieName = "session"

// Context keys under which the verified identity is stored.
const (
    CtxUsername = "username"
    CtxRole     = "role"
)

// SessionAuth returns an Echo middleware that validates a session token
// and injects the token's subject and role claims into the request
// context. The token is taken from the session cookie or, failing
// that, from a Bearer Authorization header, so both the browser UI and
// API clients can authenticate. The provided secret must match the one
// used when issuing tokens. Handlers access the identity via
// c.Get(middleware.CtxUsername) and c.Get(middleware.CtxRole).
//
// Trust is all-or-nothing: a missing, malformed, expired or badly
// signed token short-circuits with 401 and the same generic body in
// every case. There is no server-side session state and no revocation
// list; any syntactically valid, unexpired, correctly signed token is
// accepted.
func SessionAuth(secret string) echo.MiddlewareFunc {
    // The outer function returns a middleware function.  Echo executes
    // this once when registering the middleware.
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        // The returned handler is invoked for each incoming HTTP request.
        return func(c echo.Context) error {
            raw := tokenFromRequest(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "error": "Unauthorized", "message": "authentication required",
                })
            }
            claims, err := utils.VerifySessionToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "error": "Unauthorized", "message": "authentication required",
                })
            }
            // Store the subject (username) and role claims in the
            // context for handlers and downstream middleware.
            c.Set(CtxUsername, claims.Username)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}

// tokenFromRequest extracts the raw session token from the cookie or
// the Authorization header. The cookie wins when both are present.
func tokenFromRequest(c echo.Context) string {
    if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
        return ck.Value
    }
    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    return ""
}
