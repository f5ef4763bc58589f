package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  The roles
// accepted correspond to the values stored in the session token's
// "role" claim.  If the user's role is not in the allowed set, the
// request is aborted with a 403 Forbidden response.  It assumes a
// previous middleware has extracted the role into the context under
// CtxRole.  Note that for post mutations role alone is not enough;
// handlers additionally check authorship via model.CanModify.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant-time lookups.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Retrieve the role from context.  It should have been
            // stored by SessionAuth as a string.  If not present or of
            // wrong type, treat as missing.
            v := c.Get(CtxRole)
            role, ok := v.(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{
                    "success": false, "error": "Forbidden", "message": "insufficient role",
                })
            }
            return next(c)
        }
    }
}
