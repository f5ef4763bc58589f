package handler // handler defines http handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error kinds of the API. Every error body has the same shape:
// {success:false, error:<kind>, message:<text>} so the front end can
// branch on the kind without parsing messages.
const (
	ErrInvalidInput       = "InvalidInput"       // 400
	ErrInvalidCredentials = "InvalidCredentials" // 401, login only
	ErrUnauthorized       = "Unauthorized"       // 401, missing/bad session
	ErrForbidden          = "Forbidden"          // 403
	ErrNotFound           = "NotFound"           // 404
	ErrServer             = "ServerError"        // 500
)

// invalidCredentialsMessage is returned for both unknown usernames and
// wrong passwords. The two failure modes must stay byte-identical so
// responses do not reveal which usernames exist.
const invalidCredentialsMessage = "Invalid username or password"

// fail writes the uniform error body.
func fail(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, echo.Map{
		"success": false,
		"error":   kind,
		"message": message,
	})
}

// serverError logs the underlying cause and returns a generic 500.
// Internal detail never reaches the response body.
func serverError(c echo.Context, err error) error {
	c.Logger().Errorf("internal error: %v", err)
	return fail(c, http.StatusInternalServerError, ErrServer, "something went wrong")
}

// notFound is the uniform 404. It is also used where existence itself
// is sensitive (another author's draft), deliberately instead of 403.
func notFound(c echo.Context) error {
	return fail(c, http.StatusNotFound, ErrNotFound, "post not found")
}
