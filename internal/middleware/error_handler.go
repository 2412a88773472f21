package middleware

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the central echo.HTTPErrorHandler. Every error
// becomes a {"message": ...} JSON body; anything that is not an
// *echo.HTTPError counts as a 500. Server-side errors are logged with
// their request, client errors are not.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	_ = c.JSON(code, map[string]string{"message": msg})
}
