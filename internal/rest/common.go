package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// userIDFromContext reads the user id stored by the auth middleware.
func userIDFromContext(c echo.Context) (string, bool) {
	userID, ok := c.Get("user_id").(string)
	return userID, ok && userID != ""
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
}
