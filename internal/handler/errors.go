package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
)

// respondError maps the application error taxonomy to HTTP statuses. The
// message carried is always human-readable; raw transport errors never get
// this far.
func respondError(c echo.Context, err error) error {
	status := http.StatusBadGateway
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case apperr.IsConflict(err):
		status = http.StatusConflict
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	case apperr.IsPartialWrite(err):
		status = http.StatusInternalServerError
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
