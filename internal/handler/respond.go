package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/apperr"
)

// respondError translates a service error into the client-facing failure
// shape. Internal errors are logged with their cause and masked.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Warn("Request rejected",
			zap.String("kind", apperr.KindOf(err).String()),
			zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": apperr.ClientMessage(err)})
}
