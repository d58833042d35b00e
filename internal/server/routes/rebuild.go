package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jerusalem-70-ad/jad-builder/internal/queue"
	"github.com/jerusalem-70-ad/jad-builder/internal/server/middleware"
	"github.com/jerusalem-70-ad/jad-builder/pkg/logger"
)

// PostRebuildHandler queues a full rebuild for the worker.
func PostRebuildHandler(c echo.Context) error {
	type rebuildBody struct {
		Reason string `json:"reason" validate:"required,max=200"`
	}

	type rebuildResponse struct {
		Message string `json:"message"`
		ID      string `json:"id,omitempty"`
	}

	data := new(rebuildBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, rebuildResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, rebuildResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	if app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, rebuildResponse{
			Message: "Rebuild queue is not configured",
		})
	}

	msg, err := queue.RequestRebuild(c.Request().Context(), app.Queue, data.Reason)
	if err != nil {
		logger.Error("[Server] Failed to queue rebuild", "err", err)
		return c.JSON(http.StatusInternalServerError, rebuildResponse{
			Message: "Internal server error",
		})
	}

	logger.Info("[Server] Rebuild queued", "id", msg.ID, "reason", data.Reason)
	return c.JSON(http.StatusAccepted, rebuildResponse{
		Message: "Rebuild queued",
		ID:      msg.ID,
	})
}
