package snapshots

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"case-mirror/core/logger"
)

// Handler handles HTTP requests for snapshots.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/snapshots")
	group.Get("/", h.HandleListSnapshots)
	group.Post("/", h.HandleTakeSnapshot)
	group.Get("/:name", h.HandleDownloadSnapshot)
	group.Delete("/:name", h.HandleRemoveSnapshot)
}

// HandleListSnapshots lists the stored snapshots.
// @Summary List Snapshots
// @Description List stored mirror snapshots, newest first.
// @Tags snapshots
// @Produce json
// @Success 200 {array} snapshots.Snapshot "Snapshots"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	list, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Snapshot listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(list)
}

// HandleTakeSnapshot archives the mirror now.
// @Summary Take Snapshot
// @Description Archive the current mirror content to object storage.
// @Tags snapshots
// @Produce json
// @Success 201 {object} map[string]string "Written Object"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /snapshots [post]
func (h *Handler) HandleTakeSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	object, err := h.service.Archive(c.Context())
	if err != nil {
		l.Error("Snapshot failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"object": object,
	})
}

// HandleDownloadSnapshot streams one snapshot document.
// @Summary Download Snapshot
// @Description Download one snapshot document by name.
// @Tags snapshots
// @Produce json
// @Param name path string true "Snapshot name"
// @Success 200 {object} map[string]interface{} "Snapshot Document"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /snapshots/{name} [get]
func (h *Handler) HandleDownloadSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("name")

	obj, err := h.service.Download(c.Context(), name)
	if err != nil {
		l.Warn("Snapshot download failed", zap.String("name", name), zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "snapshot not found",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendStream(obj)
}

// HandleRemoveSnapshot deletes one snapshot.
// @Summary Remove Snapshot
// @Description Remove one snapshot by name.
// @Tags snapshots
// @Param name path string true "Snapshot name"
// @Success 204 "Removed"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /snapshots/{name} [delete]
func (h *Handler) HandleRemoveSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("name")

	// Object names never leave the snapshots/ prefix.
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid snapshot name",
		})
	}

	if err := h.service.Remove(c.Context(), name); err != nil {
		l.Error("Snapshot removal failed", zap.String("name", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
