package cases

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"case-mirror/core/logger"
	"case-mirror/core/upstream"
)

// Handler handles HTTP requests for cases.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the case routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/cases")
	group.Get("/", h.HandleListCases)
	group.Post("/", h.HandleCreateCase)
	group.Get("/:id", h.HandleGetCase)
	group.Put("/:id", h.HandleUpdateCase)
	group.Delete("/:id", h.HandleDeleteCase)

	app.Post("/sync", h.HandleSyncNow)
}

// HandleListCases returns one page of the mirror.
// @Summary List Cases
// @Description List mirrored cases in id order, shaped like the registry listing.
// @Tags cases
// @Produce json
// @Param limit query int false "Page size (default 20, max 1000)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} cases.CasePage "Case Page"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /cases [get]
func (h *Handler) HandleListCases(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	page, err := h.service.List(c.Context(), c.QueryInt("limit", defaultListLimit), c.QueryInt("offset", 0))
	if err != nil {
		return renderError(c, l, "Case listing failed", err)
	}
	return c.JSON(page)
}

// HandleGetCase returns one mirrored case.
// @Summary Get Case
// @Description Get a single case from the mirror, as last seen upstream.
// @Tags cases
// @Produce json
// @Param id path int true "Case ID"
// @Success 200 {object} upstream.Case "Case"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /cases/{id} [get]
func (h *Handler) HandleGetCase(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := parseCaseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	row, err := h.service.Get(c.Context(), id)
	if err != nil {
		return renderError(c, l, "Case lookup failed", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(row.Blob)
}

// HandleCreateCase registers a case in the registry and mirrors it.
// @Summary Create Case
// @Description Create a case in the upstream registry, then mirror it locally.
// @Tags cases
// @Accept json
// @Produce json
// @Param case body upstream.CaseCreate true "Case to create"
// @Success 201 {object} upstream.Case "Created Case"
// @Failure 400 {object} upstream.Error "Bad Request"
// @Failure 503 {object} upstream.Error "Registry Unreachable"
// @Router /cases [post]
func (h *Handler) HandleCreateCase(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var in upstream.CaseCreate
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, err)
	}

	created, err := h.service.Create(c.Context(), in)
	if err != nil {
		return renderError(c, l, "Case create failed", err)
	}

	l.Info("Case created", zap.Int64("case_id", created.ID))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateCase changes a case in the registry and mirrors it.
// @Summary Update Case
// @Description Update a case in the upstream registry, then mirror it locally.
// @Tags cases
// @Accept json
// @Produce json
// @Param id path int true "Case ID"
// @Param case body upstream.CaseUpdate true "Fields to change"
// @Success 201 {object} upstream.Case "Updated Case"
// @Failure 400 {object} upstream.Error "Bad Request"
// @Failure 404 {object} upstream.Error "Not Found"
// @Failure 503 {object} upstream.Error "Registry Unreachable"
// @Router /cases/{id} [put]
func (h *Handler) HandleUpdateCase(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := parseCaseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var in upstream.CaseUpdate
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, err)
	}

	updated, err := h.service.Update(c.Context(), id, in)
	if err != nil {
		return renderError(c, l, "Case update failed", err)
	}

	l.Info("Case updated", zap.Int64("case_id", id))
	return c.Status(fiber.StatusCreated).JSON(updated)
}

// HandleDeleteCase removes a case from the registry and the mirror.
// @Summary Delete Case
// @Description Delete a case from the upstream registry and the mirror.
// @Tags cases
// @Param id path int true "Case ID"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} upstream.Error "Registry Unreachable"
// @Router /cases/{id} [delete]
func (h *Handler) HandleDeleteCase(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := parseCaseID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return renderError(c, l, "Case delete failed", err)
	}

	l.Info("Case deleted", zap.Int64("case_id", id))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSyncNow runs one reconciliation pass and returns its stats.
// @Summary Sync Now
// @Description Run one reconciliation pass against the registry listing immediately.
// @Tags sync
// @Produce json
// @Success 200 {object} mirror.Stats "Pass Stats"
// @Failure 502 {object} map[string]string "Pass Failed"
// @Router /sync [post]
func (h *Handler) HandleSyncNow(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stats, err := h.service.SyncNow(c.Context())
	if err != nil {
		var ue *upstream.Error
		if errors.As(err, &ue) {
			l.Warn("Manual reconciliation failed", zap.Int("status", ue.Status), zap.Error(err))
			return c.Status(ue.Status).JSON(ue)
		}
		l.Error("Manual reconciliation failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(stats)
}

func parseCaseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid case id")
	}
	return id, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// renderError writes a service failure to the response. Registry failures
// keep their structured status and body, a missing mirror row maps to 404,
// everything else becomes a 500 whose detail stays in the log.
func renderError(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		l.Warn(msg, zap.Int("status", ue.Status), zap.Error(err))
		return c.Status(ue.Status).JSON(ue)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "case not found",
		})
	}
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
