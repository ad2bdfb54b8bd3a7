package integrity

import (
	"showtime-manager/core/logger"
	"showtime-manager/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// Report is the combined result of every integrity check.
type Report struct {
	Structure Section `json:"structure"`
	Schema    Section `json:"schema"`
	Batches   Section `json:"batches"`
}

// Section is one check inside a Report. Status is "ok", "issues" or "error".
type Section struct {
	Status  string               `json:"status"`
	Error   string               `json:"error,omitempty"`
	Missing []string             `json:"missing,omitempty"`
	Schema  *checks.SchemaReport `json:"schema,omitempty"`
	Batches []checks.BatchReport `json:"batches,omitempty"`
}

func failed(err error) Section {
	return Section{Status: "error", Error: err.Error()}
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "issues"
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/batches", h.HandleBatchesCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Structure, Schema, Batches).
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	var report Report

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report.Structure = failed(err)
	} else {
		report.Structure = Section{Status: status(len(missing) == 0), Missing: missing}
	}

	if schema, err := h.service.CheckSchema(); err != nil {
		report.Schema = failed(err)
	} else {
		report.Schema = Section{Status: status(schema.Matched), Schema: schema}
	}

	if batches, err := h.service.CheckBatches(ctx); err != nil {
		report.Batches = failed(err)
	} else {
		valid := true
		for _, b := range batches {
			valid = valid && b.Valid
		}
		report.Batches = Section{Status: status(valid), Batches: batches}
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks if the batch and archive folders exist in the storage bucket. Optionally fixes missing folders.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Database Schema
// @Description Checks that the cinemas, films, showings and film_enrichments tables match the expected columns.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleBatchesCheck validates pending producer batches.
// @Summary Check Pending Batches
// @Description Validates every batch waiting under the batch prefix without reconciling it.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {array} checks.BatchReport "Batch Reports"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/batches [get]
func (h *Handler) HandleBatchesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reports, err := h.service.CheckBatches(c.Context())
	if err != nil {
		l.Error("Batch check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	invalid := 0
	for _, r := range reports {
		if !r.Valid {
			invalid++
		}
	}
	if invalid > 0 {
		l.Warn("Invalid batches pending", zap.Int("invalid", invalid), zap.Int("total", len(reports)))
	}

	return c.JSON(reports)
}
