package showtimes

import (
	"errors"

	"showtime-manager/core/logger"
	"showtime-manager/core/utils"
	"showtime-manager/feature/showtimes/enrichment"
	"showtime-manager/feature/showtimes/models"
	"showtime-manager/feature/showtimes/stats"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for showtimes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = models.Cinema{}
	var _ = stats.CinemaStats{}
	return &Handler{service: service}
}

// RegisterRoutes registers the showtime routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/showtimes")
	group.Post("/ingest/:producer", h.HandleIngest)
	group.Get("/cinemas", h.HandleListCinemas)
	group.Get("/cinemas/:id/stats", h.HandleCinemaStats)
	group.Get("/enrichment/pending", h.HandlePendingEnrichment)
	group.Put("/enrichment/films/:id", h.HandleSetEnrichment)
}

// HandleIngest validates and reconciles a producer batch posted as the request body.
// @Summary Ingest Producer Batch
// @Description Validates a JSON array of cinema groups and reconciles every cinema in its own transaction. A batch failing validation is rejected as a whole.
// @Tags showtimes
// @Accept json
// @Produce json
// @Param producer path string true "Producer name"
// @Param batch body []models.CinemaGroup true "Producer batch"
// @Success 200 {object} RunReport "Run Report"
// @Failure 422 {object} RunReport "Batch rejected"
// @Router /showtimes/ingest/{producer} [post]
func (h *Handler) HandleIngest(c *fiber.Ctx) error {
	producer := c.Params("producer")
	l := logger.WithRayID(h.service.logger, c)

	report := h.service.Ingest(c.Context(), producer, c.Body())
	if report.Rejected {
		l.Warn("Producer batch rejected", zap.String("producer", producer), zap.Int("errors", len(report.Validation)))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(report)
	}

	l.Info("Producer batch ingested",
		zap.String("producer", producer),
		zap.String("run_id", report.RunID),
		zap.Int("succeeded", report.Totals.Succeeded),
		zap.Int("failed", report.Totals.Failed))
	return c.JSON(report)
}

// HandleListCinemas lists the known cinemas.
// @Summary List Cinemas
// @Tags showtimes
// @Produce json
// @Success 200 {array} models.Cinema "Cinemas"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /showtimes/cinemas [get]
func (h *Handler) HandleListCinemas(c *fiber.Ctx) error {
	cinemas, err := h.service.Cinemas(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing cinemas failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cinemas)
}

// HandleCinemaStats returns completeness metrics for one cinema.
// @Summary Cinema Statistics
// @Description Film and showing counts and the share of records populating each optional field.
// @Tags showtimes
// @Produce json
// @Param id path int true "Cinema ID"
// @Success 200 {object} stats.CinemaStats "Cinema Statistics"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /showtimes/cinemas/{id}/stats [get]
func (h *Handler) HandleCinemaStats(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cinema id"})
	}

	s, err := h.service.CinemaStats(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, ErrCinemaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.service.logger, c).Error("Cinema stats failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s)
}

// HandlePendingEnrichment lists films without enrichment.
// @Summary Films Missing Enrichment
// @Tags enrichment
// @Produce json
// @Param limit query int false "Maximum number of films (default 100, max 1000)"
// @Success 200 {array} enrichment.PendingFilm "Pending Films"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /showtimes/enrichment/pending [get]
func (h *Handler) HandlePendingEnrichment(c *fiber.Ctx) error {
	limit := utils.ToInt(c.Query("limit"), enrichment.DefaultLimit)

	films, err := h.service.PendingEnrichment(c.Context(), limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Pending enrichment query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if films == nil {
		films = []enrichment.PendingFilm{}
	}
	return c.JSON(films)
}

// HandleSetEnrichment stores enrichment attributes for a film.
// @Summary Set Film Enrichment
// @Description Creates or replaces the enrichment record of a film. No other film column is touched.
// @Tags enrichment
// @Accept json
// @Produce json
// @Param id path int true "Film ID"
// @Param enrichment body enrichment.Enrichment true "Enrichment"
// @Success 200 {object} models.FilmEnrichment "Stored Enrichment"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /showtimes/enrichment/films/{id} [put]
func (h *Handler) HandleSetEnrichment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid film id"})
	}

	var body enrichment.Enrichment
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "details": err.Error()})
	}

	row, err := h.service.SetEnrichment(c.Context(), uint(id), body)
	switch {
	case errors.Is(err, enrichment.ErrInvalidEnrichment):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, enrichment.ErrFilmNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		logger.WithRayID(h.service.logger, c).Error("Setting enrichment failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(row)
}
