package showtimes

import (
	"showtime-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the showtimes feature.
func NewFeature(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger, opts Options) *Feature {
	svc := NewService(db, client, bucket, logger, opts)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "showtimes"
}

// IsEnabled reports whether a database is available; every route needs one.
func (f *Feature) IsEnabled() bool {
	return f.service.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the feature's service for the CLI.
func (f *Feature) Service() *Service {
	return f.service
}
