package integrity

import (
	"context"
	"fmt"

	"showtime-manager/core/storage"
	"showtime-manager/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	storage storage.Config
	logger  *zap.Logger
	db      *gorm.DB
}

// NewService creates a new integrity service. db may be nil; the schema check then reports an error.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client:  client,
		storage: cfg,
		logger:  logger,
		db:      db,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.storage.Bucket, checks.RequiredFolders(s.storage))
}

// FixStructure creates the bucket if needed and the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.storage.Bucket, s.storage.Region, s.logger, missing)
}

// CheckSchema compares the database against the showtime models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not connected")
	}
	return checks.CheckSchema(s.db)
}

// CheckBatches validates every pending batch in the bucket.
func (s *Service) CheckBatches(ctx context.Context) ([]checks.BatchReport, error) {
	return checks.CheckBatches(ctx, s.client, s.storage.Bucket, s.storage.BatchPrefix)
}
