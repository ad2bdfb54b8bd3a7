package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"showtime-manager/feature/showtimes/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultLimit is the page size used when the caller asks for none.
	DefaultLimit = 100
	// MaxLimit caps a single MissingEnrichment page.
	MaxLimit = 1000
	// DefaultSource labels enrichment records submitted without a source.
	DefaultSource = "external"
)

var (
	// ErrFilmNotFound is returned when the film id does not exist.
	ErrFilmNotFound = errors.New("film not found")
	// ErrInvalidEnrichment is returned when required enrichment fields are missing.
	ErrInvalidEnrichment = errors.New("invalid enrichment")
)

// PendingFilm is a film that has no enrichment record yet.
type PendingFilm struct {
	FilmID      uint    `json:"film_id"`
	CinemaID    uint    `json:"cinema_id"`
	Cinema      string  `json:"cinema"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Director    *string `json:"director,omitempty"`
	ReleaseYear *int    `json:"release_year,omitempty"`
}

// Enrichment is the set of attributes the enrichment step may write for a film.
type Enrichment struct {
	Source     string         `json:"source"`
	ExternalID string         `json:"external_id"`
	Rating     *float64       `json:"rating,omitempty"`
	Votes      *int           `json:"votes,omitempty"`
	Payload    datatypes.JSON `json:"payload,omitempty" swaggertype:"object"`
}

// Repository reads films awaiting enrichment and writes enrichment records.
// It never modifies films, cinemas or showings.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a Repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// MissingEnrichment returns up to limit films without an enrichment record, oldest first.
func (r *Repository) MissingEnrichment(ctx context.Context, limit int) ([]PendingFilm, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var out []PendingFilm
	err := r.db.WithContext(ctx).
		Table("films").
		Select("films.id AS film_id, films.cinema_id, cinemas.name AS cinema, films.title, films.url, films.director, films.release_year").
		Joins("JOIN cinemas ON cinemas.id = films.cinema_id").
		Joins("LEFT JOIN film_enrichments ON film_enrichments.film_id = films.id").
		Where("film_enrichments.id IS NULL").
		Order("films.id").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query films missing enrichment: %w", err)
	}
	return out, nil
}

// SetEnrichment creates or replaces the enrichment record of filmID. Calling it twice
// with the same values leaves the same row.
func (r *Repository) SetEnrichment(ctx context.Context, filmID uint, e Enrichment) (*models.FilmEnrichment, error) {
	externalID := strings.TrimSpace(e.ExternalID)
	if externalID == "" {
		return nil, fmt.Errorf("%w: external_id is required", ErrInvalidEnrichment)
	}
	source := strings.TrimSpace(e.Source)
	if source == "" {
		source = DefaultSource
	}

	db := r.db.WithContext(ctx)

	var film models.Film
	if err := db.Select("id").Take(&film, filmID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrFilmNotFound, filmID)
		}
		return nil, fmt.Errorf("failed to look up film %d: %w", filmID, err)
	}

	row := models.FilmEnrichment{
		FilmID:     filmID,
		Source:     source,
		ExternalID: externalID,
		Rating:     e.Rating,
		Votes:      e.Votes,
		Payload:    e.Payload,
		UpdatedAt:  r.now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "film_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"source", "external_id", "rating", "votes", "payload", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to store enrichment for film %d: %w", filmID, err)
	}

	var stored models.FilmEnrichment
	if err := db.Where("film_id = ?", filmID).Take(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to reload enrichment for film %d: %w", filmID, err)
	}
	return &stored, nil
}
