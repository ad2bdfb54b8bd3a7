package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"showtime-manager/feature/showtimes/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertBatchSize bounds the rows per INSERT statement so large schedules stay under
// driver placeholder limits.
const insertBatchSize = 1000

// Result summarises one committed cinema batch.
type Result struct {
	CinemaID         uint              `json:"cinema_id"`
	Cinema           string            `json:"cinema"`
	InsertedFilms    int               `json:"inserted_films"`
	UpdatedFilms     int               `json:"updated_films"`
	InsertedShowings int               `json:"inserted_showings"`
	SkippedShowings  int               `json:"skipped_showings"`
	InsertedFilmIDs  []uint            `json:"inserted_film_ids,omitempty"`
	Dropped          []RecordDropError `json:"dropped,omitempty"`
}

// Engine merges validated cinema groups into the store.
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for Cinema.last_updated.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine on db.
func NewEngine(db *gorm.DB, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile merges one cinema group inside a single transaction:
// upsert the cinema, insert unseen films (refreshing populated fields of known ones),
// then insert unseen showings. Any error rolls the whole group back and is returned
// as a *ReconciliationError. Unusable individual records are dropped and reported in
// Result.Dropped instead.
func (e *Engine) Reconcile(ctx context.Context, group models.CinemaGroup) (*Result, error) {
	name := strings.TrimSpace(group.Cinema.Name)
	candidates, dropped := prepare(name, group.Showings)

	for _, d := range dropped {
		e.logger.Warn("Dropped record",
			zap.String("cinema", d.Cinema),
			zap.String("path", d.Path),
			zap.String("value", d.Value),
			zap.String("reason", d.Reason))
	}

	res := &Result{Cinema: name, Dropped: dropped}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fail := func(step string, err error) error {
			return &ReconciliationError{Cinema: name, Step: step, Err: err}
		}

		cinema, err := upsertCinema(tx, name, group.Cinema, e.now())
		if err != nil {
			return fail("upsert cinema", err)
		}
		res.CinemaID = cinema.ID

		var storedFilms []models.Film
		if err := tx.Where("cinema_id = ?", cinema.ID).Find(&storedFilms).Error; err != nil {
			return fail("load films", err)
		}
		films := NewFilmIndex(storedFilms)

		var newFilms []models.Film
		for _, c := range candidates {
			stored, ok := films.MatchFilm(c.key)
			if !ok {
				newFilms = append(newFilms, newFilm(cinema.ID, c.film))
				continue
			}
			updates := filmUpdates(stored, c.film)
			if len(updates) == 0 {
				continue
			}
			if err := tx.Model(&models.Film{}).Where("id = ?", stored.ID).Updates(updates).Error; err != nil {
				return fail("update films", err)
			}
			res.UpdatedFilms++
		}

		if len(newFilms) > 0 {
			if err := tx.CreateInBatches(&newFilms, insertBatchSize).Error; err != nil {
				return fail("insert films", err)
			}
			for i := range newFilms {
				films.Add(&newFilms[i])
				res.InsertedFilmIDs = append(res.InsertedFilmIDs, newFilms[i].ID)
			}
			res.InsertedFilms = len(newFilms)
		}

		var storedShowings []models.Showing
		err = tx.Select("id", "cinema_id", "film_id", "start_time").
			Where("cinema_id = ?", cinema.ID).
			Find(&storedShowings).Error
		if err != nil {
			return fail("load showings", err)
		}
		showings := NewShowingIndex(storedShowings)

		var newShowings []models.Showing
		for _, c := range candidates {
			film, ok := films.MatchFilm(c.key)
			if !ok || film.ID == 0 {
				return fail("resolve film", fmt.Errorf("%s %q: %w", c.path, c.key.Title, ErrMissingFilmReference))
			}
			for _, s := range c.showings {
				key := NewShowingKey(cinema.ID, film.ID, s.start)
				if _, exists := showings.MatchShowing(key); exists {
					res.SkippedShowings++
					continue
				}
				showings.Add(key, 0)
				newShowings = append(newShowings, models.Showing{
					CinemaID:   cinema.ID,
					FilmID:     film.ID,
					StartTime:  s.start,
					EndTime:    s.end,
					BookingURL: s.bookingURL,
					Theatre:    s.theatre,
				})
			}
		}

		if len(newShowings) > 0 {
			if err := tx.CreateInBatches(&newShowings, insertBatchSize).Error; err != nil {
				return fail("insert showings", err)
			}
			res.InsertedShowings = len(newShowings)
		}

		return nil
	})
	if err != nil {
		var rerr *ReconciliationError
		if errors.As(err, &rerr) {
			return nil, rerr
		}
		return nil, &ReconciliationError{Cinema: name, Step: "commit", Err: err}
	}

	return res, nil
}

// upsertCinema inserts the cinema or, if the name exists, refreshes only last_updated.
// The stored row is re-read because not every driver returns the id of an updated row.
func upsertCinema(tx *gorm.DB, name string, d models.CinemaDescriptor, now time.Time) (*models.Cinema, error) {
	row := models.Cinema{
		Name:            name,
		Location:        d.Location,
		DefaultLanguage: d.DefaultLanguage,
		LastUpdated:     now,
	}
	if d.Coordinates != nil {
		lat, lng := d.Coordinates.Lat, d.Coordinates.Lng
		row.Latitude = &lat
		row.Longitude = &lng
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_updated"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var stored models.Cinema
	if err := tx.Where("name = ?", name).Take(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
