package showtimes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"showtime-manager/core/lock"
	"showtime-manager/core/logger"
	"showtime-manager/core/queue"
	coreReconcile "showtime-manager/core/reconcile"
	"showtime-manager/core/storage"
	"showtime-manager/feature/showtimes/enrichment"
	"showtime-manager/feature/showtimes/models"
	"showtime-manager/feature/showtimes/reconcile"
	"showtime-manager/feature/showtimes/stats"
	"showtime-manager/feature/showtimes/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventFilmsInserted is published after a cinema commit that created films.
const EventFilmsInserted = "films.inserted"

var (
	// ErrCinemaNotFound is returned for an unknown cinema id.
	ErrCinemaNotFound = errors.New("cinema not found")
	// ErrStorageUnavailable is returned when no storage client is configured.
	ErrStorageUnavailable = errors.New("storage is not configured")
)

// FilmsInserted tells the enrichment step which films are new.
type FilmsInserted struct {
	RunID    string `json:"run_id"`
	CinemaID uint   `json:"cinema_id"`
	Cinema   string `json:"cinema"`
	FilmIDs  []uint `json:"film_ids"`
}

// Batch is one producer's raw output.
type Batch struct {
	Producer string
	Source   string
	Data     []byte
}

// Options tunes a Service. Zero values fall back to the ingest defaults.
type Options struct {
	Concurrency   int
	LockTTL       time.Duration
	StatsCacheTTL time.Duration
	Archive       bool
	BatchPrefix   string
	ArchivePrefix string
	Locker        lock.Locker
	Publisher     queue.Publisher
	EngineOptions []reconcile.Option
}

// Service runs ingestion and serves the read side of the showtime store.
type Service struct {
	db         *gorm.DB
	client     storage.Client
	bucket     string
	logger     *zap.Logger
	opts       Options
	engine     *reconcile.Engine
	validator  *validate.Validator
	enrichment *enrichment.Repository
	stats      *coreReconcile.Cache[stats.CinemaStats]
}

// NewService creates a showtime service. client may be nil when batches only come
// from HTTP or local files.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = coreReconcile.DefaultConcurrency
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 2 * time.Minute
	}
	if opts.BatchPrefix == "" {
		opts.BatchPrefix = "batches/"
	}
	if opts.ArchivePrefix == "" {
		opts.ArchivePrefix = "archive/"
	}
	if opts.Locker == nil {
		opts.Locker = lock.Nop{}
	}
	if opts.Publisher == nil {
		opts.Publisher = queue.Nop{}
	}

	return &Service{
		db:         db,
		client:     client,
		bucket:     bucket,
		logger:     logger,
		opts:       opts,
		engine:     reconcile.NewEngine(db, logger, opts.EngineOptions...),
		validator:  validate.New(),
		enrichment: enrichment.NewRepository(db),
		stats:      coreReconcile.NewCache[stats.CinemaStats](opts.StatsCacheTTL),
	}
}

// Ingest validates and reconciles one producer batch.
func (s *Service) Ingest(ctx context.Context, producer string, raw []byte) *RunReport {
	return s.IngestBatches(ctx, []Batch{{Producer: producer, Data: raw}})[0]
}

// IngestBatches validates every batch and reconciles all accepted cinema groups
// concurrently. Groups naming the same cinema, possibly from different producers,
// run one after another inside a single task. Reports are returned in batch order.
func (s *Service) IngestBatches(ctx context.Context, batches []Batch) []*RunReport {
	type job struct {
		report int
		slot   int
		group  models.CinemaGroup
		log    *zap.Logger
	}

	reports := make([]*RunReport, len(batches))
	byCinema := make(map[string][]job)
	var order []string

	for i, b := range batches {
		r := &RunReport{RunID: uuid.NewString(), Producer: b.Producer, Source: b.Source}
		reports[i] = r
		l := logger.WithRun(s.logger, r.RunID, b.Producer)

		groups, err := s.validator.Batch(b.Data)
		if err != nil {
			var verr *validate.ValidationError
			if errors.As(err, &verr) {
				r.Rejected = true
				r.Validation = verr.Fields
				l.Warn("Batch rejected", zap.Int("errors", len(verr.Fields)), zap.Strings("fields", verr.Paths()))
			} else {
				r.Error = err.Error()
				l.Error("Batch could not be read", zap.Error(err))
			}
			continue
		}

		l.Info("Batch accepted", zap.Int("cinemas", len(groups)))
		r.Cinemas = make([]CinemaReport, len(groups))
		for j, g := range groups {
			name := strings.TrimSpace(g.Cinema.Name)
			if _, seen := byCinema[name]; !seen {
				order = append(order, name)
			}
			byCinema[name] = append(byCinema[name], job{report: i, slot: j, group: g, log: l})
		}
	}

	tasks := make([]coreReconcile.Task[[]CinemaReport], 0, len(order))
	for _, name := range order {
		jobs := byCinema[name]
		tasks = append(tasks, coreReconcile.Task[[]CinemaReport]{
			Key: name,
			Run: func(ctx context.Context) ([]CinemaReport, error) {
				out := make([]CinemaReport, 0, len(jobs))
				var errs []error
				for _, j := range jobs {
					cr := s.reconcileGroup(ctx, j.log, reports[j.report].RunID, j.group)
					if !cr.Success {
						errs = append(errs, errors.New(cr.Reason))
					}
					out = append(out, cr)
				}
				return out, errors.Join(errs...)
			},
		})
	}

	outcomes := coreReconcile.RunAll(ctx, tasks, s.opts.Concurrency)
	if len(outcomes) > 0 {
		summary := coreReconcile.Summarize(outcomes)
		s.logger.Info("Cinema tasks finished",
			zap.Int("total", summary.Total),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed))
	}

	for i, o := range outcomes {
		for k, j := range byCinema[order[i]] {
			var cr CinemaReport
			if k < len(o.Result) {
				cr = o.Result[k]
			} else {
				cr = CinemaReport{Cinema: order[i], Reason: fmt.Sprint(o.Err)}
				j.log.Error("Cinema task failed", zap.String("cinema", order[i]), zap.Error(o.Err))
			}
			reports[j.report].Cinemas[j.slot] = cr
		}
	}

	for _, r := range reports {
		r.total()
	}
	return reports
}

func (s *Service) reconcileGroup(ctx context.Context, l *zap.Logger, runID string, group models.CinemaGroup) CinemaReport {
	name := strings.TrimSpace(group.Cinema.Name)
	report := CinemaReport{Cinema: name}
	start := time.Now()
	l = l.With(zap.String("cinema", name))

	fail := func(err error) CinemaReport {
		report.Duration = time.Since(start)
		report.Reason = err.Error()
		l.Error("Cinema reconciliation failed", zap.Error(err), zap.Duration("duration", report.Duration))
		return report
	}

	release, err := s.opts.Locker.Acquire(ctx, name, s.opts.LockTTL)
	if err != nil {
		return fail(&reconcile.ReconciliationError{Cinema: name, Step: "lock", Err: err})
	}
	defer release()

	res, err := s.engine.Reconcile(ctx, group)
	if err != nil {
		return fail(err)
	}

	report.Success = true
	report.CinemaID = res.CinemaID
	report.InsertedFilms = res.InsertedFilms
	report.UpdatedFilms = res.UpdatedFilms
	report.InsertedShowings = res.InsertedShowings
	report.SkippedShowings = res.SkippedShowings
	report.DroppedRecords = len(res.Dropped)
	report.Dropped = res.Dropped
	report.Duration = time.Since(start)

	s.stats.Invalidate(statsKey(res.CinemaID))

	l.Info("Cinema reconciled",
		zap.Int("inserted_films", res.InsertedFilms),
		zap.Int("updated_films", res.UpdatedFilms),
		zap.Int("inserted_showings", res.InsertedShowings),
		zap.Int("skipped_showings", res.SkippedShowings),
		zap.Int("dropped_records", len(res.Dropped)),
		zap.Duration("duration", report.Duration))

	if len(res.InsertedFilmIDs) > 0 {
		event := FilmsInserted{RunID: runID, CinemaID: res.CinemaID, Cinema: name, FilmIDs: res.InsertedFilmIDs}
		// The commit already happened; a lost event only delays enrichment.
		if err := s.opts.Publisher.Publish(ctx, EventFilmsInserted, event); err != nil {
			l.Warn("Failed to publish films event", zap.Error(err))
		}
	}

	return report
}

// IngestStorage ingests every pending batch object under the batch prefix. Each object
// is one producer. An object that cannot be fetched abandons only that producer.
// Processed objects are moved to the archive prefix when archiving is enabled;
// rejected ones stay in place for inspection.
func (s *Service) IngestStorage(ctx context.Context) ([]*RunReport, error) {
	if s.client == nil {
		return nil, ErrStorageUnavailable
	}

	keys, err := storage.ListKeys(ctx, s.client, s.bucket, s.opts.BatchPrefix)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Pending batches", zap.Int("count", len(keys)))

	var batches []Batch
	var failed []*RunReport
	for _, key := range keys {
		data, err := storage.ReadObject(ctx, s.client, s.bucket, key)
		if err != nil {
			s.logger.Error("Failed to fetch batch", zap.String("key", key), zap.Error(err))
			failed = append(failed, &RunReport{
				RunID:    uuid.NewString(),
				Producer: producerName(key),
				Source:   key,
				Error:    err.Error(),
			})
			continue
		}
		batches = append(batches, Batch{Producer: producerName(key), Source: key, Data: data})
	}

	reports := s.IngestBatches(ctx, batches)

	if s.opts.Archive {
		for i, r := range reports {
			if !r.Processed() {
				continue
			}
			dst, err := storage.MoveObject(ctx, s.client, s.bucket, r.Source, s.opts.ArchivePrefix, batches[i].Data)
			if err != nil {
				s.logger.Warn("Failed to archive batch", zap.String("key", r.Source), zap.Error(err))
				continue
			}
			r.Archived = dst
		}
	}

	return append(reports, failed...), nil
}

// IngestFiles ingests local batch files, one producer per file.
func (s *Service) IngestFiles(ctx context.Context, paths []string) []*RunReport {
	var batches []Batch
	var failed []*RunReport
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			failed = append(failed, &RunReport{
				RunID:    uuid.NewString(),
				Producer: producerName(p),
				Source:   p,
				Error:    err.Error(),
			})
			continue
		}
		batches = append(batches, Batch{Producer: producerName(p), Source: p, Data: data})
	}
	return append(s.IngestBatches(ctx, batches), failed...)
}

func producerName(key string) string {
	base := path.Base(filepath.ToSlash(key))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Cinemas lists every known cinema by name.
func (s *Service) Cinemas(ctx context.Context) ([]models.Cinema, error) {
	var cinemas []models.Cinema
	if err := s.db.WithContext(ctx).Order("name").Find(&cinemas).Error; err != nil {
		return nil, fmt.Errorf("failed to list cinemas: %w", err)
	}
	return cinemas, nil
}

func statsKey(cinemaID uint) string {
	return strconv.FormatUint(uint64(cinemaID), 10)
}

// CinemaStats reports completeness over a cinema's persisted films and showings.
// Results are cached until the cinema is reconciled again or the TTL passes.
func (s *Service) CinemaStats(ctx context.Context, cinemaID uint) (stats.CinemaStats, error) {
	return s.stats.Get(ctx, statsKey(cinemaID), func(ctx context.Context) (stats.CinemaStats, error) {
		db := s.db.WithContext(ctx)

		var cinema models.Cinema
		if err := db.Take(&cinema, cinemaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return stats.CinemaStats{}, fmt.Errorf("%w: %d", ErrCinemaNotFound, cinemaID)
			}
			return stats.CinemaStats{}, fmt.Errorf("failed to load cinema %d: %w", cinemaID, err)
		}

		var films []models.Film
		if err := db.Where("cinema_id = ?", cinemaID).Find(&films).Error; err != nil {
			return stats.CinemaStats{}, fmt.Errorf("failed to load films: %w", err)
		}

		var showings []models.Showing
		err := db.Select("id", "booking_url", "theatre").Where("cinema_id = ?", cinemaID).Find(&showings).Error
		if err != nil {
			return stats.CinemaStats{}, fmt.Errorf("failed to load showings: %w", err)
		}

		return stats.ForCinema(cinema, films, showings), nil
	})
}

// PendingEnrichment lists films that still need enrichment.
func (s *Service) PendingEnrichment(ctx context.Context, limit int) ([]enrichment.PendingFilm, error) {
	return s.enrichment.MissingEnrichment(ctx, limit)
}

// SetEnrichment stores enrichment attributes for a film.
func (s *Service) SetEnrichment(ctx context.Context, filmID uint, e enrichment.Enrichment) (*models.FilmEnrichment, error) {
	return s.enrichment.SetEnrichment(ctx, filmID, e)
}
