package showtimes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"showtime-manager/core/database"
	"showtime-manager/core/lock"
	"showtime-manager/core/storage/mocks"
	"showtime-manager/feature/showtimes/models"
	"showtime-manager/feature/showtimes/stats"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

const twoCinemas = `[
  {
    "cinema": {"name": "Lux", "location": "Kastanienallee 1", "defaultLanguage": "de"},
    "showings": [
      {
        "film": {"title": "Nosferatu", "url": "/n", "director": "Murnau"},
        "showings": [
          {"startTime": "2025-01-01T20:00:00Z", "bookingUrl": "https://lux.example/1"},
          {"startTime": "not-a-date"}
        ]
      }
    ]
  },
  {
    "cinema": {"name": "Rex", "location": "Hauptstr. 5", "defaultLanguage": "en"},
    "showings": [
      {"film": {"title": "Metropolis", "url": "/m"}, "showings": [{"startTime": "2025-01-01T18:00:00+01:00"}]}
    ]
  }
]`

const luxOnly = `[
  {
    "cinema": {"name": "Lux", "location": "Kastanienallee 1", "defaultLanguage": "de"},
    "showings": [
      {"film": {"title": "Nosferatu", "url": "/n"}, "showings": [{"startTime": "2025-01-01T20:00:00Z"}, {"startTime": "2025-01-02T20:00:00Z"}]}
    ]
  }
]`

const invalidBatch = `[{"cinema": {"name": "", "defaultLanguage": "German"}, "showings": []}]`

type published struct {
	eventType string
	payload   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{eventType, payload})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// denyLocker reports one cinema as held by another process.
type denyLocker struct {
	deny string
}

func (l denyLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	if key == l.deny {
		return nil, fmt.Errorf("%s: %w", key, lock.ErrLocked)
	}
	return func() {}, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestService_Ingest(t *testing.T) {
	db := setupTestDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, nil, "", zap.NewNop(), Options{Publisher: pub})

	report := svc.Ingest(context.Background(), "berlin", []byte(twoCinemas))

	assert.Equal(t, "berlin", report.Producer)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.Rejected)
	require.Len(t, report.Cinemas, 2)
	assert.Equal(t, 2, report.Totals.Succeeded)

	lux := report.Cinemas[0]
	assert.Equal(t, "Lux", lux.Cinema)
	assert.True(t, lux.Success)
	assert.Equal(t, 1, lux.InsertedFilms)
	assert.Equal(t, 1, lux.InsertedShowings)
	assert.Equal(t, 1, lux.DroppedRecords)
	assert.Equal(t, "showings[0].showings[1].startTime", lux.Dropped[0].Path)

	assert.Equal(t, "Rex", report.Cinemas[1].Cinema)
	assert.Equal(t, 1, report.Cinemas[1].InsertedShowings)

	assert.Equal(t, int64(2), count(t, db, &models.Cinema{}))
	assert.Equal(t, int64(2), count(t, db, &models.Film{}))
	assert.Equal(t, int64(2), count(t, db, &models.Showing{}))

	require.Len(t, pub.events, 2)
	for _, e := range pub.events {
		assert.Equal(t, EventFilmsInserted, e.eventType)
		ev := e.payload.(FilmsInserted)
		assert.Equal(t, report.RunID, ev.RunID)
		assert.Len(t, ev.FilmIDs, 1)
	}

	t.Run("Replay Is Idempotent", func(t *testing.T) {
		again := svc.Ingest(context.Background(), "berlin", []byte(twoCinemas))
		assert.Equal(t, 2, again.Totals.Succeeded)
		assert.Equal(t, 0, again.Cinemas[0].InsertedShowings)
		assert.Equal(t, 1, again.Cinemas[0].SkippedShowings)
		assert.Equal(t, int64(2), count(t, db, &models.Showing{}))
		assert.Len(t, pub.events, 2, "no films inserted, no event")
	})
}

func TestService_Ingest_Rejected(t *testing.T) {
	db := setupTestDB(t)
	pub := &recordingPublisher{}
	svc := NewService(db, nil, "", zap.NewNop(), Options{Publisher: pub})

	report := svc.Ingest(context.Background(), "broken", []byte(invalidBatch))

	assert.True(t, report.Rejected)
	assert.False(t, report.Processed())
	assert.Empty(t, report.Cinemas)

	paths := make([]string, 0, len(report.Validation))
	for _, f := range report.Validation {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "[0].cinema.name")
	assert.Contains(t, paths, "[0].cinema.defaultLanguage")

	assert.Zero(t, count(t, db, &models.Cinema{}))
	assert.Empty(t, pub.events)
}

func TestService_Ingest_FailureIsolation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, "", zap.NewNop(), Options{Locker: denyLocker{deny: "Rex"}})

	report := svc.Ingest(context.Background(), "berlin", []byte(twoCinemas))

	require.Len(t, report.Cinemas, 2)
	assert.True(t, report.Cinemas[0].Success)
	assert.False(t, report.Cinemas[1].Success)
	assert.Contains(t, report.Cinemas[1].Reason, "lock")
	assert.Equal(t, 1, report.Totals.Succeeded)
	assert.Equal(t, 1, report.Totals.Failed)

	var names []string
	require.NoError(t, db.Model(&models.Cinema{}).Pluck("name", &names).Error)
	assert.Equal(t, []string{"Lux"}, names)
}

func TestService_Ingest_TaskSummaryIsLogged(t *testing.T) {
	db := setupTestDB(t)
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(db, nil, "", zap.New(core), Options{Locker: denyLocker{deny: "Rex"}})

	report := svc.Ingest(context.Background(), "berlin", []byte(twoCinemas))

	// The failed task keeps its own cinema report rather than the task error.
	require.Len(t, report.Cinemas, 2)
	assert.Equal(t, "Rex", report.Cinemas[1].Cinema)
	assert.Contains(t, report.Cinemas[1].Reason, lock.ErrLocked.Error())

	entries := logs.FilterMessage("Cinema tasks finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(2), fields["total"])
	assert.Equal(t, int64(1), fields["succeeded"])
	assert.Equal(t, int64(1), fields["failed"])
}

func TestService_Ingest_PublishFailureKeepsCommit(t *testing.T) {
	db := setupTestDB(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(db, nil, "", zap.NewNop(), Options{Publisher: pub})

	report := svc.Ingest(context.Background(), "lux", []byte(luxOnly))

	require.Len(t, report.Cinemas, 1)
	assert.True(t, report.Cinemas[0].Success)
	assert.Equal(t, int64(2), count(t, db, &models.Showing{}))
}

func TestService_Ingest_CancelledContext(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, "", zap.NewNop(), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := svc.Ingest(ctx, "berlin", []byte(twoCinemas))
	require.Len(t, report.Cinemas, 2)
	for _, c := range report.Cinemas {
		assert.False(t, c.Success)
		assert.Contains(t, c.Reason, "context canceled")
	}
	assert.Zero(t, count(t, db, &models.Cinema{}))
}

func TestService_IngestBatches_SameCinemaAcrossProducers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, "", zap.NewNop(), Options{Concurrency: 8})

	reports := svc.IngestBatches(context.Background(), []Batch{
		{Producer: "a", Data: []byte(luxOnly)},
		{Producer: "b", Data: []byte(twoCinemas)},
		{Producer: "c", Data: []byte(invalidBatch)},
	})

	require.Len(t, reports, 3)
	assert.Equal(t, "a", reports[0].Producer)
	assert.Equal(t, 2, reports[0].Cinemas[0].InsertedShowings)

	// Producer b ran after a for Lux and found the shared showing already stored.
	luxB := reports[1].Cinemas[0]
	assert.True(t, luxB.Success)
	assert.Equal(t, 0, luxB.InsertedFilms)
	assert.Equal(t, 1, luxB.SkippedShowings)
	assert.Equal(t, 1, luxB.UpdatedFilms, "director filled in")

	assert.True(t, reports[2].Rejected)

	assert.Equal(t, int64(2), count(t, db, &models.Film{}))
	assert.Equal(t, int64(3), count(t, db, &models.Showing{}))
	assert.NotEqual(t, reports[0].RunID, reports[1].RunID)
}

func TestService_IngestStorage(t *testing.T) {
	db := setupTestDB(t)
	client := new(mocks.Client)
	svc := NewService(db, client, "test-bucket", zap.NewNop(), Options{Archive: true})

	data := []byte(luxOnly)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).
		Return(mocks.Objects("batches/", "batches/lux.json", "batches/broken.json", "batches/gone.json"))
	client.On("GetObject", mock.Anything, "test-bucket", "batches/lux.json", mock.Anything).Return(mocks.Body(data), nil)
	client.On("GetObject", mock.Anything, "test-bucket", "batches/broken.json", mock.Anything).Return(mocks.Body([]byte(invalidBatch)), nil)
	client.On("GetObject", mock.Anything, "test-bucket", "batches/gone.json", mock.Anything).Return(nil, errors.New("connection reset"))
	client.On("PutObject", mock.Anything, "test-bucket", "archive/lux.json", mock.Anything, int64(len(data)), mock.Anything).Return(minio.UploadInfo{}, nil)
	client.On("RemoveObject", mock.Anything, "test-bucket", "batches/lux.json", mock.Anything).Return(nil)

	reports, err := svc.IngestStorage(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, "broken", reports[0].Producer)
	assert.True(t, reports[0].Rejected)
	assert.Empty(t, reports[0].Archived)

	assert.Equal(t, "lux", reports[1].Producer)
	assert.Equal(t, "batches/lux.json", reports[1].Source)
	assert.Equal(t, "archive/lux.json", reports[1].Archived)
	assert.Equal(t, 1, reports[1].Totals.Succeeded)

	assert.Equal(t, "gone", reports[2].Producer)
	assert.Contains(t, reports[2].Error, "connection reset")

	assert.Equal(t, int64(2), count(t, db, &models.Showing{}))
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "RemoveObject", mock.Anything, "test-bucket", "batches/broken.json", mock.Anything)
}

func TestService_IngestStorage_NoClient(t *testing.T) {
	svc := NewService(setupTestDB(t), nil, "", zap.NewNop(), Options{})
	_, err := svc.IngestStorage(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestService_IngestFiles(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, "", zap.NewNop(), Options{})

	dir := t.TempDir()
	file := filepath.Join(dir, "lux.json")
	require.NoError(t, os.WriteFile(file, []byte(luxOnly), 0o644))

	reports := svc.IngestFiles(context.Background(), []string{file, filepath.Join(dir, "missing.json")})
	require.Len(t, reports, 2)

	assert.Equal(t, "lux", reports[0].Producer)
	assert.Equal(t, 1, reports[0].Totals.Succeeded)
	assert.Equal(t, "missing", reports[1].Producer)
	assert.NotEmpty(t, reports[1].Error)
	assert.False(t, reports[1].Processed())
}

func TestService_CinemaStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, "", zap.NewNop(), Options{StatsCacheTTL: time.Hour})
	ctx := context.Background()

	report := svc.Ingest(ctx, "berlin", []byte(twoCinemas))
	luxID := report.Cinemas[0].CinemaID

	s, err := svc.CinemaStats(ctx, luxID)
	require.NoError(t, err)
	assert.Equal(t, "Lux", s.Cinema)
	assert.Equal(t, 1, s.Films)
	assert.Equal(t, 1, s.Showings)
	director, _ := s.Coverage(stats.FieldDirector)
	assert.Equal(t, 100.0, director.Percent)

	// A new reconciliation of Lux drops the cached entry.
	svc.Ingest(ctx, "lux", []byte(luxOnly))
	s, err = svc.CinemaStats(ctx, luxID)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Showings)
	booking, _ := s.Coverage(stats.FieldBookingURL)
	assert.Equal(t, 50.0, booking.Percent)

	_, err = svc.CinemaStats(ctx, 9999)
	assert.ErrorIs(t, err, ErrCinemaNotFound)
}

func TestService_Cinemas(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, "", zap.NewNop(), Options{})
	svc.Ingest(context.Background(), "berlin", []byte(twoCinemas))

	cinemas, err := svc.Cinemas(context.Background())
	require.NoError(t, err)
	require.Len(t, cinemas, 2)
	assert.Equal(t, "Lux", cinemas[0].Name)
	assert.Equal(t, "Rex", cinemas[1].Name)
}

func TestRunReport_Summary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, "", zap.NewNop(), Options{Locker: denyLocker{deny: "Rex"}})

	out := svc.Ingest(context.Background(), "berlin", []byte(twoCinemas)).Summary()
	assert.Contains(t, out, "producer berlin")
	assert.Contains(t, out, "2 cinema(s), 1 succeeded, 1 failed")
	assert.Contains(t, out, "NEW SHOWINGS")
	assert.Contains(t, out, "Lux")
	assert.Contains(t, out, "failed")

	rejected := svc.Ingest(context.Background(), "broken", []byte(invalidBatch)).Summary()
	assert.Contains(t, rejected, "rejected with")
	assert.Contains(t, rejected, "[0].cinema.defaultLanguage [langcode]")

	missing := (&RunReport{RunID: "r1", Producer: "gone", Error: "no such file"}).Summary()
	assert.Contains(t, missing, "not processed: no such file")
}
