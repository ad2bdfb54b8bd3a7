package cmd

import (
	"context"
	"fmt"
	"time"

	"showtime-manager/core/config"
	"showtime-manager/core/database"
	"showtime-manager/core/lock"
	"showtime-manager/core/logger"
	"showtime-manager/core/queue"
	"showtime-manager/core/storage"
	"showtime-manager/feature/showtimes"
	"showtime-manager/feature/showtimes/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileFiles       []string
	reconcileArchive     bool
	reconcileConcurrency int
)

// reconcileCmd runs one ingestion run.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile pending producer batches into the showtime store",
	Long: `Validates every pending producer batch and reconciles each cinema in its own transaction.

Batches are read from the storage bucket (batch prefix) unless --file is given.
A rejected batch or a failed cinema is reported but does not stop the run; the
command only fails when no batch could be processed at all.

Examples:
  # Ingest everything waiting in the bucket
  reconcile

  # Ingest local files without touching storage
  reconcile --file lux.json --file rex.json

  # Keep processed batches in place
  reconcile --archive=false`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringSliceVar(&reconcileFiles, "file", nil, "Local batch file (repeatable)")
	reconcileCmd.Flags().BoolVar(&reconcileArchive, "archive", true, "Move processed storage batches to the archive prefix")
	reconcileCmd.Flags().IntVar(&reconcileConcurrency, "concurrency", 0, "Cinemas reconciled at once (default from INGEST_CONCURRENCY)")

	RootCmd.AddCommand(reconcileCmd)
}

// showtimeOptions builds the service options from configuration. The returned
// closer releases the publisher connection.
func showtimeOptions(ctx context.Context, cfg *config.Config, logg *zap.Logger) (showtimes.Options, func()) {
	locker, err := lock.New(ctx, cfg.Redis)
	if err != nil {
		logg.Warn("Redis lock unavailable, relying on database constraints", zap.Error(err))
		locker = lock.Nop{}
	}

	publisher, err := queue.New(cfg.Queue)
	if err != nil {
		logg.Warn("Queue unavailable, films events disabled", zap.Error(err))
		publisher = queue.Nop{}
	}

	opts := showtimes.Options{
		Concurrency:   cfg.Ingest.Concurrency,
		LockTTL:       cfg.Ingest.LockTTL(),
		StatsCacheTTL: cfg.Ingest.StatsCacheTTL(),
		Archive:       cfg.Ingest.Archive,
		BatchPrefix:   cfg.Storage.BatchPrefix,
		ArchivePrefix: cfg.Storage.ArchivePrefix,
		Locker:        locker,
		Publisher:     publisher,
	}
	return opts, func() { _ = publisher.Close() }
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, models.All()...); err != nil {
			return err
		}
	}

	opts, closeOpts := showtimeOptions(ctx, cfg, l)
	defer closeOpts()
	if cmd.Flags().Changed("archive") {
		opts.Archive = reconcileArchive
	}
	if reconcileConcurrency > 0 {
		opts.Concurrency = reconcileConcurrency
	}

	var reports []*showtimes.RunReport
	if len(reconcileFiles) > 0 {
		svc := showtimes.NewService(db, nil, "", l, opts)
		reports = svc.IngestFiles(ctx, reconcileFiles)
	} else {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		svc := showtimes.NewService(db, client, cfg.Storage.Bucket, l, opts)
		reports, err = svc.IngestStorage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list pending batches: %w", err)
		}
	}

	if len(reports) == 0 {
		l.Info("No pending batches")
		return nil
	}

	processed, cinemasOK, cinemasFailed := 0, 0, 0
	for _, r := range reports {
		fmt.Println(r.Summary())
		if r.Processed() {
			processed++
		}
		cinemasOK += r.Totals.Succeeded
		cinemasFailed += r.Totals.Failed
	}

	l.Info("Reconciliation run finished",
		zap.Int("batches", len(reports)),
		zap.Int("processed", processed),
		zap.Int("cinemas_succeeded", cinemasOK),
		zap.Int("cinemas_failed", cinemasFailed),
		zap.Duration("duration", time.Since(start)),
	)

	if processed == 0 {
		return fmt.Errorf("none of the %d batch(es) could be processed", len(reports))
	}
	return nil
}
