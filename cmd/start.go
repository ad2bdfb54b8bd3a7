package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"showtime-manager/core/config"
	"showtime-manager/core/database"
	"showtime-manager/core/loader"
	"showtime-manager/core/logger"
	"showtime-manager/core/middleware/auth"
	"showtime-manager/core/middleware/rayid"
	"showtime-manager/core/storage"

	"showtime-manager/feature/integrity"
	"showtime-manager/feature/showtimes"
	"showtime-manager/feature/showtimes/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "showtime-manager/docs/swagger"
)

// @title Showtime Manager API
// @version 1.0
// @description API for ingesting and reconciling film showtime listings.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the showtime manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		// Without it only the integrity storage checks are served.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg = logg.With(zap.String("driver", cfg.Database.Driver))
			logg.Info("Connected to showtime database")

			if cfg.Database.AutoMigrate {
				if err := database.Migrate(db, models.All()...); err != nil {
					logg.Fatal("Failed to migrate showtime tables", zap.Error(err))
				}
			}
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// 5. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 6. Lock and event publisher
		opts, closeOpts := showtimeOptions(context.Background(), cfg, logg)
		defer closeOpts()

		// 7. Initialize Feature Loader
		mgr := loader.NewManager(logg)

		// Register Features
		mgr.Register(integrity.NewFeature(store, cfg.Storage, logg, db))
		mgr.Register(showtimes.NewFeature(db, store, cfg.Storage.Bucket, logg, opts))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
