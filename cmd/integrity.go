package cmd

import (
	"context"
	"fmt"
	"os"

	"showtime-manager/core/config"
	"showtime-manager/core/database"
	"showtime-manager/core/logger"
	"showtime-manager/core/storage"
	"showtime-manager/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and the showtime database",
	Long:  `Checks the bucket folder structure, the database schema and the pending producer batches.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), true, true, true, false)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the bucket folder structure",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false, false, fixFlag)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the database schema against the showtime models",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, true, false, false)
	},
}

// batchesCmd represents the integrity batches command
var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "Validate pending producer batches without reconciling them",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, false, true, false)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, schemaCmd, batchesCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and missing folders")
}

func runIntegrityChecks(ctx context.Context, runStructure, runSchema, runBatches, fix bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logg.Sync()

	// Create Storage Client
	var store storage.Client
	if runStructure || runBatches {
		store, err = storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
	}

	// Connect to Database (Optional)
	var db *gorm.DB
	if runSchema {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
		}
	}

	svc := integrity.NewService(store, cfg.Storage, logg, db)

	if runStructure {
		logg.Info("Checking folder structure...", zap.String("bucket", cfg.Storage.Bucket))
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			logg.Fatal("Structure check failed", zap.Error(err))
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if fix {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					logg.Fatal("Failed to fix structure", zap.Error(err))
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run 'integrity structure --fix' to create missing folders.")
			}
		}
	}

	if runSchema {
		logg.Info("Checking database schema...", zap.String("driver", cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			logg.Error("Schema check failed", zap.Error(err))
		} else if report.Matched {
			logg.Info("Schema matches the showtime models.", zap.String("driver", report.Driver))
		} else {
			logg.Warn("Schema mismatches found", zap.String("driver", report.Driver))
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if tbl.Status == "missing" {
					logg.Warn("Missing table", zap.String("table", table))
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runBatches {
		logg.Info("Validating pending batches...", zap.String("prefix", cfg.Storage.BatchPrefix))
		reports, err := svc.CheckBatches(ctx)
		if err != nil {
			logg.Fatal("Batch check failed", zap.Error(err))
		}

		invalid := 0
		for _, r := range reports {
			if r.Valid {
				logg.Info("Batch is valid", zap.String("key", r.Key), zap.Int("cinemas", r.Cinemas))
				continue
			}
			invalid++
			fields := make([]string, 0, len(r.Fields))
			for _, f := range r.Fields {
				fields = append(fields, f.Path+" ["+f.Rule+"]")
			}
			logg.Warn("Batch would be rejected",
				zap.String("key", r.Key),
				zap.String("error", r.Error),
				zap.Strings("fields", fields),
			)
		}
		logg.Info("Batch check completed", zap.Int("total", len(reports)), zap.Int("invalid", invalid))
	}
}
