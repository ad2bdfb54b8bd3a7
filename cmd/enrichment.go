package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"showtime-manager/core/config"
	"showtime-manager/core/database"
	"showtime-manager/core/logger"
	"showtime-manager/core/utils"
	"showtime-manager/feature/showtimes/enrichment"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var (
	pendingLimit     int
	enrichSource     string
	enrichExternalID string
	enrichRating     float64
	enrichVotes      int
	enrichPayload    string
)

// enrichmentCmd groups the film enrichment commands.
var enrichmentCmd = &cobra.Command{
	Use:   "enrichment",
	Short: "Inspect and record external film metadata",
}

var enrichmentPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List films that have no external metadata yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, logg, err := enrichmentRepository()
		if err != nil {
			return err
		}
		defer logg.Sync()

		films, err := repo.MissingEnrichment(cmd.Context(), pendingLimit)
		if err != nil {
			return fmt.Errorf("failed to list pending films: %w", err)
		}

		data, err := json.MarshalIndent(films, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		logg.Info("Pending enrichment listed", zap.Int("films", len(films)))
		return nil
	},
}

var enrichmentSetCmd = &cobra.Command{
	Use:   "set <film-id>",
	Short: "Record external metadata for a film",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filmID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || filmID == 0 {
			return fmt.Errorf("invalid film id %q", args[0])
		}

		e := enrichment.Enrichment{Source: enrichSource, ExternalID: enrichExternalID}
		if cmd.Flags().Changed("rating") {
			e.Rating = utils.Ptr(enrichRating)
		}
		if cmd.Flags().Changed("votes") {
			e.Votes = utils.Ptr(enrichVotes)
		}
		if enrichPayload != "" {
			if !json.Valid([]byte(enrichPayload)) {
				return fmt.Errorf("--payload is not valid JSON")
			}
			e.Payload = datatypes.JSON(enrichPayload)
		}

		repo, logg, err := enrichmentRepository()
		if err != nil {
			return err
		}
		defer logg.Sync()

		saved, err := repo.SetEnrichment(cmd.Context(), uint(filmID), e)
		if err != nil {
			return err
		}
		logg.Info("Film enrichment saved",
			zap.Uint("film_id", saved.FilmID),
			zap.String("source", saved.Source),
			zap.String("external_id", saved.ExternalID),
		)
		return nil
	},
}

func init() {
	enrichmentPendingCmd.Flags().IntVar(&pendingLimit, "limit", enrichment.DefaultLimit, "Maximum films to list")

	enrichmentSetCmd.Flags().StringVar(&enrichSource, "source", enrichment.DefaultSource, "Metadata source name")
	enrichmentSetCmd.Flags().StringVar(&enrichExternalID, "external-id", "", "Identifier of the film at the source")
	enrichmentSetCmd.Flags().Float64Var(&enrichRating, "rating", 0, "Rating reported by the source")
	enrichmentSetCmd.Flags().IntVar(&enrichVotes, "votes", 0, "Vote count reported by the source")
	enrichmentSetCmd.Flags().StringVar(&enrichPayload, "payload", "", "Raw JSON document from the source")
	_ = enrichmentSetCmd.MarkFlagRequired("external-id")

	enrichmentCmd.AddCommand(enrichmentPendingCmd, enrichmentSetCmd)
	RootCmd.AddCommand(enrichmentCmd)
}

func enrichmentRepository() (*enrichment.Repository, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection required: %w", err)
	}
	return enrichment.NewRepository(db), logg, nil
}
