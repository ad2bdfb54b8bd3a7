package cmd

import (
	"errors"
	"fmt"
	"os"

	"showtime-manager/feature/showtimes/stats"
	"showtime-manager/feature/showtimes/validate"

	"github.com/spf13/cobra"
)

var statsFiles []string

// statsCmd prints field coverage for producer batches without touching the database.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report optional-field coverage of producer batches",
	Long: `Validates each batch file and prints, per cinema, how many films and showings
it carries and how often each optional field is populated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(statsFiles) == 0 {
			return fmt.Errorf("at least one --file is required")
		}

		for _, path := range statsFiles {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			groups, err := validate.Batch(raw)
			if err != nil {
				var verr *validate.ValidationError
				if errors.As(err, &verr) {
					fmt.Printf("%s: rejected with %d field error(s)\n", path, len(verr.Fields))
					for _, f := range verr.Fields {
						fmt.Printf("  %s [%s] %s\n", f.Path, f.Rule, f.Message)
					}
					continue
				}
				return fmt.Errorf("%s: %w", path, err)
			}

			fmt.Printf("%s:\n", path)
			fmt.Print(stats.Compute(groups).String())
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringSliceVar(&statsFiles, "file", nil, "Batch file to inspect (repeatable)")
	RootCmd.AddCommand(statsCmd)
}
