package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"showtime-manager/core/database"
	"showtime-manager/feature/showtimes/models"
	"showtime-manager/feature/showtimes/reconcile"
	"showtime-manager/feature/showtimes/stats"
	"showtime-manager/feature/showtimes/validate"

	"go.uber.org/zap"
)

// Replays a batch file into a scratch in-memory database twice. The second
// pass must insert nothing.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_batch <batch.json>")
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== TEST 1: Validation ===")
	groups, err := validate.Batch(raw)
	if err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				fmt.Printf("  %s [%s] %s\n", f.Path, f.Rule, f.Message)
			}
		}
		log.Fatal(err)
	}
	fmt.Printf("Cinemas in batch: %d\n", len(groups))
	fmt.Print(stats.Compute(groups).String())

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db, models.All()...); err != nil {
		log.Fatal(err)
	}

	engine := reconcile.NewEngine(db, zap.NewNop())
	ctx := context.Background()

	for pass := 1; pass <= 2; pass++ {
		fmt.Printf("\n=== TEST %d: Reconcile pass %d ===\n", pass+1, pass)
		for _, group := range groups {
			res, err := engine.Reconcile(ctx, group)
			if err != nil {
				fmt.Printf("%s: FAILED %v\n", group.Cinema.Name, err)
				continue
			}
			fmt.Printf("%s: films +%d ~%d, showings +%d (skipped %d), dropped %d\n",
				res.Cinema, res.InsertedFilms, res.UpdatedFilms,
				res.InsertedShowings, res.SkippedShowings, len(res.Dropped))
			if pass == 2 && (res.InsertedFilms > 0 || res.InsertedShowings > 0) {
				fmt.Println("  WARNING: replay inserted new rows")
			}
		}
	}
}
