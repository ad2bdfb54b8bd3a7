package reconcile

import (
	"testing"
	"time"

	"showtime-manager/core/utils"
	"showtime-manager/feature/showtimes/models"

	"github.com/stretchr/testify/assert"
)

func TestMatchFilm(t *testing.T) {
	existing := []models.Film{
		{ID: 1, CinemaID: 7, Title: "Nosferatu", URL: "/n"},
		{ID: 2, CinemaID: 7, Title: "Metropolis ", URL: "/m"},
	}

	tests := []struct {
		name      string
		candidate models.FilmCandidate
		wantID    uint
		wantFound bool
	}{
		{"Exact", models.FilmCandidate{Title: "Nosferatu", URL: "/n"}, 1, true},
		{"Surrounding Whitespace", models.FilmCandidate{Title: "  Nosferatu\t", URL: " /n "}, 1, true},
		{"Stored Whitespace", models.FilmCandidate{Title: "Metropolis", URL: "/m"}, 2, true},
		{"Case Sensitive", models.FilmCandidate{Title: "nosferatu", URL: "/n"}, 0, false},
		{"Same Title Other URL", models.FilmCandidate{Title: "Nosferatu", URL: "/n2"}, 0, false},
		{"Other Attributes Ignored", models.FilmCandidate{Title: "Nosferatu", URL: "/n", Director: utils.Ptr("Herzog")}, 1, true},
		{"Punctuation Not Normalised", models.FilmCandidate{Title: "Nosferatu.", URL: "/n"}, 0, false},
		{"Blank Key", models.FilmCandidate{Title: " ", URL: "/n"}, 0, false},
	}

	idx := NewFilmIndex(existing)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, found := idx.MatchFilm(NewFilmKey(tt.candidate.Title, tt.candidate.URL))
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantID, f.ID)
			}
		})
	}
}

func TestMatchShowing(t *testing.T) {
	start := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	existing := []models.Showing{
		{ID: 10, CinemaID: 7, FilmID: 1, StartTime: start},
	}

	tests := []struct {
		name      string
		candidate models.Showing
		filmID    uint
		wantFound bool
	}{
		{"Exact", models.Showing{CinemaID: 7, StartTime: start}, 1, true},
		{"Same Instant Other Zone", models.Showing{CinemaID: 7, StartTime: start.In(time.FixedZone("CET", 3600))}, 1, true},
		{"One Millisecond Later", models.Showing{CinemaID: 7, StartTime: start.Add(time.Millisecond)}, 1, false},
		{"Sub Millisecond Ignored", models.Showing{CinemaID: 7, StartTime: start.Add(time.Microsecond)}, 1, true},
		{"Other Film", models.Showing{CinemaID: 7, StartTime: start}, 2, false},
		{"Other Cinema", models.Showing{CinemaID: 8, StartTime: start}, 1, false},
	}

	idx := NewShowingIndex(existing)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, found := idx.MatchShowing(NewShowingKey(tt.candidate.CinemaID, tt.filmID, tt.candidate.StartTime))
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, uint(10), id)
			}
		})
	}
}

func TestFilmIndex_FirstStoredRowWins(t *testing.T) {
	idx := NewFilmIndex([]models.Film{
		{ID: 1, Title: "Nosferatu", URL: "/n"},
		{ID: 2, Title: "Nosferatu ", URL: "/n"},
	})
	f, ok := idx.MatchFilm(NewFilmKey("Nosferatu", "/n"))
	assert.True(t, ok)
	assert.Equal(t, uint(1), f.ID)
}

func TestShowingIndex_QueuedShowingMatches(t *testing.T) {
	start := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	idx := NewShowingIndex(nil)
	key := NewShowingKey(7, 1, start)

	_, found := idx.MatchShowing(key)
	assert.False(t, found)

	idx.Add(key, 0)
	id, found := idx.MatchShowing(key)
	assert.True(t, found)
	assert.Zero(t, id)
}

func TestPrepare(t *testing.T) {
	groups := []models.FilmGroup{
		{
			Film: models.FilmCandidate{Title: "Nosferatu", URL: "/n"},
			Showings: []models.ShowingCandidate{
				{StartTime: "2025-01-01T20:00:00Z"},
				{StartTime: "not-a-date"},
				{StartTime: "2025-01-01T20:00:00"}, // no zone
				{StartTime: "2025-01-01T22:00:00+01:00", EndTime: utils.Ptr("2025-01-01T21:00:00+01:00")},
				{StartTime: "2025-01-02T20:00:00Z", EndTime: utils.Ptr("soon")},
			},
		},
		{
			Film:     models.FilmCandidate{Title: "  ", URL: "/blank", Director: utils.Ptr("x")},
			Showings: []models.ShowingCandidate{{StartTime: "2025-01-01T20:00:00Z"}},
		},
		{
			Film:     models.FilmCandidate{Title: "Nosferatu ", URL: "/n", Director: utils.Ptr("Murnau")},
			Showings: []models.ShowingCandidate{{StartTime: "2025-01-03T20:00:00.250+02:00", Theatre: utils.Ptr(" 1 ")}},
		},
	}

	candidates, dropped := prepare("Lux", groups)

	assert.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, FilmKey{Title: "Nosferatu", URL: "/n"}, c.key)
	assert.Equal(t, "Murnau", *c.film.Director)
	assert.Len(t, c.showings, 2)
	assert.Equal(t, time.Date(2025, 1, 3, 18, 0, 0, 250*int(time.Millisecond), time.UTC), c.showings[1].start)
	assert.Equal(t, "1", *c.showings[1].theatre)

	paths := make([]string, len(dropped))
	for i, d := range dropped {
		paths[i] = d.Path
		assert.Equal(t, "Lux", d.Cinema)
	}
	assert.Equal(t, []string{
		"showings[0].showings[1].startTime",
		"showings[0].showings[2].startTime",
		"showings[0].showings[3].endTime",
		"showings[0].showings[4].endTime",
		"showings[1].film",
	}, paths)
}

func TestFilmUpdates(t *testing.T) {
	stored := &models.Film{
		Title:    "Nosferatu",
		URL:      "/n",
		Director: utils.Ptr("Murnau"),
		Duration: utils.Ptr(94),
	}

	t.Run("Missing Values Never Clear", func(t *testing.T) {
		updates := filmUpdates(stored, models.FilmCandidate{Director: utils.Ptr(""), Duration: nil})
		assert.Empty(t, updates)
		assert.Equal(t, "Murnau", *stored.Director)
	})

	t.Run("Same Values Are No-Ops", func(t *testing.T) {
		assert.Empty(t, filmUpdates(stored, models.FilmCandidate{Director: utils.Ptr(" Murnau "), Duration: utils.Ptr(94)}))
	})

	t.Run("Fill And Overwrite", func(t *testing.T) {
		updates := filmUpdates(stored, models.FilmCandidate{
			Director: utils.Ptr("F. W. Murnau"),
			Year:     utils.Ptr(1922),
			Country:  utils.Ptr("DE"),
		})
		assert.Equal(t, map[string]any{
			"director":     "F. W. Murnau",
			"release_year": 1922,
			"country":      "DE",
		}, updates)
		assert.Equal(t, "F. W. Murnau", *stored.Director)
		assert.Equal(t, 1922, *stored.ReleaseYear)
	})
}
