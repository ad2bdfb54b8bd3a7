package stats

import (
	"testing"

	"showtime-manager/core/utils"
	"showtime-manager/feature/showtimes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch() []models.CinemaGroup {
	return []models.CinemaGroup{
		{
			Cinema: models.CinemaDescriptor{Name: " Lux ", DefaultLanguage: "de"},
			Showings: []models.FilmGroup{
				{
					Film: models.FilmCandidate{Title: "Nosferatu", URL: "/n", Director: utils.Ptr("Murnau"), Duration: utils.Ptr(94), Year: utils.Ptr(1922)},
					Showings: []models.ShowingCandidate{
						{StartTime: "2025-01-01T20:00:00Z", BookingURL: utils.Ptr("https://lux.example/1"), Theatre: utils.Ptr("1")},
						{StartTime: "2025-01-02T20:00:00Z", Theatre: utils.Ptr("  ")},
					},
				},
				{
					Film: models.FilmCandidate{Title: "Metropolis", URL: "/m", Director: utils.Ptr(""), Country: utils.Ptr("DE")},
					Showings: []models.ShowingCandidate{
						{StartTime: "2025-01-03T20:00:00Z", BookingURL: utils.Ptr("https://lux.example/3")},
					},
				},
				{
					Film: models.FilmCandidate{Title: "M", URL: "/m2", Language: utils.Ptr("de"), CoverURL: utils.Ptr("https://img/m.jpg")},
				},
			},
		},
		{Cinema: models.CinemaDescriptor{Name: "Rex", DefaultLanguage: "en"}},
	}
}

func TestCompute(t *testing.T) {
	batch := sampleBatch()
	report := Compute(batch)
	require.Len(t, report.Cinemas, 2)

	lux := report.Cinemas[0]
	assert.Equal(t, "Lux", lux.Cinema)
	assert.Equal(t, 3, lux.Films)
	assert.Equal(t, 3, lux.Showings)

	expected := map[string]FieldCoverage{
		FieldDirector:   {Field: FieldDirector, Populated: 1, Percent: 33.3},
		FieldDuration:   {Field: FieldDuration, Populated: 1, Percent: 33.3},
		FieldLanguage:   {Field: FieldLanguage, Populated: 1, Percent: 33.3},
		FieldYear:       {Field: FieldYear, Populated: 1, Percent: 33.3},
		FieldCountry:    {Field: FieldCountry, Populated: 1, Percent: 33.3},
		FieldCoverURL:   {Field: FieldCoverURL, Populated: 1, Percent: 33.3},
		FieldBookingURL: {Field: FieldBookingURL, Populated: 2, Percent: 66.7},
		FieldTheatre:    {Field: FieldTheatre, Populated: 1, Percent: 33.3},
	}
	for field, want := range expected {
		got, ok := lux.Coverage(field)
		require.True(t, ok, field)
		assert.Equal(t, want, got, field)
	}

	rex := report.Cinemas[1]
	assert.Zero(t, rex.Films)
	assert.Zero(t, rex.Showings)
	for _, fc := range append(rex.FilmFields, rex.ShowingFields...) {
		assert.Zero(t, fc.Percent)
	}

	// The batch is only read.
	assert.Equal(t, sampleBatch(), batch)
}

func TestCoverage_UnknownField(t *testing.T) {
	_, ok := CinemaStats{}.Coverage("rating")
	assert.False(t, ok)
}

func TestForCinema(t *testing.T) {
	films := []models.Film{
		{Title: "Nosferatu", Director: utils.Ptr("Murnau"), ReleaseYear: utils.Ptr(1922)},
		{Title: "Metropolis"},
	}
	showings := []models.Showing{
		{BookingURL: utils.Ptr("https://lux.example/1"), Theatre: utils.Ptr("1")},
		{Theatre: utils.Ptr("2")},
		{},
		{},
	}

	s := ForCinema(models.Cinema{Name: "Lux"}, films, showings)
	assert.Equal(t, "Lux", s.Cinema)
	assert.Equal(t, 2, s.Films)
	assert.Equal(t, 4, s.Showings)

	year, _ := s.Coverage(FieldYear)
	assert.Equal(t, 50.0, year.Percent)
	theatre, _ := s.Coverage(FieldTheatre)
	assert.Equal(t, 50.0, theatre.Percent)
	booking, _ := s.Coverage(FieldBookingURL)
	assert.Equal(t, 25.0, booking.Percent)
}

func TestReport_String(t *testing.T) {
	out := Compute(sampleBatch()).String()

	assert.Contains(t, out, "CINEMA")
	assert.Contains(t, out, "COVER_URL")
	assert.Contains(t, out, "BOOKING_URL")
	assert.Contains(t, out, "Lux")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "Rex")
	assert.Contains(t, out, "0.0%")
}
