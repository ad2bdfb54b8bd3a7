package stats

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"showtime-manager/core/utils"
	"showtime-manager/feature/showtimes/models"
)

// Field names, in report order.
const (
	FieldDirector   = "director"
	FieldDuration   = "duration"
	FieldLanguage   = "language"
	FieldYear       = "year"
	FieldCountry    = "country"
	FieldCoverURL   = "cover_url"
	FieldBookingURL = "booking_url"
	FieldTheatre    = "theatre"
)

var (
	filmFields    = []string{FieldDirector, FieldDuration, FieldLanguage, FieldYear, FieldCountry, FieldCoverURL}
	showingFields = []string{FieldBookingURL, FieldTheatre}
)

// FieldCoverage is how many records populate one optional field.
type FieldCoverage struct {
	Field     string  `json:"field"`
	Populated int     `json:"populated"`
	Percent   float64 `json:"percent"`
}

// CinemaStats holds the completeness metrics of one cinema.
type CinemaStats struct {
	Cinema        string          `json:"cinema"`
	Films         int             `json:"films"`
	Showings      int             `json:"showings"`
	FilmFields    []FieldCoverage `json:"film_fields"`
	ShowingFields []FieldCoverage `json:"showing_fields"`
}

// Coverage returns the coverage of field, or false if the field is not tracked.
func (s CinemaStats) Coverage(field string) (FieldCoverage, bool) {
	for _, list := range [][]FieldCoverage{s.FilmFields, s.ShowingFields} {
		for _, fc := range list {
			if fc.Field == field {
				return fc, true
			}
		}
	}
	return FieldCoverage{}, false
}

// Report is the per-cinema completeness summary of a batch.
type Report struct {
	Cinemas []CinemaStats `json:"cinemas"`
}

// tally counts populated fields while records are walked.
type tally struct {
	films    int
	showings int
	counts   map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int, len(filmFields)+len(showingFields))}
}

func (t *tally) film(director *string, duration *int, language *string, year *int, country, coverURL *string) {
	t.films++
	t.mark(FieldDirector, utils.NonEmpty(director) != nil)
	t.mark(FieldDuration, utils.PositiveInt(duration) != nil)
	t.mark(FieldLanguage, utils.NonEmpty(language) != nil)
	t.mark(FieldYear, utils.PositiveInt(year) != nil)
	t.mark(FieldCountry, utils.NonEmpty(country) != nil)
	t.mark(FieldCoverURL, utils.NonEmpty(coverURL) != nil)
}

func (t *tally) showing(bookingURL, theatre *string) {
	t.showings++
	t.mark(FieldBookingURL, utils.NonEmpty(bookingURL) != nil)
	t.mark(FieldTheatre, utils.NonEmpty(theatre) != nil)
}

func (t *tally) mark(field string, populated bool) {
	if populated {
		t.counts[field]++
	}
}

func (t *tally) stats(cinema string) CinemaStats {
	coverage := func(fields []string, total int) []FieldCoverage {
		out := make([]FieldCoverage, 0, len(fields))
		for _, f := range fields {
			out = append(out, FieldCoverage{Field: f, Populated: t.counts[f], Percent: utils.Percent(t.counts[f], total)})
		}
		return out
	}
	return CinemaStats{
		Cinema:        cinema,
		Films:         t.films,
		Showings:      t.showings,
		FilmFields:    coverage(filmFields, t.films),
		ShowingFields: coverage(showingFields, t.showings),
	}
}

// Compute walks a producer batch and reports completeness per cinema group.
// It only reads groups.
func Compute(groups []models.CinemaGroup) Report {
	report := Report{Cinemas: make([]CinemaStats, 0, len(groups))}
	for _, g := range groups {
		t := newTally()
		for _, fg := range g.Showings {
			f := fg.Film
			t.film(f.Director, f.Duration, f.Language, f.Year, f.Country, f.CoverURL)
			for _, s := range fg.Showings {
				t.showing(s.BookingURL, s.Theatre)
			}
		}
		report.Cinemas = append(report.Cinemas, t.stats(strings.TrimSpace(g.Cinema.Name)))
	}
	return report
}

// ForCinema reports completeness over a cinema's persisted rows.
func ForCinema(cinema models.Cinema, films []models.Film, showings []models.Showing) CinemaStats {
	t := newTally()
	for _, f := range films {
		t.film(f.Director, f.Duration, f.Language, f.ReleaseYear, f.Country, f.CoverURL)
	}
	for _, s := range showings {
		t.showing(s.BookingURL, s.Theatre)
	}
	return t.stats(cinema.Name)
}

// String renders the report as an aligned plain-text table.
func (r Report) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	header := []string{"CINEMA", "FILMS", "SHOWINGS"}
	for _, f := range append(append([]string{}, filmFields...), showingFields...) {
		header = append(header, strings.ToUpper(f))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, c := range r.Cinemas {
		row := []string{c.Cinema, fmt.Sprint(c.Films), fmt.Sprint(c.Showings)}
		for _, fc := range append(append([]FieldCoverage{}, c.FilmFields...), c.ShowingFields...) {
			row = append(row, fmt.Sprintf("%.1f%%", fc.Percent))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	_ = w.Flush()
	return sb.String()
}
