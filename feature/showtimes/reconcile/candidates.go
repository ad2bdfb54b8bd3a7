package reconcile

import (
	"fmt"
	"strings"
	"time"

	"showtime-manager/core/utils"
	"showtime-manager/feature/showtimes/models"
)

// filmCandidate is a film group after key normalisation and per-record parsing.
type filmCandidate struct {
	key      FilmKey
	path     string
	film     models.FilmCandidate
	showings []showingCandidate
}

type showingCandidate struct {
	path       string
	start      time.Time
	end        *time.Time
	bookingURL *string
	theatre    *string
}

// prepare turns a validated group into candidates, dropping records whose fields
// cannot be used. Groups sharing a film key are merged in order.
func prepare(cinema string, groups []models.FilmGroup) ([]*filmCandidate, []RecordDropError) {
	var (
		out     []*filmCandidate
		dropped []RecordDropError
		byKey   = make(map[FilmKey]*filmCandidate, len(groups))
	)

	for i, g := range groups {
		path := fmt.Sprintf("showings[%d]", i)
		key := NewFilmKey(g.Film.Title, g.Film.URL)
		if !key.Valid() {
			dropped = append(dropped, RecordDropError{
				Cinema: cinema,
				Path:   path + ".film",
				Value:  g.Film.Title,
				Reason: fmt.Sprintf("title and url must not be blank (%d showing(s) dropped with it)", len(g.Showings)),
			})
			continue
		}

		c, ok := byKey[key]
		if ok {
			c.film = mergeFilm(c.film, g.Film)
		} else {
			c = &filmCandidate{key: key, path: path, film: g.Film}
			byKey[key] = c
			out = append(out, c)
		}

		for j, s := range g.Showings {
			sc, drop := parseShowing(cinema, fmt.Sprintf("%s.showings[%d]", path, j), s)
			if drop != nil {
				dropped = append(dropped, *drop)
				continue
			}
			c.showings = append(c.showings, sc)
		}
	}

	return out, dropped
}

func parseShowing(cinema, path string, s models.ShowingCandidate) (showingCandidate, *RecordDropError) {
	start, err := parseTimestamp(s.StartTime)
	if err != nil {
		return showingCandidate{}, &RecordDropError{Cinema: cinema, Path: path + ".startTime", Value: s.StartTime, Reason: err.Error()}
	}

	sc := showingCandidate{
		path:       path,
		start:      start,
		bookingURL: utils.NonEmpty(s.BookingURL),
		theatre:    utils.NonEmpty(s.Theatre),
	}

	if raw := utils.StringValue(s.EndTime); raw != "" {
		end, err := parseTimestamp(raw)
		if err != nil {
			return showingCandidate{}, &RecordDropError{Cinema: cinema, Path: path + ".endTime", Value: raw, Reason: err.Error()}
		}
		if end.Before(start) {
			return showingCandidate{}, &RecordDropError{Cinema: cinema, Path: path + ".endTime", Value: raw, Reason: "ends before it starts"}
		}
		sc.end = &end
	}

	return sc, nil
}

// parseTimestamp accepts RFC 3339 with a zone and normalises to UTC milliseconds.
func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("not a timezone-qualified RFC 3339 timestamp")
	}
	return t.UTC().Truncate(time.Millisecond), nil
}

// mergeFilm overlays the non-empty optional fields of next onto prev.
func mergeFilm(prev, next models.FilmCandidate) models.FilmCandidate {
	if v := utils.NonEmpty(next.Director); v != nil {
		prev.Director = v
	}
	if v := utils.PositiveInt(next.Duration); v != nil {
		prev.Duration = v
	}
	if v := utils.NonEmpty(next.Language); v != nil {
		prev.Language = v
	}
	if v := utils.PositiveInt(next.Year); v != nil {
		prev.Year = v
	}
	if v := utils.NonEmpty(next.Country); v != nil {
		prev.Country = v
	}
	if v := utils.NonEmpty(next.CoverURL); v != nil {
		prev.CoverURL = v
	}
	return prev
}

func newFilm(cinemaID uint, c models.FilmCandidate) models.Film {
	return models.Film{
		CinemaID:    cinemaID,
		Title:       c.Title,
		URL:         c.URL,
		Director:    utils.NonEmpty(c.Director),
		Duration:    utils.PositiveInt(c.Duration),
		Language:    utils.NonEmpty(c.Language),
		ReleaseYear: utils.PositiveInt(c.Year),
		Country:     utils.NonEmpty(c.Country),
		CoverURL:    utils.NonEmpty(c.CoverURL),
	}
}

// filmUpdates returns the columns of stored to overwrite with the candidate's values.
// A populated incoming value replaces a missing or different stored value; a missing
// incoming value never clears one. stored is updated in place.
func filmUpdates(stored *models.Film, c models.FilmCandidate) map[string]any {
	updates := make(map[string]any)

	setString := func(column string, dst **string, incoming *string) {
		v := utils.NonEmpty(incoming)
		if v == nil || (*dst != nil && **dst == *v) {
			return
		}
		updates[column] = *v
		*dst = v
	}
	setInt := func(column string, dst **int, incoming *int) {
		v := utils.PositiveInt(incoming)
		if v == nil || (*dst != nil && **dst == *v) {
			return
		}
		updates[column] = *v
		*dst = v
	}

	setString("director", &stored.Director, c.Director)
	setInt("duration", &stored.Duration, c.Duration)
	setString("language", &stored.Language, c.Language)
	setInt("release_year", &stored.ReleaseYear, c.Year)
	setString("country", &stored.Country, c.Country)
	setString("cover_url", &stored.CoverURL, c.CoverURL)

	return updates
}
