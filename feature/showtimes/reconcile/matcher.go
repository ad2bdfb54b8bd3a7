package reconcile

import (
	"strings"
	"time"

	"showtime-manager/feature/showtimes/models"
)

// FilmKey is the matching key of a film within one cinema.
// Matching is exact and case-sensitive; only surrounding whitespace is ignored.
type FilmKey struct {
	Title string
	URL   string
}

// NewFilmKey normalises title and url into a FilmKey. Stored values are left untouched.
func NewFilmKey(title, url string) FilmKey {
	return FilmKey{Title: strings.TrimSpace(title), URL: strings.TrimSpace(url)}
}

// Valid reports whether both parts survive trimming.
func (k FilmKey) Valid() bool {
	return k.Title != "" && k.URL != ""
}

// ShowingKey is the identity of a showing: cinema, film and start time to the millisecond.
type ShowingKey struct {
	CinemaID    uint
	FilmID      uint
	StartMillis int64
}

// NewShowingKey builds the key for a showing starting at start.
func NewShowingKey(cinemaID, filmID uint, start time.Time) ShowingKey {
	return ShowingKey{CinemaID: cinemaID, FilmID: filmID, StartMillis: start.UnixMilli()}
}

// FilmIndex looks up persisted films of one cinema by key.
type FilmIndex struct {
	byKey map[FilmKey]*models.Film
}

// NewFilmIndex indexes films. If two stored rows share a key the first wins.
func NewFilmIndex(films []models.Film) *FilmIndex {
	idx := &FilmIndex{byKey: make(map[FilmKey]*models.Film, len(films))}
	for i := range films {
		idx.Add(&films[i])
	}
	return idx
}

// Add indexes a film unless its key is already present.
func (idx *FilmIndex) Add(f *models.Film) {
	key := NewFilmKey(f.Title, f.URL)
	if _, ok := idx.byKey[key]; !ok {
		idx.byKey[key] = f
	}
}

// MatchFilm returns the film a candidate with key refers to. Blank keys never match.
func (idx *FilmIndex) MatchFilm(key FilmKey) (*models.Film, bool) {
	if !key.Valid() {
		return nil, false
	}
	f, ok := idx.byKey[key]
	return f, ok
}

// ShowingIndex is the set of known showing keys of one cinema.
type ShowingIndex struct {
	ids map[ShowingKey]uint
}

// NewShowingIndex indexes showings.
func NewShowingIndex(showings []models.Showing) *ShowingIndex {
	idx := &ShowingIndex{ids: make(map[ShowingKey]uint, len(showings))}
	for _, s := range showings {
		idx.Add(NewShowingKey(s.CinemaID, s.FilmID, s.StartTime), s.ID)
	}
	return idx
}

// Add records key. A zero id marks a showing queued but not yet inserted.
func (idx *ShowingIndex) Add(key ShowingKey, id uint) {
	if _, ok := idx.ids[key]; !ok {
		idx.ids[key] = id
	}
}

// MatchShowing returns the id of the showing with exactly key. A zero id means the
// showing is queued in this batch.
func (idx *ShowingIndex) MatchShowing(key ShowingKey) (uint, bool) {
	id, ok := idx.ids[key]
	return id, ok
}
