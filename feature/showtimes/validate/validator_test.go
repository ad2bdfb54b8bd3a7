package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const luxBatch = `[
  {
    "cinema": {"name": "Lux", "location": "Kastanienallee 1", "coordinates": {"lat": 52.54, "lng": 13.41}, "defaultLanguage": "de"},
    "showings": [
      {
        "film": {"title": "Nosferatu", "url": "/n", "director": "F. W. Murnau", "duration": 94, "year": 1922},
        "showings": [{"startTime": "2025-01-01T20:00:00Z", "bookingUrl": "/book/1", "theatre": "Saal 1"}]
      }
    ]
  }
]`

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	fields := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		fields[f.Path] = f.Rule
	}
	return fields
}

func TestBatch_Valid(t *testing.T) {
	groups, err := Batch([]byte(luxBatch))
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Lux", g.Cinema.Name)
	require.NotNil(t, g.Cinema.Coordinates)
	assert.Equal(t, 13.41, g.Cinema.Coordinates.Lng)
	require.Len(t, g.Showings, 1)
	assert.Equal(t, "Nosferatu", g.Showings[0].Film.Title)
	assert.Equal(t, 94, *g.Showings[0].Film.Duration)
	assert.Equal(t, "2025-01-01T20:00:00Z", g.Showings[0].Showings[0].StartTime)
}

func TestBatch_EmptyGroupsAreValid(t *testing.T) {
	groups, err := Batch([]byte(`[{"cinema": {"name": "Lux", "location": "", "defaultLanguage": "de"}, "showings": []}]`))
	require.NoError(t, err)
	assert.Empty(t, groups[0].Showings)

	groups, err = Batch([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestBatch_EnumeratesEveryFailingField(t *testing.T) {
	raw := `[
	  {
	    "cinema": {"name": "", "location": "x", "defaultLanguage": "German"},
	    "showings": [
	      {"film": {"title": "", "url": "/a", "duration": -5}, "showings": [{"startTime": ""}]},
	      {"film": {"title": "Metropolis", "url": "/m", "year": 1500}, "showings": []}
	    ]
	  },
	  {
	    "cinema": {"name": "Rex", "location": "y", "defaultLanguage": "en-GB", "coordinates": {"lat": 120, "lng": 0}},
	    "showings": []
	  }
	]`

	_, err := Batch([]byte(raw))
	fields := validationFields(t, err)

	assert.Equal(t, map[string]string{
		"[0].cinema.name":                       "required",
		"[0].cinema.defaultLanguage":            "langcode",
		"[0].showings[0].film.title":            "required",
		"[0].showings[0].film.duration":         "gt",
		"[0].showings[0].showings[0].startTime": "required",
		"[0].showings[1].film.year":             "gte",
		"[1].cinema.coordinates.lat":            "lte",
	}, fields)
}

func TestBatch_BlankCinemaName(t *testing.T) {
	_, err := Batch([]byte(`[{"cinema": {"name": "   ", "location": "", "defaultLanguage": "de"}, "showings": []}]`))
	assert.Equal(t, map[string]string{"[0].cinema.name": "notblank"}, validationFields(t, err))
}

func TestBatch_BlankFilmKey(t *testing.T) {
	raw := `[{"cinema": {"name": "Lux", "location": "", "defaultLanguage": "de"},
	  "showings": [{"film": {"title": "   ", "url": "\t"}, "showings": [{"startTime": "2025-01-01T20:00:00Z"}]}]}]`
	groups, err := Batch([]byte(raw))
	assert.Nil(t, groups)
	assert.Equal(t, map[string]string{
		"[0].showings[0].film.title": "notblank",
		"[0].showings[0].film.url":   "notblank",
	}, validationFields(t, err))
}

func TestBatch_EveryTypeErrorKeepsItsIndex(t *testing.T) {
	raw := `[
	  {"cinema": {"name": "Lux", "location": "", "defaultLanguage": "de"}, "showings": []},
	  {"cinema": {"name": "Rex", "location": "", "coordinates": {"lat": "north", "lng": 7.1}, "defaultLanguage": "de"},
	   "showings": [
	     {"film": {"title": "Nosferatu", "url": "/n"}, "showings": []},
	     {"film": {"title": "Metropolis", "url": "/m", "duration": "long", "year": "old"},
	      "showings": [{"startTime": "2025-01-01T20:00:00Z"}, {"startTime": 1735761600}]}
	   ]}
	]`
	groups, err := Batch([]byte(raw))
	assert.Nil(t, groups)
	assert.Equal(t, map[string]string{
		"[1].cinema.coordinates.lat":            "type",
		"[1].showings[1].film.duration":         "type",
		"[1].showings[1].film.year":             "type",
		"[1].showings[1].showings[1].startTime": "type",
	}, validationFields(t, err))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	for _, f := range verr.Fields {
		if f.Path == "[1].showings[1].film.year" {
			assert.Equal(t, "expected int, got string", f.Message)
		}
	}
}

func TestBatch_DuplicateCinema(t *testing.T) {
	raw := `[
	  {"cinema": {"name": "Lux", "location": "", "defaultLanguage": "de"}, "showings": []},
	  {"cinema": {"name": " Lux ", "location": "", "defaultLanguage": "de"}, "showings": []}
	]`
	_, err := Batch([]byte(raw))
	assert.Equal(t, map[string]string{"[1].cinema.name": "unique"}, validationFields(t, err))
}

func TestBatch_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
		rule string
	}{
		{"Empty Body", "  ", "$", "json"},
		{"Object Instead Of Array", `{"cinema": {}}`, "$", "type"},
		{"Malformed JSON", `[{"cinema": `, "$", "json"},
		{"Wrong Field Type", `[{"cinema": {"name": "Lux", "location": "", "defaultLanguage": "de"}, "showings": [{"film": {"title": "N", "url": "/n", "duration": "94 min"}, "showings": []}]}]`, "[0].showings[0].film.duration", "type"},
		{"Group Not An Object", `[{"cinema": {"name": "Lux", "location": "", "defaultLanguage": "de"}, "showings": []}, 7]`, "[1]", "type"},
		{"Showings Not An Array", `[{"cinema": {"name": "Lux", "location": "", "defaultLanguage": "de"}, "showings": "soon"}]`, "[0].showings", "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := Batch([]byte(tt.raw))
			assert.Nil(t, groups)
			fields := validationFields(t, err)
			assert.Equal(t, tt.rule, fields[tt.path], "fields: %v", fields)
		})
	}
}

func TestBatch_UnparseableTimestampIsNotASchemaError(t *testing.T) {
	// Timestamp parsing is per-record; the reconciliation engine drops the showing.
	raw := `[{"cinema": {"name": "Lux", "location": "", "defaultLanguage": "de"},
	  "showings": [{"film": {"title": "Nosferatu", "url": "/n"}, "showings": [{"startTime": "not-a-date"}]}]}]`
	groups, err := Batch([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "not-a-date", groups[0].Showings[0].Showings[0].StartTime)
}

func TestValidationError_Error(t *testing.T) {
	verr := &ValidationError{}
	assert.Equal(t, "batch failed validation", verr.Error())

	verr.add("[0].cinema.name", "required", "is required")
	assert.Equal(t, "batch failed validation with 1 field error(s): [0].cinema.name: is required", verr.Error())
	assert.Equal(t, []string{"[0].cinema.name"}, verr.Paths())
}
