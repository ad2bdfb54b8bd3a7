package models

// CinemaGroup is one cinema's section of a producer batch.
type CinemaGroup struct {
	Cinema   CinemaDescriptor `json:"cinema"`
	Showings []FilmGroup      `json:"showings" validate:"dive"`
}

// CinemaDescriptor identifies the cinema a group belongs to.
type CinemaDescriptor struct {
	Name            string       `json:"name" validate:"required,notblank,max=255"`
	Location        string       `json:"location" validate:"max=512"`
	Coordinates     *Coordinates `json:"coordinates,omitempty" validate:"omitempty"`
	DefaultLanguage string       `json:"defaultLanguage" validate:"required,langcode"`
}

// Coordinates is an optional geo position of a cinema.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// FilmGroup is a film and the showings a producer listed for it.
type FilmGroup struct {
	Film     FilmCandidate      `json:"film"`
	Showings []ShowingCandidate `json:"showings" validate:"dive"`
}

// FilmCandidate is an incoming film record.
type FilmCandidate struct {
	Title    string  `json:"title" validate:"required,notblank,max=255"`
	URL      string  `json:"url" validate:"required,notblank,max=500"`
	Director *string `json:"director,omitempty" validate:"omitempty,max=255"`
	Duration *int    `json:"duration,omitempty" validate:"omitempty,gt=0,lt=1440"`
	Language *string `json:"language,omitempty" validate:"omitempty,max=64"`
	Year     *int    `json:"year,omitempty" validate:"omitempty,gte=1870,lte=2200"`
	Country  *string `json:"country,omitempty" validate:"omitempty,max=128"`
	CoverURL *string `json:"coverUrl,omitempty" validate:"omitempty,max=1024"`
}

// ShowingCandidate is an incoming showing record. Times stay raw strings until reconciliation.
type ShowingCandidate struct {
	StartTime  string  `json:"startTime" validate:"required"`
	EndTime    *string `json:"endTime,omitempty"`
	BookingURL *string `json:"bookingUrl,omitempty" validate:"omitempty,max=1024"`
	Theatre    *string `json:"theatre,omitempty" validate:"omitempty,max=128"`
}
