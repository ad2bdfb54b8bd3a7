package models

import "time"

// Film is a title as listed by one cinema. The same real film at two cinemas is two rows.
type Film struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	CinemaID    uint      `gorm:"column:cinema_id;not null;uniqueIndex:uq_films_identity,priority:1" json:"cinema_id"`
	Title       string    `gorm:"column:title;type:varchar(255);not null;uniqueIndex:uq_films_identity,priority:2" json:"title"`
	URL         string    `gorm:"column:url;type:varchar(500);not null;uniqueIndex:uq_films_identity,priority:3" json:"url"`
	Director    *string   `gorm:"column:director;type:varchar(255)" json:"director,omitempty"`
	Duration    *int      `gorm:"column:duration" json:"duration,omitempty"` // minutes
	Language    *string   `gorm:"column:language;type:varchar(64)" json:"language,omitempty"`
	ReleaseYear *int      `gorm:"column:release_year" json:"release_year,omitempty"`
	Country     *string   `gorm:"column:country;type:varchar(128)" json:"country,omitempty"`
	CoverURL    *string   `gorm:"column:cover_url;type:varchar(1024)" json:"cover_url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`

	Cinema *Cinema `gorm:"foreignKey:CinemaID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Film) TableName() string {
	return "films"
}
