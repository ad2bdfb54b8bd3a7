package models

import "time"

// Showing is one screening of a Film. It is inserted once and never updated.
type Showing struct {
	ID         uint       `gorm:"column:id;primaryKey" json:"id"`
	CinemaID   uint       `gorm:"column:cinema_id;not null;uniqueIndex:uq_showings_identity,priority:1" json:"cinema_id"`
	FilmID     uint       `gorm:"column:film_id;not null;uniqueIndex:uq_showings_identity,priority:2;index" json:"film_id"`
	StartTime  time.Time  `gorm:"column:start_time;not null;precision:3;uniqueIndex:uq_showings_identity,priority:3" json:"start_time"`
	EndTime    *time.Time `gorm:"column:end_time;precision:3" json:"end_time,omitempty"`
	BookingURL *string    `gorm:"column:booking_url;type:varchar(1024)" json:"booking_url,omitempty"`
	Theatre    *string    `gorm:"column:theatre;type:varchar(128)" json:"theatre,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`

	Cinema *Cinema `gorm:"foreignKey:CinemaID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Film   *Film   `gorm:"foreignKey:FilmID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Showing) TableName() string {
	return "showings"
}
