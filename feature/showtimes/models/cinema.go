package models

import "time"

// Cinema is one venue. Name is its global identity.
type Cinema struct {
	ID              uint      `gorm:"column:id;primaryKey" json:"id"`
	Name            string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:uq_cinemas_name" json:"name"`
	Location        string    `gorm:"column:location;type:varchar(512);not null;default:''" json:"location"`
	Latitude        *float64  `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude       *float64  `gorm:"column:longitude" json:"longitude,omitempty"`
	DefaultLanguage string    `gorm:"column:default_language;type:varchar(16);not null;default:''" json:"default_language"`
	LastUpdated     time.Time `gorm:"column:last_updated;not null" json:"last_updated"`
}

func (Cinema) TableName() string {
	return "cinemas"
}
