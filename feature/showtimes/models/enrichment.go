package models

import (
	"time"

	"gorm.io/datatypes"
)

// FilmEnrichment holds third-party metadata for one Film. Only the enrichment step writes it.
type FilmEnrichment struct {
	ID         uint           `gorm:"column:id;primaryKey" json:"id"`
	FilmID     uint           `gorm:"column:film_id;not null;uniqueIndex:uq_film_enrichments_film" json:"film_id"`
	Source     string         `gorm:"column:source;type:varchar(32);not null;index:idx_film_enrichments_external,priority:1" json:"source"`
	ExternalID string         `gorm:"column:external_id;type:varchar(64);not null;index:idx_film_enrichments_external,priority:2" json:"external_id"`
	Rating     *float64       `gorm:"column:rating" json:"rating,omitempty"`
	Votes      *int           `gorm:"column:votes" json:"votes,omitempty"`
	Payload    datatypes.JSON `gorm:"column:payload" json:"payload,omitempty" swaggertype:"object"`
	UpdatedAt  time.Time      `gorm:"column:updated_at" json:"updated_at"`

	Film *Film `gorm:"foreignKey:FilmID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (FilmEnrichment) TableName() string {
	return "film_enrichments"
}

// All lists every persisted model in dependency order, for migrations and schema checks.
func All() []any {
	return []any{&Cinema{}, &Film{}, &Showing{}, &FilmEnrichment{}}
}
