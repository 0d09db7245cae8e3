package models

import "time"

type Title struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:200;not null"`
	Year        int    `json:"year" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	// Deleting a category detaches it from its titles instead of
	// cascading into them.
	CategoryID *int64    `json:"category_id,omitempty" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Genres     []Genre   `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Title) TableName() string {
	return "titles"
}
