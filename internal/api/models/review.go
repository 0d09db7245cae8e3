package models

import "time"

type Review struct {
	ID int64 `json:"id" gorm:"primaryKey;autoIncrement"`

	// (TitleID, AuthorID) carries the one-review-per-author-per-title
	// invariant as a database constraint; concurrent duplicate inserts
	// are settled by the index, not by the application pre-check.
	TitleID  int64  `json:"title_id" gorm:"not null;uniqueIndex:uniq_review_title_author"`
	AuthorID string `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:uniq_review_title_author"`

	Text      string    `json:"text" gorm:"not null;type:text"`
	Score     int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	CreatedAt time.Time `json:"pub_date" gorm:"autoCreateTime"`

	// Associations
	Title  Title `json:"title,omitempty" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
