package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Bio       string `gorm:"type:text" json:"bio"`
	Role      Role   `gorm:"size:10;default:'user';not null" json:"role"`

	// ConfirmationHash is the bcrypt hash of the last issued
	// confirmation code. Regenerated on every registration attempt and
	// on every record mutation, which is what invalidates old codes.
	ConfirmationHash string `gorm:"size:255" json:"-"`
	Confirmed        bool   `gorm:"default:false;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

func (User) TableName() string {
	return "users"
}
