// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the authenticated actor. Every entity row in the store is scoped
// to exactly one user; there is no sharing between accounts.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// Actor is the identity slice of a User the data-access layer cares about.
type Actor struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Actor extracts the identity of the user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Email: u.Email}
}
