package models

import "time"

type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleFaculty UserRole = "faculty"
	RoleAdmin   UserRole = "admin"
)

// Profile — анкетные данные студента, печатаются в заявке.
type Profile struct {
	FullName string `firestore:"fullName,omitempty" json:"fullName,omitempty"`
	Mobile   string `gorm:"size:20" firestore:"mobile,omitempty" json:"mobile,omitempty"`
	PRN      string `gorm:"size:30" firestore:"prn,omitempty" json:"prn,omitempty"`
	Year     string `gorm:"size:20" firestore:"year,omitempty" json:"year,omitempty"`
	Section  string `gorm:"size:10" firestore:"section,omitempty" json:"section,omitempty"`
	Address  string `gorm:"type:text" firestore:"address,omitempty" json:"address,omitempty"`
}

// User — ролевой документ, зеркало учётки из провайдера идентификации.
type User struct {
	UID          string    `gorm:"primaryKey;size:128" firestore:"uid" json:"uid"`
	Email        string    `gorm:"index;size:255;not null" firestore:"email" json:"email"`
	DisplayName  string    `gorm:"size:255" firestore:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL     string    `gorm:"size:512" firestore:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:user" firestore:"role" json:"role"`
	PasswordHash string    `gorm:"size:255" firestore:"passwordHash,omitempty" json:"-"`
	Profile      Profile   `gorm:"embedded;embeddedPrefix:profile_" firestore:"profile" json:"profile"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// CanReview — кто может одобрять/отклонять заявки.
func (r UserRole) CanReview() bool {
	return r == RoleAdmin || r == RoleFaculty
}
