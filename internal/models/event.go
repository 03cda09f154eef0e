package models

import "time"

type Event struct {
	ID          string    `gorm:"primaryKey;size:36" firestore:"-" json:"id"`
	Title       string    `gorm:"size:255;not null" firestore:"title" json:"title"`
	Date        string    `gorm:"size:50" firestore:"date" json:"date"` // как ввели, печатается как есть
	Venue       string    `gorm:"size:255" firestore:"venue" json:"venue"`
	Description string    `gorm:"type:text" firestore:"description" json:"description"`
	Fee         int       `firestore:"fee" json:"fee"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}
