package models

import "time"

// ActivityLog — запись журнала действий (коллекция "logs").
type ActivityLog struct {
	ID        string    `gorm:"primaryKey;size:36" firestore:"-" json:"id"`
	Action    string    `gorm:"size:100;not null" firestore:"action" json:"action"`
	Details   string    `gorm:"type:text" firestore:"details" json:"details"`
	UserEmail string    `gorm:"size:255" firestore:"userEmail" json:"userEmail"`
	UserName  string    `gorm:"size:255" firestore:"userName" json:"userName"`
	Timestamp time.Time `gorm:"index" firestore:"timestamp,serverTimestamp" json:"timestamp"`
}

func (ActivityLog) TableName() string { return "logs" }
