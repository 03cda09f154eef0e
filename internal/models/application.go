package models

import "time"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

type TeamMember struct {
	Name   string `firestore:"name" json:"name"`
	Email  string `firestore:"email" json:"email"`
	Mobile string `firestore:"mobile,omitempty" json:"mobile,omitempty"`
	PRN    string `firestore:"prn,omitempty" json:"prn,omitempty"`
}

type Application struct {
	ID                string            `gorm:"primaryKey;size:36" firestore:"-" json:"id"`
	ApplicationNumber string            `gorm:"uniqueIndex;size:40;not null" firestore:"applicationNumber" json:"applicationNumber"`
	EventID           string            `gorm:"index;uniqueIndex:idx_user_event,priority:2;size:36;not null" firestore:"eventId" json:"eventId"`
	UserID            string            `gorm:"uniqueIndex:idx_user_event,priority:1;size:128;not null" firestore:"userId" json:"userId"`
	Status            ApplicationStatus `gorm:"type:varchar(20);not null" firestore:"status" json:"status"`
	Fee               int               `firestore:"fee" json:"fee"`
	TransactionID     string            `gorm:"size:100" firestore:"transactionId" json:"transactionId"`
	TeamMembers       []TeamMember      `gorm:"serializer:json" firestore:"teamMembers" json:"teamMembers"`

	ApproverName string     `gorm:"size:255" firestore:"approverName,omitempty" json:"approverName,omitempty"`
	ApproverRole string     `gorm:"size:50" firestore:"approverRole,omitempty" json:"approverRole,omitempty"`
	AppliedAt    time.Time  `gorm:"index" firestore:"appliedAt" json:"appliedAt"`
	ProcessedAt  *time.Time `firestore:"processedAt,omitempty" json:"processedAt,omitempty"`
}

// Decision — результат рассмотрения заявки.
type Decision struct {
	Status       ApplicationStatus
	ApproverName string
	ApproverRole string
	ProcessedAt  time.Time
}
