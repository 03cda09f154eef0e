package models

type Staff struct {
	ID            string `gorm:"primaryKey;size:36" firestore:"-" json:"id"`
	Name          string `gorm:"size:255;not null" firestore:"name" json:"name"`
	Designation   string `gorm:"size:100" firestore:"designation" json:"designation"`
	Qualification string `gorm:"size:255" firestore:"qualification" json:"qualification"`
	JoiningDate   string `gorm:"size:20" firestore:"joiningDate" json:"joiningDate"` // "04-Apr-15"
	Role          string `gorm:"size:50" firestore:"role" json:"role"`
}

func (Staff) TableName() string { return "staff" }
