package model

import "time"

// TestAttempt is a single run of a test by a user. CompletedAt is null while
// the attempt is pending; the scoring fields are only meaningful once it is
// set, and both are written together in one conditional update.
type TestAttempt struct {
	BaseModel
	UserID         uint       `gorm:"index;not null" json:"userId"`
	TestID         uint       `gorm:"index;not null" json:"testId"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Percentage     float64    `gorm:"type:decimal(5,2)" json:"percentage"`
	TimeTaken      *int       `json:"timeTaken,omitempty"`
	IsPassed       bool       `gorm:"default:false" json:"isPassed"`
	StartedAt      time.Time  `gorm:"index" json:"startedAt"`
	CompletedAt    *time.Time `gorm:"index" json:"completedAt,omitempty"`
}

func (TestAttempt) TableName() string {
	return "user_test_attempts"
}

func (a *TestAttempt) Completed() bool {
	return a.CompletedAt != nil
}
