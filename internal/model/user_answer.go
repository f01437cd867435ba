package model

import "encoding/json"

// UserAnswer records what a user selected for one question of a completed
// attempt. SelectedAnswerIDs is a JSON array of Answer.AnswerID values.
type UserAnswer struct {
	BaseModel
	AttemptID         uint   `gorm:"index;not null" json:"attemptId"`
	QuestionID        uint   `gorm:"index;not null" json:"questionId"`
	SelectedAnswerIDs string `gorm:"type:json" json:"-"`
	IsCorrect         bool   `gorm:"default:false" json:"isCorrect"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

func (ua *UserAnswer) SetSelected(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	ua.SelectedAnswerIDs = string(raw)
	return nil
}

func (ua *UserAnswer) Selected() []string {
	var ids []string
	if ua.SelectedAnswerIDs == "" {
		return ids
	}
	_ = json.Unmarshal([]byte(ua.SelectedAnswerIDs), &ids)
	return ids
}
