package model

// Answer is one selectable option of a question. AnswerID is the stable
// identifier submitted in attempts and stored in UserAnswer sets; it is
// unique within its question, not globally.
type Answer struct {
	BaseModel
	QuestionID   uint   `gorm:"index;not null" json:"questionId"`
	AnswerID     string `gorm:"column:answer_id;size:32;not null" json:"answerId"`
	AnswerText   string `gorm:"type:text;not null" json:"answerText"`
	AnswerTextVi string `gorm:"type:text" json:"answerTextVi,omitempty"`
	IsCorrect    bool   `gorm:"default:false" json:"-"`
}

func (Answer) TableName() string {
	return "answers"
}
