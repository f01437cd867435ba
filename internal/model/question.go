package model

// swagger:model Question
type Question struct {
	BaseModel
	TestID         uint   `gorm:"index;not null" json:"testId"`
	QuestionType   string `gorm:"size:20;default:'single_choice'" json:"questionType"`
	QuestionText   string `gorm:"type:text;not null" json:"questionText"`
	QuestionTextVi string `gorm:"type:text" json:"questionTextVi,omitempty"`
	Explanation    string `gorm:"type:text" json:"explanation,omitempty"`
	ExplanationVi  string `gorm:"type:text" json:"explanationVi,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
