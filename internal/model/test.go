package model

type TestType string

const (
	TestTypeChapter       TestType = "chapter"
	TestTypeComprehensive TestType = "comprehensive"
	TestTypeExam          TestType = "exam"
)

func ValidTestType(t string) bool {
	switch TestType(t) {
	case TestTypeChapter, TestTypeComprehensive, TestTypeExam:
		return true
	}
	return false
}

// swagger:model Test
type Test struct {
	BaseModel
	ChapterID  *uint    `gorm:"index" json:"chapterId,omitempty"`
	TestNumber int      `gorm:"not null" json:"testNumber"`
	Type       TestType `gorm:"type:enum('chapter','comprehensive','exam');default:'chapter'" json:"type"`
	Title      string   `gorm:"size:255;not null" json:"title"`
	SourceURL  string   `gorm:"size:512" json:"-"`
	IsFree     bool     `gorm:"default:false" json:"isFree"`
	IsPremium  bool     `gorm:"default:false" json:"isPremium"`
}

func (Test) TableName() string {
	return "tests"
}
