package model

// swagger:model Chapter
type Chapter struct {
	BaseModel
	ChapterNumber int    `gorm:"not null" json:"chapterNumber"`
	Name          string `gorm:"size:255;not null" json:"name"`
	Description   string `gorm:"type:text" json:"description"`
}

func (Chapter) TableName() string {
	return "chapters"
}
