package repository

import (
	"visaprep_backend/internal/model"

	"gorm.io/gorm"
)

type ChapterRepository struct {
	DB *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{DB: db}
}

func (r *ChapterRepository) FindByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := r.DB.First(&chapter, id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

// ChapterStatsRow is a chapter plus its test counts for the catalog view.
type ChapterStatsRow struct {
	ID            uint   `json:"id"`
	ChapterNumber int    `json:"chapterNumber"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	TotalTests    int64  `json:"totalTests"`
	FreeTests     int64  `json:"freeTests"`
	PremiumTests  int64  `json:"premiumTests"`
}

func (r *ChapterRepository) ListWithStats() ([]ChapterStatsRow, error) {
	var rows []ChapterStatsRow
	err := r.DB.Table("chapters c").
		Select("c.id, c.chapter_number, c.name, c.description, " +
			"COUNT(t.id) AS total_tests, " +
			"COUNT(CASE WHEN t.is_free = 1 THEN 1 END) AS free_tests, " +
			"COUNT(CASE WHEN t.is_premium = 1 THEN 1 END) AS premium_tests").
		Joins("LEFT JOIN tests t ON c.id = t.chapter_id AND t.deleted_at IS NULL").
		Where("c.deleted_at IS NULL").
		Group("c.id").
		Order("c.chapter_number").
		Scan(&rows).Error
	return rows, err
}
