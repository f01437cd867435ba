package repository

import (
	"visaprep_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	if err := r.DB.First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// AvailableTestRow is one catalog entry enriched with the requesting user's
// completed-attempt figures.
type AvailableTestRow struct {
	ID           uint           `json:"id"`
	ChapterID    *uint          `json:"chapterId,omitempty"`
	ChapterName  string         `json:"chapterName,omitempty"`
	TestNumber   int            `json:"testNumber"`
	Type         model.TestType `json:"type"`
	Title        string         `json:"title"`
	IsFree       bool           `json:"isFree"`
	IsPremium    bool           `json:"isPremium"`
	AttemptCount int64          `json:"attemptCount"`
	BestScore    *float64       `json:"bestScore,omitempty"`
}

func (r *TestRepository) ListAvailable(userID uint) ([]AvailableTestRow, error) {
	var rows []AvailableTestRow
	err := r.DB.Table("tests t").
		Select("t.id, t.chapter_id, c.name AS chapter_name, t.test_number, t.type, t.title, t.is_free, t.is_premium, "+
			"COUNT(uta.id) AS attempt_count, MAX(uta.percentage) AS best_score").
		Joins("LEFT JOIN chapters c ON t.chapter_id = c.id").
		Joins("LEFT JOIN user_test_attempts uta ON t.id = uta.test_id AND uta.user_id = ? AND uta.completed_at IS NOT NULL AND uta.deleted_at IS NULL", userID).
		Where("t.deleted_at IS NULL").
		Group("t.id, t.chapter_id, c.name, t.test_number, t.type, t.title, t.is_free, t.is_premium").
		Order("t.type, t.chapter_id, t.test_number").
		Scan(&rows).Error
	return rows, err
}

func (r *TestRepository) ListByType(testType model.TestType) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Where("type = ?", testType).Order("test_number").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) ListByChapter(chapterID uint) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Where("chapter_id = ?", chapterID).Order("test_number").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) ListFree() ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Where("is_free = ?", true).Order("test_number").Find(&tests).Error
	return tests, err
}

// Search matches the title and chapter name, and when includeTranslations is
// set also the Vietnamese question and answer text of the test's questions.
func (r *TestRepository) Search(query string, testType model.TestType, chapterID *uint, includeTranslations bool) ([]model.Test, error) {
	pattern := "%" + query + "%"

	q := r.DB.Table("tests t").
		Select("DISTINCT t.*").
		Joins("LEFT JOIN chapters c ON t.chapter_id = c.id").
		Where("t.deleted_at IS NULL")

	if includeTranslations {
		q = q.Where("t.title LIKE ? OR c.name LIKE ? "+
			"OR EXISTS (SELECT 1 FROM questions q WHERE q.test_id = t.id AND (q.question_text LIKE ? OR q.question_text_vi LIKE ?)) "+
			"OR EXISTS (SELECT 1 FROM questions q2 JOIN answers a ON a.question_id = q2.id WHERE q2.test_id = t.id AND (a.answer_text LIKE ? OR a.answer_text_vi LIKE ?))",
			pattern, pattern, pattern, pattern, pattern, pattern)
	} else {
		q = q.Where("t.title LIKE ? OR c.name LIKE ?", pattern, pattern)
	}

	if testType != "" {
		q = q.Where("t.type = ?", testType)
	}
	if chapterID != nil {
		q = q.Where("t.chapter_id = ?", *chapterID)
	}

	var tests []model.Test
	err := q.Order("t.test_number").Scan(&tests).Error
	return tests, err
}
