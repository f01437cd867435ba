package repository

import (
	"time"

	"visaprep_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.TestAttempt) error {
	return r.DB.Create(attempt).Error
}

// FindByIDAndUser deliberately scopes by owner; a foreign attempt id behaves
// exactly like a missing one.
func (r *AttemptRepository) FindByIDAndUser(id, userID uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// CountStartedOn counts attempts of a user on a test whose started_at falls on
// the given local calendar date, completed or not.
func (r *AttemptRepository) CountStartedOn(userID, testID uint, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	err := r.DB.Model(&model.TestAttempt{}).
		Where("user_id = ? AND test_id = ? AND started_at >= ? AND started_at < ?", userID, testID, start, end).
		Count(&count).Error
	return count, err
}

// AttemptCompletion carries the scoring fields written at completion time.
type AttemptCompletion struct {
	Score          int
	TotalQuestions int
	Percentage     float64
	TimeTaken      *int
	IsPassed       bool
	CompletedAt    time.Time
}

// CompleteWithAnswers performs the Pending->Completed transition and persists
// the per-question answers in one transaction. The attempt update is
// conditional on completed_at still being NULL; when another submission got
// there first, nothing is written and (false, nil) is returned.
func (r *AttemptRepository) CompleteWithAnswers(attemptID uint, answers []model.UserAnswer, result AttemptCompletion) (bool, error) {
	completed := false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TestAttempt{}).
			Where("id = ? AND completed_at IS NULL", attemptID).
			Updates(map[string]interface{}{
				"score":           result.Score,
				"total_questions": result.TotalQuestions,
				"percentage":      result.Percentage,
				"time_taken":      result.TimeTaken,
				"is_passed":       result.IsPassed,
				"completed_at":    result.CompletedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}

		completed = true
		return nil
	})

	return completed, err
}

func (r *AttemptRepository) AnswersByAttempt(attemptID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.DB.Where("attempt_id = ?", attemptID).Order("question_id").Find(&answers).Error
	return answers, err
}

// HistoryRow is one completed attempt joined with its test and chapter.
type HistoryRow struct {
	ID             uint           `json:"id"`
	TestID         uint           `json:"testId"`
	Title          string         `json:"title"`
	TestNumber     int            `json:"testNumber"`
	TestType       model.TestType `json:"testType"`
	ChapterName    string         `json:"chapterName,omitempty"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     float64        `json:"percentage"`
	TimeTaken      *int           `json:"timeTaken,omitempty"`
	IsPassed       bool           `json:"isPassed"`
	StartedAt      time.Time      `json:"startedAt"`
	CompletedAt    time.Time      `json:"completedAt"`
}

func (r *AttemptRepository) ListCompleted(userID uint, limit, offset int) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := r.DB.Table("user_test_attempts uta").
		Select("uta.id, uta.test_id, t.title, t.test_number, t.type AS test_type, c.name AS chapter_name, "+
			"uta.score, uta.total_questions, uta.percentage, uta.time_taken, uta.is_passed, uta.started_at, uta.completed_at").
		Joins("JOIN tests t ON uta.test_id = t.id").
		Joins("LEFT JOIN chapters c ON t.chapter_id = c.id").
		Where("uta.user_id = ? AND uta.completed_at IS NOT NULL AND uta.deleted_at IS NULL", userID).
		Order("uta.completed_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *AttemptRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAttempt{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&count).Error
	return count, err
}

// LeaderboardRow is a ranking entry over completed attempts.
type LeaderboardRow struct {
	DisplayName string    `json:"displayName"`
	Percentage  float64   `json:"percentage"`
	TimeTaken   *int      `json:"timeTaken,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
	TestTitle   string    `json:"testTitle"`
}

func (r *AttemptRepository) Leaderboard(testID *uint, limit int) ([]LeaderboardRow, error) {
	q := r.DB.Table("user_test_attempts uta").
		Select("u.full_name AS display_name, uta.percentage, uta.time_taken, uta.completed_at, t.title AS test_title").
		Joins("JOIN users u ON uta.user_id = u.id").
		Joins("JOIN tests t ON uta.test_id = t.id").
		Where("uta.completed_at IS NOT NULL AND uta.deleted_at IS NULL")

	if testID != nil {
		q = q.Where("uta.test_id = ?", *testID)
	}

	var rows []LeaderboardRow
	err := q.Order("uta.percentage DESC, uta.time_taken ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
