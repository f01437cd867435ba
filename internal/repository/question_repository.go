package repository

import (
	"visaprep_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.DB.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) ListByTest(testID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("test_id = ?", testID).Order("id").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) AnswersByQuestion(questionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("question_id = ?", questionID).Order("id").Find(&answers).Error
	return answers, err
}

// CorrectAnswerIDs returns the answer identifiers flagged correct for a
// question. The scoring engine compares this set against the submitted one.
func (r *QuestionRepository) CorrectAnswerIDs(questionID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Answer{}).
		Where("question_id = ? AND is_correct = ?", questionID, true).
		Order("answer_id").
		Pluck("answer_id", &ids).Error
	return ids, err
}
