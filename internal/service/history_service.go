package service

import (
	"errors"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/repository"
	"visaprep_backend/internal/util"

	"gorm.io/gorm"
)

type HistoryAttemptStore interface {
	ListCompleted(userID uint, limit, offset int) ([]repository.HistoryRow, error)
	CountCompleted(userID uint) (int64, error)
	FindByIDAndUser(id, userID uint) (*model.TestAttempt, error)
	AnswersByAttempt(attemptID uint) ([]model.UserAnswer, error)
}

type HistoryQuestionStore interface {
	FindByID(id uint) (*model.Question, error)
	AnswersByQuestion(questionID uint) ([]model.Answer, error)
}

// HistoryService reads a user's own attempts: a paginated list of completed
// ones and a per-question breakdown of a single attempt.
type HistoryService struct {
	Attempts  HistoryAttemptStore
	Questions HistoryQuestionStore
	Tests     TestStore
}

func NewHistoryService(attempts HistoryAttemptStore, questions HistoryQuestionStore, tests TestStore) *HistoryService {
	return &HistoryService{Attempts: attempts, Questions: questions, Tests: tests}
}

func (s *HistoryService) ListCompleted(userID uint, page, limit int) ([]repository.HistoryRow, int64, error) {
	offset := (page - 1) * limit
	rows, err := s.Attempts.ListCompleted(userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []repository.HistoryRow{}
	}

	total, err := s.Attempts.CountCompleted(userID)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// AnswerBreakdown describes one option of a reviewed question: what it said,
// whether it was the right choice, and whether this user picked it.
type AnswerBreakdown struct {
	AnswerID    string `json:"answerId"`
	AnswerText  string `json:"answerText"`
	IsCorrect   bool   `json:"isCorrect"`
	WasSelected bool   `json:"wasSelected"`
}

type QuestionBreakdown struct {
	QuestionID        uint              `json:"questionId"`
	QuestionText      string            `json:"questionText"`
	QuestionType      string            `json:"questionType"`
	Explanation       string            `json:"explanation,omitempty"`
	SelectedAnswerIDs []string          `json:"selectedAnswerIds"`
	IsCorrect         bool              `json:"isCorrect"`
	Answers           []AnswerBreakdown `json:"answers"`
}

type AttemptDetail struct {
	Attempt    model.TestAttempt   `json:"attempt"`
	TestTitle  string              `json:"testTitle"`
	TestNumber int                 `json:"testNumber"`
	Questions  []QuestionBreakdown `json:"questions"`
}

// Detail reconstructs the review view of one attempt by joining the stored
// user answers against the answer catalog. A missing attempt and someone
// else's attempt are indistinguishable to the caller.
func (s *HistoryService) Detail(attemptID, userID uint) (*AttemptDetail, error) {
	attempt, err := s.Attempts.FindByIDAndUser(attemptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	test, err := s.Tests.FindByID(attempt.TestID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	userAnswers, err := s.Attempts.AnswersByAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	questions := make([]QuestionBreakdown, 0, len(userAnswers))
	for _, ua := range userAnswers {
		question, err := s.Questions.FindByID(ua.QuestionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		options, err := s.Questions.AnswersByQuestion(ua.QuestionID)
		if err != nil {
			return nil, err
		}

		selected := ua.Selected()
		selectedSet := toSet(selected)

		breakdown := QuestionBreakdown{
			QuestionID:        ua.QuestionID,
			QuestionText:      question.QuestionText,
			QuestionType:      question.QuestionType,
			Explanation:       question.Explanation,
			SelectedAnswerIDs: selected,
			IsCorrect:         ua.IsCorrect,
			Answers:           make([]AnswerBreakdown, 0, len(options)),
		}
		for _, opt := range options {
			breakdown.Answers = append(breakdown.Answers, AnswerBreakdown{
				AnswerID:    opt.AnswerID,
				AnswerText:  opt.AnswerText,
				IsCorrect:   opt.IsCorrect,
				WasSelected: selectedSet[opt.AnswerID],
			})
		}
		questions = append(questions, breakdown)
	}

	detail := &AttemptDetail{
		Attempt:   *attempt,
		Questions: questions,
	}
	if test != nil {
		detail.TestTitle = test.Title
		detail.TestNumber = test.TestNumber
	}
	return detail, nil
}
