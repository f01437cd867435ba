package service

import (
	"errors"
	"strconv"
	"time"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/repository"
	"visaprep_backend/internal/util"
	"visaprep_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type TestStore interface {
	FindByID(id uint) (*model.Test, error)
}

type ScoringStore interface {
	CorrectAnswerIDs(questionID uint) ([]string, error)
}

type AttemptStore interface {
	Create(attempt *model.TestAttempt) error
	FindByIDAndUser(id, userID uint) (*model.TestAttempt, error)
	CompleteWithAnswers(attemptID uint, answers []model.UserAnswer, result repository.AttemptCompletion) (bool, error)
}

// AttemptService owns the attempt state machine: Start creates a pending
// attempt behind the access gate, Submit scores it exactly once.
type AttemptService struct {
	Access    *AccessService
	Tests     TestStore
	Questions ScoringStore
	Attempts  AttemptStore
}

func NewAttemptService(access *AccessService, tests TestStore, questions ScoringStore, attempts AttemptStore) *AttemptService {
	return &AttemptService{Access: access, Tests: tests, Questions: questions, Attempts: attempts}
}

type AnswerSubmission struct {
	QuestionID        uint     `json:"question_id" binding:"required"`
	SelectedAnswerIDs []string `json:"selected_answer_ids"`
}

// ScoreResult is the snapshot returned from a successful submission.
type ScoreResult struct {
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	IsPassed       bool      `json:"is_passed"`
	TimeTaken      *int      `json:"time_taken,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Start creates a pending attempt after the access gate passes. Starting a
// free test consumes one unit of free-tier quota on every start.
func (s *AttemptService) Start(userID, testID uint, now time.Time) (*model.TestAttempt, *model.Test, error) {
	user, err := s.Access.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, err
	}

	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrTestNotFound
		}
		return nil, nil, err
	}

	if err := s.Access.CheckCanStart(user, test, now); err != nil {
		return nil, nil, err
	}

	attempt := &model.TestAttempt{
		UserID:    userID,
		TestID:    testID,
		StartedAt: now,
	}
	if err := s.Attempts.Create(attempt); err != nil {
		return nil, nil, err
	}

	if test.IsFree {
		if err := s.Access.ConsumeFreeTest(userID); err != nil {
			return nil, nil, err
		}
	}

	monitoring.AttemptsStarted.Inc()
	return attempt, test, nil
}

// Retake starts another attempt on a test the user has taken before, subject
// to the daily limit for non-premium users. It does not consume free-tier
// quota; only the plain start path does.
func (s *AttemptService) Retake(userID, testID uint, now time.Time) (*model.TestAttempt, *model.Test, error) {
	user, err := s.Access.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, err
	}

	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrTestNotFound
		}
		return nil, nil, err
	}

	if err := s.Access.CheckCanRetakeToday(user, test, now); err != nil {
		return nil, nil, err
	}

	attempt := &model.TestAttempt{
		UserID:    userID,
		TestID:    testID,
		StartedAt: now,
	}
	if err := s.Attempts.Create(attempt); err != nil {
		return nil, nil, err
	}

	monitoring.AttemptsStarted.Inc()
	return attempt, test, nil
}

// Submit scores the submitted answers and completes the attempt. The
// transition is exactly-once: the storage layer only applies it while the
// attempt is still pending, so a concurrent duplicate submission comes back
// as ErrAttemptAlreadyCompleted with nothing re-scored.
//
// Submitted question ids are trusted; whether they belong to the attempt's
// test is not verified here.
func (s *AttemptService) Submit(userID, attemptID uint, submissions []AnswerSubmission, timeTaken *int, now time.Time) (*ScoreResult, error) {
	if len(submissions) == 0 {
		return nil, util.NewValidationError("answers", "must be a non-empty array")
	}
	for i, sub := range submissions {
		if sub.QuestionID == 0 {
			return nil, util.NewValidationError("answers["+strconv.Itoa(i)+"].question_id", "is required")
		}
	}

	attempt, err := s.Attempts.FindByIDAndUser(attemptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.Completed() {
		return nil, util.ErrAttemptAlreadyCompleted
	}

	correctCount := 0
	userAnswers := make([]model.UserAnswer, 0, len(submissions))
	for _, sub := range submissions {
		correctIDs, err := s.Questions.CorrectAnswerIDs(sub.QuestionID)
		if err != nil {
			return nil, err
		}
		isCorrect := EvaluateSelection(correctIDs, sub.SelectedAnswerIDs)
		if isCorrect {
			correctCount++
		}

		ua := model.UserAnswer{
			AttemptID:  attemptID,
			QuestionID: sub.QuestionID,
			IsCorrect:  isCorrect,
		}
		if err := ua.SetSelected(sub.SelectedAnswerIDs); err != nil {
			return nil, err
		}
		userAnswers = append(userAnswers, ua)
	}

	total := len(submissions)
	percentage := ScorePercentage(correctCount, total)
	isPassed := percentage >= PassThreshold

	completed, err := s.Attempts.CompleteWithAnswers(attemptID, userAnswers, repository.AttemptCompletion{
		Score:          correctCount,
		TotalQuestions: total,
		Percentage:     percentage,
		TimeTaken:      timeTaken,
		IsPassed:       isPassed,
		CompletedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, util.ErrAttemptAlreadyCompleted
	}

	monitoring.AttemptsCompleted.WithLabelValues(strconv.FormatBool(isPassed)).Inc()

	return &ScoreResult{
		Score:          correctCount,
		TotalQuestions: total,
		Percentage:     percentage,
		IsPassed:       isPassed,
		TimeTaken:      timeTaken,
		CompletedAt:    now,
	}, nil
}
