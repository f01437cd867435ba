package service

import (
	"time"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/repository"

	"gorm.io/gorm"
)

// In-memory stores backing the service tests. They return
// gorm.ErrRecordNotFound for misses, matching the repository layer.

type fakeUserStore struct {
	users map[uint]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[uint]*model.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) FindByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) IncrementFreeTestsUsed(userID uint) error {
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FreeTestsUsed++
	return nil
}

type fakeTestStore struct {
	tests map[uint]*model.Test
}

func newFakeTestStore(tests ...*model.Test) *fakeTestStore {
	f := &fakeTestStore{tests: make(map[uint]*model.Test)}
	for _, tst := range tests {
		f.tests[tst.ID] = tst
	}
	return f
}

func (f *fakeTestStore) FindByID(id uint) (*model.Test, error) {
	tst, ok := f.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *tst
	return &cp, nil
}

type fakeScoringStore struct {
	correct map[uint][]string
}

func (f *fakeScoringStore) CorrectAnswerIDs(questionID uint) ([]string, error) {
	return f.correct[questionID], nil
}

type fakeAttemptStore struct {
	nextID   uint
	attempts map[uint]*model.TestAttempt
	answers  map[uint][]model.UserAnswer
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		attempts: make(map[uint]*model.TestAttempt),
		answers:  make(map[uint][]model.UserAnswer),
	}
}

func (f *fakeAttemptStore) Create(attempt *model.TestAttempt) error {
	f.nextID++
	attempt.ID = f.nextID
	cp := *attempt
	f.attempts[attempt.ID] = &cp
	return nil
}

func (f *fakeAttemptStore) FindByIDAndUser(id, userID uint) (*model.TestAttempt, error) {
	a, ok := f.attempts[id]
	if !ok || a.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) CompleteWithAnswers(attemptID uint, answers []model.UserAnswer, result repository.AttemptCompletion) (bool, error) {
	a, ok := f.attempts[attemptID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if a.CompletedAt != nil {
		return false, nil
	}
	a.Score = result.Score
	a.TotalQuestions = result.TotalQuestions
	a.Percentage = result.Percentage
	a.TimeTaken = result.TimeTaken
	a.IsPassed = result.IsPassed
	completedAt := result.CompletedAt
	a.CompletedAt = &completedAt
	f.answers[attemptID] = answers
	return true, nil
}

func (f *fakeAttemptStore) CountStartedOn(userID, testID uint, day time.Time) (int64, error) {
	year, month, date := day.Date()
	start := time.Date(year, month, date, 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	for _, a := range f.attempts {
		if a.UserID != userID || a.TestID != testID {
			continue
		}
		if !a.StartedAt.Before(start) && a.StartedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttemptStore) AnswersByAttempt(attemptID uint) ([]model.UserAnswer, error) {
	return f.answers[attemptID], nil
}
