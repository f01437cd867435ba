package service

import (
	"fmt"
	"testing"
	"time"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/repository"
	"visaprep_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeHistoryStore struct {
	*fakeAttemptStore
	rows       []repository.HistoryRow
	lastLimit  int
	lastOffset int
}

func (f *fakeHistoryStore) ListCompleted(userID uint, limit, offset int) ([]repository.HistoryRow, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], nil
}

func (f *fakeHistoryStore) CountCompleted(userID uint) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeQuestionStore struct {
	questions map[uint]*model.Question
	options   map[uint][]model.Answer
}

func (f *fakeQuestionStore) FindByID(id uint) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (f *fakeQuestionStore) AnswersByQuestion(questionID uint) ([]model.Answer, error) {
	return f.options[questionID], nil
}

func TestListCompletedPagination(t *testing.T) {
	rows := make([]repository.HistoryRow, 45)
	for i := range rows {
		rows[i] = repository.HistoryRow{ID: uint(i + 1), Title: fmt.Sprintf("Test %d", i+1)}
	}
	store := &fakeHistoryStore{fakeAttemptStore: newFakeAttemptStore(), rows: rows}
	svc := NewHistoryService(store, &fakeQuestionStore{}, newFakeTestStore())

	page1, total, err := svc.ListCompleted(1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Len(t, page1, 20)
	assert.Equal(t, 0, store.lastOffset)

	meta := util.Paginate(page1, total, 1, 20).Pagination
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.False(t, meta.HasPrev)

	page3, total, err := svc.ListCompleted(1, 3, 20)
	require.NoError(t, err)
	assert.Len(t, page3, 5)
	assert.Equal(t, 40, store.lastOffset)

	meta = util.Paginate(page3, total, 3, 20).Pagination
	assert.Equal(t, 3, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestListCompletedEmpty(t *testing.T) {
	store := &fakeHistoryStore{fakeAttemptStore: newFakeAttemptStore()}
	svc := NewHistoryService(store, &fakeQuestionStore{}, newFakeTestStore())

	rows, total, err := svc.ListCompleted(1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestDetailBreakdown(t *testing.T) {
	attempts := newFakeAttemptStore()
	store := &fakeHistoryStore{fakeAttemptStore: attempts}

	test := &model.Test{Title: "Chapter 3 Test", TestNumber: 3}
	test.ID = 10
	tests := newFakeTestStore(test)

	questions := &fakeQuestionStore{
		questions: map[uint]*model.Question{
			101: {TestID: 10, QuestionType: "single_choice", QuestionText: "Which body passes UK laws?", Explanation: "Parliament holds legislative power."},
		},
		options: map[uint][]model.Answer{
			101: {
				{QuestionID: 101, AnswerID: "a", AnswerText: "Parliament", IsCorrect: true},
				{QuestionID: 101, AnswerID: "b", AnswerText: "The Monarch"},
				{QuestionID: 101, AnswerID: "c", AnswerText: "The Police"},
			},
		},
	}

	now := time.Now()
	attempt := &model.TestAttempt{UserID: 1, TestID: 10, StartedAt: now}
	require.NoError(t, attempts.Create(attempt))
	ua := model.UserAnswer{AttemptID: attempt.ID, QuestionID: 101, IsCorrect: true}
	require.NoError(t, ua.SetSelected([]string{"a"}))
	_, err := attempts.CompleteWithAnswers(attempt.ID, []model.UserAnswer{ua}, repository.AttemptCompletion{
		Score: 1, TotalQuestions: 1, Percentage: 100, IsPassed: true, CompletedAt: now,
	})
	require.NoError(t, err)

	svc := NewHistoryService(store, questions, tests)
	detail, err := svc.Detail(attempt.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, "Chapter 3 Test", detail.TestTitle)
	assert.Equal(t, 3, detail.TestNumber)
	require.Len(t, detail.Questions, 1)

	q := detail.Questions[0]
	assert.Equal(t, uint(101), q.QuestionID)
	assert.True(t, q.IsCorrect)
	assert.Equal(t, []string{"a"}, q.SelectedAnswerIDs)
	require.Len(t, q.Answers, 3)
	assert.True(t, q.Answers[0].IsCorrect)
	assert.True(t, q.Answers[0].WasSelected)
	assert.False(t, q.Answers[1].WasSelected)
}

func TestDetailOwnershipAndMissing(t *testing.T) {
	attempts := newFakeAttemptStore()
	store := &fakeHistoryStore{fakeAttemptStore: attempts}
	svc := NewHistoryService(store, &fakeQuestionStore{}, newFakeTestStore())

	attempt := &model.TestAttempt{UserID: 1, TestID: 10, StartedAt: time.Now()}
	require.NoError(t, attempts.Create(attempt))

	// 别人的尝试与不存在的尝试对调用方不可区分
	_, err := svc.Detail(attempt.ID, 2)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	_, err = svc.Detail(999, 1)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}
