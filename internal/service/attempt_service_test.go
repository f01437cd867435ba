package service

import (
	"testing"
	"time"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttemptFixture(t *testing.T) (*AttemptService, *fakeUserStore, *fakeTestStore, *fakeScoringStore, *fakeAttemptStore) {
	t.Helper()

	freeUser := &model.User{FreeTestsUsed: 0, FreeTestsLimit: 3}
	freeUser.ID = 1
	premiumUser := &model.User{IsPremium: true}
	premiumUser.ID = 2
	users := newFakeUserStore(freeUser, premiumUser)

	freeTest := &model.Test{Type: model.TestTypeChapter, Title: "Chapter 1 Test", IsFree: true}
	freeTest.ID = 10
	premiumTest := &model.Test{Type: model.TestTypeExam, Title: "Mock Exam", IsPremium: true}
	premiumTest.ID = 11
	tests := newFakeTestStore(freeTest, premiumTest)

	questions := &fakeScoringStore{correct: map[uint][]string{
		101: {"a"},
		102: {"b"},
		103: {"c"},
		104: {"a", "c"},
		105: {"d"},
	}}

	attempts := newFakeAttemptStore()
	svc := NewAttemptService(NewAccessService(users, attempts), tests, questions, attempts)
	return svc, users, tests, questions, attempts
}

func TestStartFreeTestConsumesQuota(t *testing.T) {
	svc, users, _, _, _ := newAttemptFixture(t)
	now := time.Now()

	for i := 0; i < 3; i++ {
		attempt, test, err := svc.Start(1, 10, now)
		require.NoError(t, err)
		assert.NotZero(t, attempt.ID)
		assert.False(t, attempt.Completed())
		assert.Equal(t, "Chapter 1 Test", test.Title)
	}

	user, err := users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, 3, user.FreeTestsUsed)

	_, _, err = svc.Start(1, 10, now)
	assert.ErrorIs(t, err, util.ErrAccessDenied)
}

func TestStartPremiumTest(t *testing.T) {
	svc, _, _, _, _ := newAttemptFixture(t)
	now := time.Now()

	// 免费用户无法开始付费测试
	_, _, err := svc.Start(1, 11, now)
	assert.ErrorIs(t, err, util.ErrAccessDenied)

	attempt, _, err := svc.Start(2, 11, now)
	require.NoError(t, err)
	assert.Equal(t, uint(2), attempt.UserID)
	assert.Equal(t, uint(11), attempt.TestID)
}

func TestStartPremiumTestDoesNotTouchQuota(t *testing.T) {
	svc, users, _, _, _ := newAttemptFixture(t)

	_, _, err := svc.Start(2, 11, time.Now())
	require.NoError(t, err)

	user, err := users.FindByID(2)
	require.NoError(t, err)
	assert.Equal(t, 0, user.FreeTestsUsed)
}

func TestStartUnknownTestOrUser(t *testing.T) {
	svc, _, _, _, _ := newAttemptFixture(t)
	now := time.Now()

	_, _, err := svc.Start(1, 99, now)
	assert.ErrorIs(t, err, util.ErrTestNotFound)

	_, _, err = svc.Start(99, 10, now)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestSubmitScoresAndCompletes(t *testing.T) {
	svc, _, _, _, attempts := newAttemptFixture(t)
	started := time.Now()

	attempt, _, err := svc.Start(1, 10, started)
	require.NoError(t, err)

	timeTaken := 420
	subs := []AnswerSubmission{
		{QuestionID: 101, SelectedAnswerIDs: []string{"a"}},
		{QuestionID: 102, SelectedAnswerIDs: []string{"b"}},
		{QuestionID: 103, SelectedAnswerIDs: []string{"c"}},
		{QuestionID: 104, SelectedAnswerIDs: []string{"c", "a"}},
		{QuestionID: 105, SelectedAnswerIDs: []string{"a"}},
	}
	completedAt := started.Add(7 * time.Minute)
	result, err := svc.Submit(1, attempt.ID, subs, &timeTaken, completedAt)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Score)
	assert.Equal(t, 5, result.TotalQuestions)
	assert.Equal(t, 80.0, result.Percentage)
	assert.True(t, result.IsPassed)
	assert.Equal(t, &timeTaken, result.TimeTaken)
	assert.Equal(t, completedAt, result.CompletedAt)

	stored, err := attempts.FindByIDAndUser(attempt.ID, 1)
	require.NoError(t, err)
	assert.True(t, stored.Completed())
	assert.Equal(t, 4, stored.Score)
	assert.Equal(t, 80.0, stored.Percentage)

	answers, err := attempts.AnswersByAttempt(attempt.ID)
	require.NoError(t, err)
	require.Len(t, answers, 5)
	assert.True(t, answers[3].IsCorrect)
	assert.False(t, answers[4].IsCorrect)
	assert.ElementsMatch(t, []string{"c", "a"}, answers[3].Selected())
}

func TestSubmitBelowThresholdFails(t *testing.T) {
	svc, _, _, _, _ := newAttemptFixture(t)
	now := time.Now()

	attempt, _, err := svc.Start(1, 10, now)
	require.NoError(t, err)

	subs := []AnswerSubmission{
		{QuestionID: 101, SelectedAnswerIDs: []string{"a"}},
		{QuestionID: 102, SelectedAnswerIDs: []string{"x"}},
		{QuestionID: 103, SelectedAnswerIDs: []string{"x"}},
	}
	result, err := svc.Submit(1, attempt.ID, subs, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 33.33, result.Percentage)
	assert.False(t, result.IsPassed)
	assert.Nil(t, result.TimeTaken)
}

func TestSubmitTwiceReturnsAlreadyCompleted(t *testing.T) {
	svc, _, _, _, attempts := newAttemptFixture(t)
	now := time.Now()

	attempt, _, err := svc.Start(1, 10, now)
	require.NoError(t, err)

	subs := []AnswerSubmission{{QuestionID: 101, SelectedAnswerIDs: []string{"a"}}}
	first, err := svc.Submit(1, attempt.ID, subs, nil, now)
	require.NoError(t, err)

	// 重复提交不能改写第一次的结果
	wrong := []AnswerSubmission{{QuestionID: 101, SelectedAnswerIDs: []string{"x"}}}
	_, err = svc.Submit(1, attempt.ID, wrong, nil, now.Add(time.Minute))
	assert.ErrorIs(t, err, util.ErrAttemptAlreadyCompleted)

	stored, err := attempts.FindByIDAndUser(attempt.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Score, stored.Score)
	assert.Equal(t, first.Percentage, stored.Percentage)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, now, *stored.CompletedAt)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _, _, _ := newAttemptFixture(t)
	now := time.Now()

	attempt, _, err := svc.Start(1, 10, now)
	require.NoError(t, err)

	_, err = svc.Submit(1, attempt.ID, nil, nil, now)
	assert.True(t, util.IsValidationError(err))

	_, err = svc.Submit(1, attempt.ID, []AnswerSubmission{{QuestionID: 0}}, nil, now)
	assert.True(t, util.IsValidationError(err))
}

func TestSubmitForeignAttemptLooksMissing(t *testing.T) {
	svc, _, _, _, _ := newAttemptFixture(t)
	now := time.Now()

	attempt, _, err := svc.Start(1, 10, now)
	require.NoError(t, err)

	subs := []AnswerSubmission{{QuestionID: 101, SelectedAnswerIDs: []string{"a"}}}
	_, err = svc.Submit(2, attempt.ID, subs, nil, now)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	_, err = svc.Submit(1, 999, subs, nil, now)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestRetakeRespectsDailyLimit(t *testing.T) {
	svc, _, _, _, _ := newAttemptFixture(t)
	now := time.Now()

	// 第一次通过正常入口，之后重考
	_, _, err := svc.Start(1, 10, now)
	require.NoError(t, err)

	for i := 0; i < DailyRetakeLimit-1; i++ {
		_, _, err = svc.Retake(1, 10, now)
		require.NoError(t, err)
	}

	_, _, err = svc.Retake(1, 10, now)
	assert.ErrorIs(t, err, util.ErrRetakeLimitReached)
}

func TestRetakeDoesNotConsumeQuota(t *testing.T) {
	svc, users, _, _, _ := newAttemptFixture(t)
	now := time.Now()

	_, _, err := svc.Start(1, 10, now)
	require.NoError(t, err)

	before, err := users.FindByID(1)
	require.NoError(t, err)

	_, _, err = svc.Retake(1, 10, now)
	require.NoError(t, err)

	after, err := users.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, before.FreeTestsUsed, after.FreeTestsUsed)
}
