package service

import (
	"context"
	"testing"
	"time"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/repository"
	"visaprep_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCatalogStore struct {
	tests         map[uint]*model.Test
	available     []repository.AvailableTestRow
	listAvailable int
}

func (f *fakeCatalogStore) FindByID(id uint) (*model.Test, error) {
	tst, ok := f.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *tst
	return &cp, nil
}

func (f *fakeCatalogStore) ListAvailable(userID uint) ([]repository.AvailableTestRow, error) {
	f.listAvailable++
	return f.available, nil
}

func (f *fakeCatalogStore) ListByType(testType model.TestType) ([]model.Test, error) {
	var out []model.Test
	for _, tst := range f.tests {
		if tst.Type == testType {
			out = append(out, *tst)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) ListByChapter(chapterID uint) ([]model.Test, error) {
	return nil, nil
}

func (f *fakeCatalogStore) ListFree() ([]model.Test, error) {
	var out []model.Test
	for _, tst := range f.tests {
		if tst.IsFree {
			out = append(out, *tst)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) Search(query string, testType model.TestType, chapterID *uint, includeTranslations bool) ([]model.Test, error) {
	return nil, nil
}

type fakeCatalogQuestionStore struct {
	questions map[uint][]model.Question
	options   map[uint][]model.Answer
}

func (f *fakeCatalogQuestionStore) ListByTest(testID uint) ([]model.Question, error) {
	return f.questions[testID], nil
}

func (f *fakeCatalogQuestionStore) AnswersByQuestion(questionID uint) ([]model.Answer, error) {
	return f.options[questionID], nil
}

func newCatalogFixture() (*TestService, *fakeCatalogStore) {
	freeTest := &model.Test{Type: model.TestTypeChapter, Title: "Chapter 1 Test", TestNumber: 1, IsFree: true}
	freeTest.ID = 10
	premiumTest := &model.Test{Type: model.TestTypeExam, Title: "Mock Exam", TestNumber: 1, IsPremium: true}
	premiumTest.ID = 11

	q := model.Question{
		TestID:         10,
		QuestionType:   "single_choice",
		QuestionText:   "Which flower is associated with Wales?",
		QuestionTextVi: "Loài hoa nào gắn liền với xứ Wales?",
		Explanation:    "The daffodil is the national flower of Wales.",
	}
	q.ID = 101

	store := &fakeCatalogStore{
		tests: map[uint]*model.Test{10: freeTest, 11: premiumTest},
		available: []repository.AvailableTestRow{
			{ID: 10, Type: model.TestTypeChapter, Title: "Chapter 1 Test", IsFree: true},
			{ID: 11, Type: model.TestTypeExam, Title: "Mock Exam", IsPremium: true},
		},
	}
	questions := &fakeCatalogQuestionStore{
		questions: map[uint][]model.Question{10: {q}},
		options: map[uint][]model.Answer{
			101: {
				{QuestionID: 101, AnswerID: "a", AnswerText: "The daffodil", AnswerTextVi: "Hoa thủy tiên", IsCorrect: true},
				{QuestionID: 101, AnswerID: "b", AnswerText: "The rose", AnswerTextVi: "Hoa hồng"},
			},
		},
	}

	access := NewAccessService(newFakeUserStore(), newFakeAttemptStore())
	svc := NewTestService(store, questions, access, NewMemoryCache(), time.Minute, time.Minute)
	return svc, store
}

func TestAvailableTestsGroupsByType(t *testing.T) {
	svc, _ := newCatalogFixture()

	got, err := svc.AvailableTests(context.Background(), 1, "en")
	require.NoError(t, err)

	assert.Len(t, got.Tests[model.TestTypeChapter], 1)
	assert.Len(t, got.Tests[model.TestTypeExam], 1)
	assert.Empty(t, got.Tests[model.TestTypeComprehensive])
	assert.Equal(t, "en", got.UserLanguage)
}

func TestAvailableTestsCached(t *testing.T) {
	svc, store := newCatalogFixture()
	ctx := context.Background()

	first, err := svc.AvailableTests(ctx, 1, "en")
	require.NoError(t, err)
	second, err := svc.AvailableTests(ctx, 1, "en")
	require.NoError(t, err)

	assert.Equal(t, 1, store.listAvailable)
	assert.Equal(t, first.Tests[model.TestTypeChapter], second.Tests[model.TestTypeChapter])

	// 不同语言不共享缓存键
	_, err = svc.AvailableTests(ctx, 1, "vi")
	require.NoError(t, err)
	assert.Equal(t, 2, store.listAvailable)
}

func TestTestForUserHidesCorrectness(t *testing.T) {
	svc, _ := newCatalogFixture()
	user := &model.User{LanguageCode: "en", FreeTestsUsed: 0, FreeTestsLimit: 3}
	user.ID = 1

	detail, err := svc.TestForUser(context.Background(), user, 10, false, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, detail.QuestionCount)
	require.Len(t, detail.Questions, 1)
	q := detail.Questions[0]
	assert.Empty(t, q.QuestionTextVi)
	require.Len(t, q.Answers, 2)
	assert.Nil(t, q.Answers[0].IsCorrect)
	assert.Nil(t, q.Answers[1].IsCorrect)
}

func TestTestForUserStudyModeWithTranslations(t *testing.T) {
	svc, _ := newCatalogFixture()
	user := &model.User{LanguageCode: "vi", FreeTestsUsed: 0, FreeTestsLimit: 3}
	user.ID = 1

	detail, err := svc.TestForUser(context.Background(), user, 10, true, time.Now())
	require.NoError(t, err)

	q := detail.Questions[0]
	assert.Equal(t, "Loài hoa nào gắn liền với xứ Wales?", q.QuestionTextVi)
	require.Len(t, q.Answers, 2)
	require.NotNil(t, q.Answers[0].IsCorrect)
	assert.True(t, *q.Answers[0].IsCorrect)
	require.NotNil(t, q.Answers[1].IsCorrect)
	assert.False(t, *q.Answers[1].IsCorrect)
	assert.Equal(t, "Hoa thủy tiên", q.Answers[0].AnswerTextVi)
}

func TestTestForUserAccessGate(t *testing.T) {
	svc, _ := newCatalogFixture()
	now := time.Now()

	exhausted := &model.User{FreeTestsUsed: 3, FreeTestsLimit: 3}
	exhausted.ID = 1
	_, err := svc.TestForUser(context.Background(), exhausted, 10, false, now)
	assert.ErrorIs(t, err, util.ErrAccessDenied)

	free := &model.User{FreeTestsUsed: 0, FreeTestsLimit: 3}
	free.ID = 2
	_, err = svc.TestForUser(context.Background(), free, 11, false, now)
	assert.ErrorIs(t, err, util.ErrAccessDenied)

	_, err = svc.TestForUser(context.Background(), free, 99, false, now)
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestTestsByTypeValidation(t *testing.T) {
	svc, _ := newCatalogFixture()

	_, err := svc.TestsByType("bogus")
	assert.True(t, util.IsValidationError(err))

	got, err := svc.TestsByType("chapter")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearchTestsValidation(t *testing.T) {
	svc, _ := newCatalogFixture()

	_, err := svc.SearchTests("", "", nil, "en")
	assert.True(t, util.IsValidationError(err))

	_, err = svc.SearchTests("wales", "bogus", nil, "en")
	assert.True(t, util.IsValidationError(err))

	_, err = svc.SearchTests("wales", "chapter", nil, "en")
	assert.NoError(t, err)
}
