package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/repository"
	"visaprep_backend/internal/util"

	"gorm.io/gorm"
)

type CatalogStore interface {
	FindByID(id uint) (*model.Test, error)
	ListAvailable(userID uint) ([]repository.AvailableTestRow, error)
	ListByType(testType model.TestType) ([]model.Test, error)
	ListByChapter(chapterID uint) ([]model.Test, error)
	ListFree() ([]model.Test, error)
	Search(query string, testType model.TestType, chapterID *uint, includeTranslations bool) ([]model.Test, error)
}

type CatalogQuestionStore interface {
	ListByTest(testID uint) ([]model.Question, error)
	AnswersByQuestion(questionID uint) ([]model.Answer, error)
}

// TestService serves the test catalog. List and detail reads go through the
// cache; the cache only ever changes latency, never results.
type TestService struct {
	Tests      CatalogStore
	Questions  CatalogQuestionStore
	Access     *AccessService
	Cache      Cache
	CatalogTTL time.Duration
	TestTTL    time.Duration
}

func NewTestService(tests CatalogStore, questions CatalogQuestionStore, access *AccessService, cache Cache, catalogTTL, testTTL time.Duration) *TestService {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &TestService{
		Tests:      tests,
		Questions:  questions,
		Access:     access,
		Cache:      cache,
		CatalogTTL: catalogTTL,
		TestTTL:    testTTL,
	}
}

// AvailableTests groups the catalog by test type for one user, including
// that user's attempt count and best score per test.
type AvailableTests struct {
	Tests        map[model.TestType][]repository.AvailableTestRow `json:"tests"`
	UserLanguage string                                           `json:"userLanguage"`
}

func (s *TestService) AvailableTests(ctx context.Context, userID uint, languageCode string) (*AvailableTests, error) {
	key := CacheKey("available_tests", strconv.FormatUint(uint64(userID), 10), languageCode)
	if raw, ok := s.Cache.Get(ctx, key); ok {
		var cached AvailableTests
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	rows, err := s.Tests.ListAvailable(userID)
	if err != nil {
		return nil, err
	}

	grouped := map[model.TestType][]repository.AvailableTestRow{
		model.TestTypeChapter:       {},
		model.TestTypeComprehensive: {},
		model.TestTypeExam:          {},
	}
	for _, row := range rows {
		grouped[row.Type] = append(grouped[row.Type], row)
	}

	result := &AvailableTests{Tests: grouped, UserLanguage: languageCode}

	if raw, err := json.Marshal(result); err == nil {
		s.Cache.Set(ctx, key, string(raw), s.CatalogTTL)
	}
	return result, nil
}

// AnswerView hides the correctness flag unless the caller asked for answers.
type AnswerView struct {
	AnswerID     string `json:"answerId"`
	AnswerText   string `json:"answerText"`
	AnswerTextVi string `json:"answerTextVi,omitempty"`
	IsCorrect    *bool  `json:"isCorrect,omitempty"`
}

type QuestionView struct {
	ID             uint         `json:"id"`
	QuestionType   string       `json:"questionType"`
	QuestionText   string       `json:"questionText"`
	QuestionTextVi string       `json:"questionTextVi,omitempty"`
	Explanation    string       `json:"explanation,omitempty"`
	ExplanationVi  string       `json:"explanationVi,omitempty"`
	Answers        []AnswerView `json:"answers"`
}

type TestDetail struct {
	Test          model.Test     `json:"test"`
	Questions     []QuestionView `json:"questions"`
	QuestionCount int            `json:"questionCount"`
}

// TestForUser returns a test with its questions after the access gate passes
// for this user. Vietnamese variants are included only for vi-language users;
// correctness flags only when includeAnswers is set (study mode).
func (s *TestService) TestForUser(ctx context.Context, user *model.User, testID uint, includeAnswers bool, now time.Time) (*TestDetail, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	if err := s.Access.CheckCanStart(user, test, now); err != nil {
		return nil, err
	}

	includeTranslations := user.LanguageCode == "vi"

	key := CacheKey("test_content",
		strconv.FormatUint(uint64(testID), 10),
		user.LanguageCode,
		strconv.FormatBool(includeAnswers),
	)
	if raw, ok := s.Cache.Get(ctx, key); ok {
		var cached TestDetail
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	}

	questions, err := s.Questions.ListByTest(testID)
	if err != nil {
		return nil, err
	}

	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		view := QuestionView{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			QuestionText: q.QuestionText,
			Explanation:  q.Explanation,
		}
		if includeTranslations {
			view.QuestionTextVi = q.QuestionTextVi
			view.ExplanationVi = q.ExplanationVi
		}

		options, err := s.Questions.AnswersByQuestion(q.ID)
		if err != nil {
			return nil, err
		}
		view.Answers = make([]AnswerView, 0, len(options))
		for _, opt := range options {
			av := AnswerView{
				AnswerID:   opt.AnswerID,
				AnswerText: opt.AnswerText,
			}
			if includeTranslations {
				av.AnswerTextVi = opt.AnswerTextVi
			}
			if includeAnswers {
				isCorrect := opt.IsCorrect
				av.IsCorrect = &isCorrect
			}
			view.Answers = append(view.Answers, av)
		}
		views = append(views, view)
	}

	detail := &TestDetail{
		Test:          *test,
		Questions:     views,
		QuestionCount: len(views),
	}

	if raw, err := json.Marshal(detail); err == nil {
		s.Cache.Set(ctx, key, string(raw), s.TestTTL)
	}
	return detail, nil
}

func (s *TestService) TestsByType(testType string) ([]model.Test, error) {
	if !model.ValidTestType(testType) {
		return nil, util.NewValidationError("type", "must be one of chapter, comprehensive, exam")
	}
	return s.Tests.ListByType(model.TestType(testType))
}

func (s *TestService) TestsByChapter(chapterID uint) ([]model.Test, error) {
	return s.Tests.ListByChapter(chapterID)
}

func (s *TestService) FreeTests() ([]model.Test, error) {
	return s.Tests.ListFree()
}

// SearchTests matches title and chapter name, widened to translated question
// and answer text for vi-language callers. Anonymous callers search without
// translations.
func (s *TestService) SearchTests(query, testType string, chapterID *uint, languageCode string) ([]model.Test, error) {
	if query == "" {
		return nil, util.NewValidationError("q", "search query is required")
	}
	if testType != "" && !model.ValidTestType(testType) {
		return nil, util.NewValidationError("type", "must be one of chapter, comprehensive, exam")
	}
	return s.Tests.Search(query, model.TestType(testType), chapterID, languageCode == "vi")
}
