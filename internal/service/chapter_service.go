package service

import (
	"errors"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/repository"
	"visaprep_backend/internal/util"

	"gorm.io/gorm"
)

type ChapterStore interface {
	FindByID(id uint) (*model.Chapter, error)
	ListWithStats() ([]repository.ChapterStatsRow, error)
}

type ChapterService struct {
	Chapters ChapterStore
	Tests    CatalogStore
}

func NewChapterService(chapters ChapterStore, tests CatalogStore) *ChapterService {
	return &ChapterService{Chapters: chapters, Tests: tests}
}

func (s *ChapterService) List() ([]repository.ChapterStatsRow, error) {
	return s.Chapters.ListWithStats()
}

type ChapterDetail struct {
	Chapter model.Chapter `json:"chapter"`
	Tests   []model.Test  `json:"tests"`
}

func (s *ChapterService) Detail(chapterID uint) (*ChapterDetail, error) {
	chapter, err := s.Chapters.FindByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}

	tests, err := s.Tests.ListByChapter(chapterID)
	if err != nil {
		return nil, err
	}

	return &ChapterDetail{Chapter: *chapter, Tests: tests}, nil
}
