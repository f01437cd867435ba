package service

import (
	"errors"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/repository"
	"visaprep_backend/internal/util"

	"gorm.io/gorm"
)

type UserStatsStore interface {
	FindByID(id uint) (*model.User, error)
	Stats(userID uint) (*repository.UserStatsRow, error)
}

type UserService struct {
	Users UserStatsStore
}

func NewUserService(users UserStatsStore) *UserService {
	return &UserService{Users: users}
}

// Get loads the stored user record for in-process use (access checks,
// language selection). It must never be serialized to a caller; that is what
// Profile is for.
func (s *UserService) Get(userID uint) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Profile returns the safe view of a user, never the stored record itself.
func (s *UserService) Profile(userID uint) (*model.UserView, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	view := user.View()
	return &view, nil
}

type UserStats struct {
	TotalAttempts  int64    `json:"totalAttempts"`
	PassedAttempts int64    `json:"passedAttempts"`
	AverageScore   *float64 `json:"averageScore,omitempty"`
	BestScore      *float64 `json:"bestScore,omitempty"`
	FreeTestsUsed  int      `json:"freeTestsUsed"`
	FreeTestsLimit int      `json:"freeTestsLimit"`
	IsPremium      bool     `json:"isPremium"`
}

func (s *UserService) Stats(userID uint) (*UserStats, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	row, err := s.Users.Stats(userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TotalAttempts:  row.TotalAttempts,
		PassedAttempts: row.PassedAttempts,
		AverageScore:   row.AverageScore,
		BestScore:      row.BestScore,
		FreeTestsUsed:  user.FreeTestsUsed,
		FreeTestsLimit: user.FreeTestsLimit,
		IsPremium:      user.IsPremium,
	}, nil
}
