package service

import (
	"visaprep_backend/internal/repository"
)

const (
	MinLeaderboardLimit = 5
	MaxLeaderboardLimit = 50
)

// ClampLeaderboardLimit keeps the requested row count in a sane range. It is
// applied at the caller boundary, not inside Rank.
func ClampLeaderboardLimit(limit int) int {
	if limit < MinLeaderboardLimit {
		return MinLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

type LeaderboardStore interface {
	Leaderboard(testID *uint, limit int) ([]repository.LeaderboardRow, error)
}

// LeaderboardService is a read-only ranking over completed attempts, ordered
// by percentage descending with faster time breaking ties.
type LeaderboardService struct {
	Attempts LeaderboardStore
}

func NewLeaderboardService(attempts LeaderboardStore) *LeaderboardService {
	return &LeaderboardService{Attempts: attempts}
}

func (s *LeaderboardService) Rank(testID *uint, limit int) ([]repository.LeaderboardRow, error) {
	rows, err := s.Attempts.Leaderboard(testID, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.LeaderboardRow{}
	}
	return rows, nil
}
