package service

import (
	"time"

	"visaprep_backend/internal/model"
	"visaprep_backend/internal/util"
)

// DailyRetakeLimit caps attempts per test per calendar day for non-premium
// users.
const DailyRetakeLimit = 3

type AccessUserStore interface {
	FindByID(id uint) (*model.User, error)
	IncrementFreeTestsUsed(userID uint) error
}

type AccessAttemptStore interface {
	CountStartedOn(userID, testID uint, day time.Time) (int64, error)
}

// AccessService decides whether a user may start or retake a test and owns
// the free-tier quota counter.
type AccessService struct {
	Users    AccessUserStore
	Attempts AccessAttemptStore
}

func NewAccessService(users AccessUserStore, attempts AccessAttemptStore) *AccessService {
	return &AccessService{Users: users, Attempts: attempts}
}

// CheckCanStart applies the gate policy in order: free tests require remaining
// quota, premium tests require an unexpired subscription, everything else is
// denied. A denial is a normal outcome, returned as util.ErrAccessDenied.
func (s *AccessService) CheckCanStart(user *model.User, test *model.Test, now time.Time) error {
	if test.IsFree {
		if user.FreeTestsUsed < user.FreeTestsLimit {
			return nil
		}
		return util.ErrAccessDenied
	}

	if test.IsPremium {
		if user.HasActivePremium(now) {
			return nil
		}
		return util.ErrAccessDenied
	}

	return util.ErrAccessDenied
}

// CheckCanRetakeToday allows premium users unconditionally; everyone else is
// limited to DailyRetakeLimit attempts started on the caller's current
// calendar date for that test, whether or not they were completed.
func (s *AccessService) CheckCanRetakeToday(user *model.User, test *model.Test, now time.Time) error {
	if user.IsPremium {
		return nil
	}

	count, err := s.Attempts.CountStartedOn(user.ID, test.ID, now)
	if err != nil {
		return err
	}
	if count >= DailyRetakeLimit {
		return util.ErrRetakeLimitReached
	}
	return nil
}

// ConsumeFreeTest burns one unit of free-tier quota. It is called once per
// successful start of a free test — every start, not only the first start of
// that particular test.
func (s *AccessService) ConsumeFreeTest(userID uint) error {
	return s.Users.IncrementFreeTestsUsed(userID)
}
