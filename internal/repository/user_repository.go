package repository

import (
	"visaprep_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// IncrementFreeTestsUsed bumps the quota counter in a single UPDATE so
// concurrent starts by the same user cannot lose increments.
func (r *UserRepository) IncrementFreeTestsUsed(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("free_tests_used", gorm.Expr("free_tests_used + 1")).
		Error
}

// UserStatsRow aggregates a user's completed-attempt figures.
type UserStatsRow struct {
	TotalAttempts  int64    `json:"totalAttempts"`
	PassedAttempts int64    `json:"passedAttempts"`
	AverageScore   *float64 `json:"averageScore"`
	BestScore      *float64 `json:"bestScore"`
}

func (r *UserRepository) Stats(userID uint) (*UserStatsRow, error) {
	var row UserStatsRow
	err := r.DB.Table("user_test_attempts").
		Select("COUNT(id) AS total_attempts, "+
			"COUNT(CASE WHEN is_passed = 1 THEN 1 END) AS passed_attempts, "+
			"AVG(percentage) AS average_score, "+
			"MAX(percentage) AS best_score").
		Where("user_id = ? AND completed_at IS NOT NULL AND deleted_at IS NULL", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
