package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	Email            string     `gorm:"size:100;unique;not null" json:"email"`
	PasswordHash     string     `gorm:"size:100;not null" json:"-"`
	FullName         string     `gorm:"size:100;not null" json:"fullName"`
	LanguageCode     string     `gorm:"size:10;default:'en'" json:"languageCode"`
	IsPremium        bool       `gorm:"default:false" json:"isPremium"`
	PremiumExpiresAt *time.Time `json:"premiumExpiresAt,omitempty"`
	FreeTestsUsed    int        `gorm:"default:0" json:"freeTestsUsed"`
	FreeTestsLimit   int        `gorm:"default:3" json:"freeTestsLimit"`
}

func (User) TableName() string {
	return "users"
}

// HasActivePremium reports whether the premium flag is set and not expired at
// the given instant. A null expiry means a non-expiring subscription.
func (u *User) HasActivePremium(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumExpiresAt == nil || u.PremiumExpiresAt.After(now)
}

// UserView is the caller-facing shape of a user. It exists so the credential
// hash can never leak through a serializer; do not replace it with field
// filtering on User.
type UserView struct {
	ID               uint       `json:"id"`
	Email            string     `json:"email"`
	FullName         string     `json:"fullName"`
	LanguageCode     string     `json:"languageCode"`
	IsPremium        bool       `json:"isPremium"`
	PremiumExpiresAt *time.Time `json:"premiumExpiresAt,omitempty"`
	FreeTestsUsed    int        `json:"freeTestsUsed"`
	FreeTestsLimit   int        `json:"freeTestsLimit"`
}

func (u *User) View() UserView {
	return UserView{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		LanguageCode:     u.LanguageCode,
		IsPremium:        u.IsPremium,
		PremiumExpiresAt: u.PremiumExpiresAt,
		FreeTestsUsed:    u.FreeTestsUsed,
		FreeTestsLimit:   u.FreeTestsLimit,
	}
}
