package identitysdk

import "time"

// UserProfile is a user as the identity service reports it.
type UserProfile struct {
	UserID      string     `json:"userId"`
	Email       string     `json:"email"`
	UserType    string     `json:"userType"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// TokenResult is a freshly minted token pair.
type TokenResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         UserProfile `json:"user"`
}
