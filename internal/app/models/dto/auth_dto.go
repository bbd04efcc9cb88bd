package dto

// RegisterRequest represents the user registration payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" example:"jordan@university.edu"`
	Password string `json:"password" validate:"required,min=8" example:"secret1234"`
	FullName string `json:"fullName" validate:"required,min=2,max=100" example:"Jordan Lee"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"jordan@university.edu"`
	Password string `json:"password" validate:"required" example:"secret1234"`
}

// RefreshTokenRequest represents the token refresh payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	UserID int64         `json:"userId" example:"3"`
	Email  string        `json:"email" example:"jordan@university.edu"`
	Tokens TokenResponse `json:"tokens"`
}
