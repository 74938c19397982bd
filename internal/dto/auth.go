package dto

type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=30"`
	Email    string  `json:"email" binding:"required,email"`
	Picture  *string `json:"picture" binding:"omitempty,url"`
	Password string  `json:"password" binding:"required,min=6,max=128"`
}

type RegisterResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	// OTPCode is echoed only outside production for testability; the
	// production delivery path is out-of-band email.
	OTPCode int `json:"otp_code,omitempty"`
}

type VerifyEmailRequest struct {
	Email   string `json:"email" binding:"required,email"`
	OTPCode int    `json:"otpCode" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginResponse struct {
	Tokens TokenPair `json:"tokens"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ForgotPasswordResponse struct {
	Message string `json:"message"`
	OTPCode int    `json:"otp_code,omitempty"` // non-production only
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=128"`
	OTPCode     int    `json:"otpCode" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type LogoutRequest struct {
	// Accepted for API symmetry; there is no server-side revocation list, so
	// logout is a client-side token discard.
	RefreshToken string `json:"refreshToken"`
}
