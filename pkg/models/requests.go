package models

// Captcha purposes understood by the server.
const (
	CaptchaTypeRegister = "register"
	CaptchaTypeForget   = "forget"
	CaptchaTypeLogin    = "login"
)

// LoginRequest represents username/password credentials
type LoginRequest struct {
	Username string `json:"username" url:"username" form:"username" binding:"required"`
	Password string `json:"password" url:"password" form:"password" binding:"required"`
}

// TelLoginRequest represents a phone number plus one-time code login
type TelLoginRequest struct {
	Tel  string `json:"tel" url:"tel" form:"tel"`
	Code string `json:"code" url:"code" form:"code"`
}

// RegisterRequest represents a self-service sign up
type RegisterRequest struct {
	Name       string `json:"name" url:"name" form:"name"`
	Username   string `json:"username" url:"username" form:"username"`
	Email      string `json:"email" url:"email" form:"email"`
	Tel        string `json:"tel,omitempty" url:"tel,omitempty" form:"tel"`
	Password   string `json:"password" url:"password" form:"password"`
	VerifyCode string `json:"verifyCode" url:"verifyCode" form:"verifyCode"`
}

// ResetPasswordRequest represents a password reset authorized by a captcha
type ResetPasswordRequest struct {
	Email    string `json:"email" url:"email" form:"email"`
	Code     string `json:"code" url:"code" form:"code"`
	Password string `json:"password" url:"password" form:"password"`
}

// CheckUserParams asks whether an account already uses any of the values
type CheckUserParams struct {
	Username string `json:"username,omitempty" url:"username,omitempty" form:"username"`
	Email    string `json:"email,omitempty" url:"email,omitempty" form:"email"`
	Tel      string `json:"tel,omitempty" url:"tel,omitempty" form:"tel"`
}

// EmailCaptchaRequest asks the server to mail a one-time code
type EmailCaptchaRequest struct {
	Email string `json:"email" url:"email" form:"email"`
	Type  string `json:"type" url:"type" form:"type"`
}

// SmsCaptchaRequest asks the server to text a one-time code
type SmsCaptchaRequest struct {
	Tel  string `json:"tel" url:"tel" form:"tel"`
	Type string `json:"type" url:"type" form:"type"`
}

// CheckCaptchaParams validates a previously issued code
type CheckCaptchaParams struct {
	Email string `json:"email" url:"email" form:"email"`
	Code  string `json:"code" url:"code" form:"code"`
	Type  string `json:"type" url:"type" form:"type"`
}
