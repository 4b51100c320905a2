package auth

// SignUpRequest is the body of auth/signup.
type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// SignUpResponse is the parsed auth/signup reply. Token and Data are both
// optional.
type SignUpResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Data    *SignUpData `json:"data"`
}

// SignUpData carries the created account id when the server returns one.
type SignUpData struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
}

func (d *SignUpData) identifier() string {
	if d == nil {
		return ""
	}
	if d.ID != "" {
		return d.ID
	}
	return d.MongoID
}

// SignInRequest is the body of auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse is the parsed auth/signin reply. Success is nil when the
// server omitted the flag.
type SignInResponse struct {
	Success *bool       `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	UserID  string      `json:"userId"`
	User    *SignInUser `json:"user"`
}

// Succeeded reports an explicit success:true.
func (r *SignInResponse) Succeeded() bool {
	return r != nil && r.Success != nil && *r.Success
}

// SignInUser is the optional user object embedded in a sign-in reply.
type SignInUser struct {
	ID         string `json:"id"`
	MongoID    string `json:"_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	IsApproved bool   `json:"isApproved"`
	AuthMethod string `json:"authMethod"`
	CreatedAt  string `json:"createdAt"`
}

// ForgotPasswordRequest is the body of auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest is the body of auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest is the body of auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// Ack is the loosely specified reply of the password-recovery endpoints.
type Ack struct {
	Status  string `json:"status"`
	Success *bool  `json:"success"`
	Message string `json:"message"`
}
