package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pitchclerk/internal/logging"
	"pitchclerk/internal/services"
	"pitchclerk/internal/services/profile"
	"pitchclerk/internal/session"
)

const (
	signUpPath         = "auth/signup"
	signInPath         = "auth/signin"
	forgotPasswordPath = "auth/forgot-password"
	verifyOTPPath      = "auth/verify-otp"
	resetPasswordPath  = "auth/reset-password"

	unknownID = "unknown"
)

// Client is the subset of the gateway the auth service needs.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Service performs authentication calls against the API.
type Service struct {
	client   Client
	session  *session.Session
	profiles *profile.Service
	logger   *slog.Logger
}

// New constructs an auth Service bound to sess.
func New(client Client, sess *session.Session, logger *slog.Logger) *Service {
	return &Service{
		client:   client,
		session:  sess,
		profiles: profile.New(client, logger),
		logger:   logging.NewComponentLogger(logger, "auth"),
	}
}

// SignUp creates an account. A token in the reply is persisted.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResponse, error) {
	var resp SignUpResponse
	if err := s.client.Post(ctx, signUpPath, req, &resp); err != nil {
		s.log(ctx).Warn("signup failed", logging.Error(err))
		return nil, err
	}
	if token := strings.TrimSpace(resp.Token); token != "" {
		if err := s.session.SetToken(ctx, token); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// SignIn posts credentials. On success:true the token is persisted; any other
// reply is returned untouched.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	var resp SignInResponse
	if err := s.client.Post(ctx, signInPath, req, &resp); err != nil {
		s.log(ctx).Warn("signin failed", logging.Error(err))
		return nil, err
	}
	if !resp.Succeeded() {
		return &resp, nil
	}
	if strings.TrimSpace(resp.Token) == "" {
		return nil, services.Wrap(services.ErrUnknown, "POST "+signInPath, "response missing token", nil)
	}
	if err := s.session.SetToken(ctx, resp.Token); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword requests a reset code for email.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*Ack, error) {
	return s.ack(ctx, forgotPasswordPath, ForgotPasswordRequest{Email: strings.TrimSpace(email)})
}

// VerifyOTP checks a one-time code sent to email.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (*Ack, error) {
	return s.ack(ctx, verifyOTPPath, VerifyOTPRequest{Email: strings.TrimSpace(email), OTP: strings.TrimSpace(otp)})
}

// ResetPassword sets a new password using a verified code.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) (*Ack, error) {
	return s.ack(ctx, resetPasswordPath, ResetPasswordRequest{
		Email:       strings.TrimSpace(email),
		Code:        strings.TrimSpace(code),
		NewPassword: newPassword,
	})
}

func (s *Service) ack(ctx context.Context, path string, body any) (*Ack, error) {
	var resp Ack
	if err := s.client.Post(ctx, path, body, &resp); err != nil {
		s.log(ctx).Warn("request failed", logging.String(logging.FieldOperation, path), logging.Error(err))
		return nil, err
	}
	return &resp, nil
}

// Login signs in with trimmed credentials. It returns (nil, nil) when the
// server answers without success:true; nothing is persisted in that case.
func (s *Service) Login(ctx context.Context, email, password string) (*session.User, error) {
	email = strings.TrimSpace(email)
	resp, err := s.SignIn(ctx, SignInRequest{Email: email, Password: strings.TrimSpace(password)})
	if err != nil {
		return nil, err
	}
	if !resp.Succeeded() {
		s.log(ctx).Info("signin rejected", logging.String("message", resp.Message))
		return nil, nil
	}

	user := userFromSignIn(email, resp)
	if err := s.session.SetUser(ctx, user); err != nil {
		return nil, err
	}
	return s.refreshOrKeep(ctx, user), nil
}

// Register signs up and, when the reply carries data, caches a user built
// from the submitted names. It returns nil when no user could be built.
func (s *Service) Register(ctx context.Context, firstName, lastName, email string) (*session.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)

	resp, err := s.SignUp(ctx, SignUpRequest{FirstName: firstName, LastName: lastName, Email: email})
	if err != nil {
		return nil, err
	}
	// A token without account data still needs a cached user, otherwise the
	// next Restore treats the stored token as a signed-out session.
	if resp.Data == nil && !s.session.Authenticated(ctx) {
		return nil, nil
	}

	id := unknownID
	if resp.Data != nil {
		if v := resp.Data.identifier(); v != "" {
			id = v
		}
	}
	user := &session.User{
		ID:        id,
		Email:     email,
		Name:      strings.TrimSpace(firstName + " " + lastName),
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.session.SetUser(ctx, user); err != nil {
		return nil, err
	}
	if !s.session.Authenticated(ctx) {
		return user, nil
	}
	return s.refreshOrKeep(ctx, user), nil
}

// Refresh fetches the profile, merges it into the cached user and persists
// the result.
func (s *Service) Refresh(ctx context.Context) (*session.User, error) {
	p, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, err
	}
	merged := profile.Merge(s.session.User(), p)
	if err := s.session.SetUser(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Restore loads the persisted session and validates it against the profile
// endpoint. It returns nil when there is no usable session. A rejected token
// clears the session; other failures keep the cached user.
func (s *Service) Restore(ctx context.Context) (*session.User, error) {
	if err := s.session.Load(ctx); err != nil {
		return nil, err
	}
	cached := s.session.User()
	if !s.session.Authenticated(ctx) || cached == nil {
		return nil, nil
	}

	user, err := s.Refresh(ctx)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, services.ErrAuth):
		if clearErr := s.session.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("clear rejected session: %w", clearErr)
		}
		s.log(ctx).Info("stored session rejected by server")
		return nil, nil
	default:
		s.log(ctx).Warn("profile refresh failed; using cached user", logging.Error(err))
		return cached, nil
	}
}

// Logout clears the token and cached user.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

// CurrentUser returns the cached user, or nil when signed out.
func (s *Service) CurrentUser(ctx context.Context) *session.User {
	if !s.session.Authenticated(ctx) {
		return nil
	}
	return s.session.User()
}

func (s *Service) refreshOrKeep(ctx context.Context, basic *session.User) *session.User {
	user, err := s.Refresh(ctx)
	if err != nil {
		s.log(ctx).Warn("profile refresh failed; keeping basic user", logging.Error(err))
		return basic
	}
	return user
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}

// userFromSignIn builds the cached user from a sign-in reply, preferring the
// embedded user object and falling back to the submitted email and userId.
func userFromSignIn(email string, resp *SignInResponse) *session.User {
	src := resp.User
	if src == nil {
		src = &SignInUser{Email: email, ID: resp.UserID}
	}

	id := firstNonEmpty(src.ID, src.MongoID, resp.UserID, unknownID)
	userEmail := firstNonEmpty(src.Email, email)
	name := strings.TrimSpace(src.Name)
	if name == "" {
		if src.FirstName != "" && src.LastName != "" {
			name = src.FirstName + " " + src.LastName
		} else {
			name, _, _ = strings.Cut(email, "@")
		}
	}

	return &session.User{
		ID:         id,
		Email:      userEmail,
		Name:       name,
		FirstName:  src.FirstName,
		LastName:   src.LastName,
		Role:       src.Role,
		Status:     src.Status,
		IsApproved: src.IsApproved,
		AuthMethod: src.AuthMethod,
		CreatedAt:  src.CreatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
