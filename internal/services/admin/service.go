package admin

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"pitchclerk/internal/logging"
	"pitchclerk/internal/services"
)

const (
	usersPath   = "account/users"
	pitchesPath = "pitch/admin/all"
	success     = "success"
)

// Client is the subset of the gateway the admin service needs.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
}

// Service performs administrator calls.
type Service struct {
	client Client
	logger *slog.Logger
}

// New constructs an admin Service.
func New(client Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logging.NewComponentLogger(logger, "admin")}
}

// ListUsers fetches every account. An envelope whose status is not "success"
// yields an empty list.
func (s *Service) ListUsers(ctx context.Context) (*UsersResponse, error) {
	var resp UsersResponse
	if err := s.client.Get(ctx, usersPath, &resp); err != nil {
		s.log(ctx).Warn("list users failed", logging.Error(err))
		return nil, err
	}
	if resp.Status != success {
		resp.Data = nil
	}
	s.log(ctx).Debug("users listed", logging.Int("count", len(resp.Data)))
	return &resp, nil
}

// ApproveUser approves the account with id.
func (s *Service) ApproveUser(ctx context.Context, id string) (*StatusResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.NewValidationError("approve user", "A user id is required.")
	}
	var resp StatusResponse
	if err := s.client.Post(ctx, "account/users/approve/"+url.PathEscape(id), nil, &resp); err != nil {
		s.log(ctx).Warn("approve user failed", logging.String("user_id", id), logging.Error(err))
		return nil, err
	}
	s.log(ctx).Info("user approved", logging.String("user_id", id))
	return &resp, nil
}

// ListPitches fetches every pitch. An envelope whose status is not "success"
// yields an empty list.
func (s *Service) ListPitches(ctx context.Context) (*PitchesResponse, error) {
	var resp PitchesResponse
	if err := s.client.Get(ctx, pitchesPath, &resp); err != nil {
		s.log(ctx).Warn("list pitches failed", logging.Error(err))
		return nil, err
	}
	if resp.Status != success {
		resp.Data = nil
	}
	s.log(ctx).Debug("pitches listed", logging.Int("count", len(resp.Data)))
	return &resp, nil
}

// UpdatePitchStatus requests a status transition. Statuses other than
// approved and declined are rejected before any network call.
func (s *Service) UpdatePitchStatus(ctx context.Context, id string, status PitchStatus) (*StatusResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.NewValidationError("update pitch status", "A pitch id is required.")
	}
	parsed, err := ParsePitchStatus(string(status))
	if err != nil {
		return nil, services.NewValidationError("update pitch status", err.Error())
	}

	body := struct {
		Status PitchStatus `json:"status"`
	}{Status: parsed}
	var resp StatusResponse
	if err := s.client.Patch(ctx, "pitch/admin/"+url.PathEscape(id)+"/status", body, &resp); err != nil {
		s.log(ctx).Warn("update pitch status failed", logging.String("pitch_id", id), logging.Error(err))
		return nil, err
	}
	s.log(ctx).Info("pitch status updated", logging.String("pitch_id", id), logging.String("status", string(parsed)))
	return &resp, nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}
