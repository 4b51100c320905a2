package profile

import (
	"context"
	"log/slog"
	"strings"

	"pitchclerk/internal/logging"
	"pitchclerk/internal/services"
	"pitchclerk/internal/session"
)

const profilePath = "account/profile"

// Getter is the subset of the gateway the profile service needs.
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// Profile is the account record returned by account/profile.
type Profile struct {
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

// Identifier returns whichever id field the server populated.
func (p *Profile) Identifier() string {
	if p == nil {
		return ""
	}
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	return strings.TrimSpace(p.MongoID)
}

type envelope struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    *Profile `json:"data"`
}

// Service wraps the profile endpoint.
type Service struct {
	client Getter
	logger *slog.Logger
}

// New constructs a profile Service.
func New(client Getter, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logging.NewComponentLogger(logger, "profile")}
}

// Get fetches the current profile. A response without data is reported as
// ErrUnknown.
func (s *Service) Get(ctx context.Context) (*Profile, error) {
	var resp envelope
	if err := s.client.Get(ctx, profilePath, &resp); err != nil {
		logging.WithContext(ctx, s.logger).Warn("profile fetch failed", logging.Error(err))
		return nil, err
	}
	if resp.Data == nil {
		return nil, services.Wrap(services.ErrUnknown, "GET "+profilePath, "response missing profile data", nil)
	}
	logging.WithContext(ctx, s.logger).Debug("profile fetched", logging.String("email", resp.Data.Email))
	return resp.Data, nil
}

// Merge overlays the non-empty profile fields onto a copy of cached. The name
// is taken from the profile, then built from first and last name, then kept
// from cached, then "User".
func Merge(cached *session.User, p *Profile) *session.User {
	merged := &session.User{}
	if cached != nil {
		*merged = *cached
	}
	if p == nil {
		return merged
	}

	overlay := func(dst *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*dst = value
		}
	}
	overlay(&merged.ID, p.Identifier())
	overlay(&merged.Email, p.Email)
	overlay(&merged.FirstName, p.FirstName)
	overlay(&merged.LastName, p.LastName)
	overlay(&merged.Role, p.Role)
	overlay(&merged.Status, p.Status)
	overlay(&merged.AuthMethod, p.AuthMethod)
	overlay(&merged.CreatedAt, p.CreatedAt)
	if p.IsApproved {
		merged.IsApproved = true
	}

	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	switch {
	case strings.TrimSpace(p.Name) != "":
		merged.Name = strings.TrimSpace(p.Name)
	case first != "" && last != "":
		merged.Name = first + " " + last
	case strings.TrimSpace(merged.Name) == "":
		merged.Name = "User"
	}
	return merged
}
