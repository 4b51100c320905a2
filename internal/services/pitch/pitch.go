// Package pitch submits a completed pitch draft to the API.
package pitch

import (
	"context"
	"log/slog"
	"strings"

	"pitchclerk/internal/gateway"
	"pitchclerk/internal/logging"
	"pitchclerk/internal/services"
)

const createPath = "pitch/new"

// Uploader is the subset of the gateway the pitch service needs.
type Uploader interface {
	PostMultipart(ctx context.Context, path string, form *gateway.Form, out any) error
}

// CreateResult is the parsed pitch/new reply.
type CreateResult struct {
	Status      string
	Message     string
	PitchID     string
	PaymentLink string
}

type createResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	PaymentLink string `json:"paymentLink"`
	Data        *struct {
		ID          string `json:"_id"`
		PaymentLink string `json:"paymentLink"`
	} `json:"data"`
}

// Service wraps the pitch creation endpoint.
type Service struct {
	client Uploader
	logger *slog.Logger
}

// New constructs a pitch Service.
func New(client Uploader, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logging.NewComponentLogger(logger, "pitch")}
}

// Create uploads form to pitch/new. A reply without a payment link is
// ErrUnknown since there is nowhere to send the user.
func (s *Service) Create(ctx context.Context, form *gateway.Form) (*CreateResult, error) {
	logger := logging.WithContext(ctx, s.logger)
	var resp createResponse
	if err := s.client.PostMultipart(ctx, createPath, form, &resp); err != nil {
		logger.Warn("pitch creation failed", logging.Error(err))
		return nil, err
	}

	result := &CreateResult{
		Status:      resp.Status,
		Message:     resp.Message,
		PaymentLink: strings.TrimSpace(resp.PaymentLink),
	}
	if resp.Data != nil {
		result.PitchID = resp.Data.ID
		if result.PaymentLink == "" {
			result.PaymentLink = strings.TrimSpace(resp.Data.PaymentLink)
		}
	}
	if result.PaymentLink == "" {
		return nil, services.Wrap(services.ErrUnknown, "POST "+createPath, "response missing payment link", nil)
	}
	logger.Info("pitch created", logging.String("pitch_id", result.PitchID))
	return result, nil
}
