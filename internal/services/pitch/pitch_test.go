package pitch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"pitchclerk/internal/gateway"
	"pitchclerk/internal/services"
)

type stubUploader struct {
	path string
	form *gateway.Form
	body string
	err  error
}

func (s *stubUploader) PostMultipart(_ context.Context, path string, form *gateway.Form, out any) error {
	s.path = path
	s.form = form
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.body), out)
}

func TestCreateReturnsPaymentLink(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "top level", body: `{"status":"success","paymentLink":"https://pay.example/1"}`, want: "https://pay.example/1"},
		{name: "nested", body: `{"status":"success","data":{"_id":"p1","paymentLink":"https://pay.example/2"}}`, want: "https://pay.example/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubUploader{body: tt.body}
			form := &gateway.Form{}
			form.Add("pitchType", "Pitch for advance")

			result, err := New(stub, nil).Create(context.Background(), form)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if result.PaymentLink != tt.want {
				t.Fatalf("payment link = %q, want %q", result.PaymentLink, tt.want)
			}
			if stub.path != "pitch/new" || stub.form != form {
				t.Fatalf("unexpected upload path=%q form=%p", stub.path, stub.form)
			}
		})
	}
}

func TestCreateWithoutPaymentLink(t *testing.T) {
	stub := &stubUploader{body: `{"status":"success"}`}
	if _, err := New(stub, nil).Create(context.Background(), &gateway.Form{}); !errors.Is(err, services.ErrUnknown) {
		t.Fatalf("error = %v, want ErrUnknown", err)
	}
}

func TestCreatePropagatesValidationError(t *testing.T) {
	stub := &stubUploader{err: &services.APIError{Kind: services.ErrValidation, Message: "Cover photo is required"}}
	_, err := New(stub, nil).Create(context.Background(), &gateway.Form{})
	if got := services.UserMessage(err, ""); got != "Cover photo is required" {
		t.Fatalf("user message = %q", got)
	}
}
