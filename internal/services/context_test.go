package services_test

import (
	"context"
	"testing"

	"pitchclerk/internal/services"
)

func TestRequestIDHelpers(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "req-123")
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}

	same, id := services.EnsureRequestID(ctx)
	if id != "req-123" || same != ctx {
		t.Fatalf("expected existing id to be kept, got %q", id)
	}
}

func TestEnsureRequestIDMintsWhenMissing(t *testing.T) {
	ctx, id := services.EnsureRequestID(context.Background())
	if id == "" {
		t.Fatal("expected minted id")
	}
	if got, ok := services.RequestIDFromContext(ctx); !ok || got != id {
		t.Fatalf("expected minted id on context, got %q %v", got, ok)
	}
}

func TestBlankRequestIDPreservesContext(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected blank id to be ignored")
	}
}
