package logging

import (
	"context"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "req-123"

	ctx = WithRequestID(ctx, requestID)
	got := GetRequestID(ctx)

	if got != requestID {
		t.Errorf("GetRequestID() = %q, want %q", got, requestID)
	}
}

func TestWithField(t *testing.T) {
	ctx := WithField(context.Background(), "razor")

	if got := GetField(ctx); got != "razor" {
		t.Errorf("GetField() = %q, want %q", got, "razor")
	}
}

func TestGetters_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID() = %q, want empty string", got)
	}
	if got := GetField(ctx); got != "" {
		t.Errorf("GetField() = %q, want empty string", got)
	}
}
