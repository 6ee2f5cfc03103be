package repo

import (
	"context"
	"errors"
	"testing"

	errs "gobot/internal/errors"
)

func TestMemorySessionStorage(t *testing.T) {
	s := NewMemorySessionStorage()
	ctx := context.Background()

	if err := s.MarkHandled(ctx, 7, "19/19", "d4"); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := s.MarkHandled(ctx, 7, "19/19", "d4"); !errors.Is(err, errs.ErrAlreadyHandled) {
		t.Errorf("second mark: err = %v, want ErrAlreadyHandled", err)
	}
	if handled, _ := s.IsHandled(ctx, 7, "19/19"); !handled {
		t.Errorf("marked position not reported as handled")
	}
	if handled, _ := s.IsHandled(ctx, 8, "19/19"); handled {
		t.Errorf("marker leaked to another session")
	}

	if err := s.MarkHandled(ctx, 7, "19/18w", "e4"); err != nil {
		t.Fatalf("next position: %v", err)
	}
	if handled, _ := s.IsHandled(ctx, 7, "19/19"); handled {
		t.Errorf("older position still reported after the game moved on")
	}

	if _, ok := s.Token(ctx); ok {
		t.Fatalf("token present before store")
	}
	_ = s.StoreToken(ctx, "tok")
	if tok, ok := s.Token(ctx); !ok || tok != "tok" {
		t.Errorf("Token = %q, %v", tok, ok)
	}
	_ = s.DropToken(ctx)
	if _, ok := s.Token(ctx); ok {
		t.Errorf("token still present after drop")
	}
}
