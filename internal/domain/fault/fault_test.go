package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := Conflict("shift_overlap", "overlaps an existing shift")
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict kind, got %s", KindOf(err))
	}
	if CodeOf(err) != "shift_overlap" {
		t.Fatalf("expected shift_overlap code, got %s", CodeOf(err))
	}
}

func TestKindOfWrappedError(t *testing.T) {
	inner := Validation("invalid_time_label", "bad label")
	wrapped := fmt.Errorf("create shift: %w", inner)
	if KindOf(wrapped) != KindValidation {
		t.Fatalf("expected validation kind through wrap, got %s", KindOf(wrapped))
	}
	if !IsKind(wrapped, KindValidation) {
		t.Fatal("expected IsKind to see through fmt wrapping")
	}
}

func TestForeignErrorIsInternal(t *testing.T) {
	err := errors.New("pool exhausted")
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal kind, got %s", KindOf(err))
	}
	if CodeOf(err) != "internal_error" {
		t.Fatalf("expected internal_error code, got %s", CodeOf(err))
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("row scan failed")
	err := Wrap(cause, KindInternal, "internal_error", "load schedule failed")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to satisfy errors.Is")
	}
	if err.Error() != "load schedule failed: row scan failed" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
