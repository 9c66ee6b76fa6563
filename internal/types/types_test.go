package types

import (
	"errors"
	"testing"
)

// TestAppError_Error tests message formatting across the error shapes
func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "MessageOnly",
			err:  NewAppError(ErrNoTextFound, "no extractable text", nil),
			want: "no extractable text",
		},
		{
			name: "WithDetails",
			err:  NewAppErrorWithDetails(ErrResourceUnavailable, "no language package available", "fr->ja", nil),
			want: "no language package available: fr->ja",
		},
		{
			name: "WithCause",
			err:  NewAppError(ErrNetwork, "network request failed", errors.New("connection refused")),
			want: "network request failed: connection refused",
		},
		{
			name: "WithPage",
			err:  NewPageError(ErrAcquisitionFailed, "text recognition failed", 3, nil),
			want: "text recognition failed (page 3)",
		},
		{
			name: "WithPageAndCause",
			err:  NewPageError(ErrAcquisitionFailed, "text recognition failed", 7, errors.New("engine crashed")),
			want: "text recognition failed (page 7): engine crashed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestAppError_Unwrap tests errors.Is through the cause chain
func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewAppError(ErrTranslationFailed, "translation failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
	if NewAppError(ErrInternal, "no cause", nil).Unwrap() != nil {
		t.Error("Expected nil Unwrap without a cause")
	}
}

// TestCodeOf tests code extraction from arbitrary errors
func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewAppError(ErrPipelineBusy, "busy", nil)); got != ErrPipelineBusy {
		t.Errorf("Expected %s, got %s", ErrPipelineBusy, got)
	}
	if got := CodeOf(errors.New("plain")); got != ErrInternal {
		t.Errorf("Expected %s for plain error, got %s", ErrInternal, got)
	}
}

// TestLanguagePair_String tests the directed pair form
func TestLanguagePair_String(t *testing.T) {
	pair := LanguagePair{Source: "es", Target: "en"}
	if pair.String() != "es->en" {
		t.Errorf("Expected es->en, got %s", pair.String())
	}
	reversed := LanguagePair{Source: "en", Target: "es"}
	if pair.String() == reversed.String() {
		t.Error("Direction must be part of the pair identity")
	}
}
