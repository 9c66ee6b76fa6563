package render

import (
	"path/filepath"
	"testing"

	"pdf-translator/internal/types"
)

// TestRender_EmptyOutputPath tests that rendering without a destination fails
func TestRender_EmptyOutputPath(t *testing.T) {
	renderer := NewRenderer("")
	_, err := renderer.Render("some text", "")
	if err == nil {
		t.Fatal("Expected error for empty output path, got nil")
	}

	appErr, ok := err.(*types.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrRenderFailed {
		t.Errorf("Expected error code %s, got %s", types.ErrRenderFailed, appErr.Code)
	}
}

// TestRender_BlankText tests that all-blank input fails rather than
// producing an empty document
func TestRender_BlankText(t *testing.T) {
	renderer := NewRenderer("")
	outputPath := filepath.Join(t.TempDir(), "out.pdf")

	for _, input := range []string{"", "   \n\n \n"} {
		_, err := renderer.Render(input, outputPath)
		if err == nil {
			t.Fatalf("Expected error for blank input %q, got nil", input)
		}
		appErr, ok := err.(*types.AppError)
		if !ok {
			t.Fatalf("Expected AppError, got %T", err)
		}
		if appErr.Code != types.ErrRenderFailed {
			t.Errorf("Expected error code %s, got %s", types.ErrRenderFailed, appErr.Code)
		}
	}
}

// TestRender_MissingConfiguredFont tests that a configured but absent font
// path fails with a render error naming the path
func TestRender_MissingConfiguredFont(t *testing.T) {
	renderer := NewRenderer("/no/such/font.ttf")
	outputPath := filepath.Join(t.TempDir(), "out.pdf")

	_, err := renderer.Render("hello", outputPath)
	if err == nil {
		t.Fatal("Expected error for missing font, got nil")
	}

	appErr, ok := err.(*types.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrRenderFailed {
		t.Errorf("Expected error code %s, got %s", types.ErrRenderFailed, appErr.Code)
	}
	if appErr.Details != "/no/such/font.ttf" {
		t.Errorf("Expected details to name the font path, got %q", appErr.Details)
	}
}
