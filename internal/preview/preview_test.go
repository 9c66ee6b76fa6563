package preview

import "testing"

// TestNewGenerator_DPI tests that the configured resolution reaches the
// rasterizer, with a sane fallback for unset values
func TestNewGenerator_DPI(t *testing.T) {
	if got := NewGenerator(140).DPI(); got != 140 {
		t.Errorf("Expected DPI 140, got %d", got)
	}
	if got := NewGenerator(0).DPI(); got != 100 {
		t.Errorf("Expected fallback DPI 100, got %d", got)
	}
	if got := NewGenerator(-5).DPI(); got != 100 {
		t.Errorf("Expected fallback DPI 100 for negative input, got %d", got)
	}
}
