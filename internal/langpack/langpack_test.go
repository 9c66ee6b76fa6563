package langpack

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"pdf-translator/internal/types"
)

// fakeCatalog serves canned descriptors and counts network-like operations.
type fakeCatalog struct {
	packages      []PackageDescriptor
	indexCalls    int
	downloadCalls int
	tempDir       string
}

func (f *fakeCatalog) AvailablePackages(ctx context.Context) ([]PackageDescriptor, error) {
	f.indexCalls++
	return f.packages, nil
}

func (f *fakeCatalog) Download(ctx context.Context, desc PackageDescriptor) (string, error) {
	f.downloadCalls++
	return writeTestArchive(f.tempDir, desc)
}

// writeTestArchive creates a minimal valid package zip.
func writeTestArchive(dir string, desc PackageDescriptor) (string, error) {
	path := filepath.Join(dir, desc.FromCode+"_"+desc.ToCode+".zip")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	w := zip.NewWriter(file)
	entry, err := w.Create("metadata.json")
	if err != nil {
		return "", err
	}
	if _, err := entry.Write([]byte(`{"from_code":"` + desc.FromCode + `","to_code":"` + desc.ToCode + `"}`)); err != nil {
		return "", err
	}
	return path, w.Close()
}

func newTestManager(t *testing.T, packages []PackageDescriptor) (*Manager, *fakeCatalog) {
	t.Helper()
	tempDir := t.TempDir()
	catalog := &fakeCatalog{packages: packages, tempDir: t.TempDir()}
	manager, err := NewManager(tempDir, catalog)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager, catalog
}

func descriptor(from, to string) PackageDescriptor {
	return PackageDescriptor{
		FromCode:    from,
		ToCode:      to,
		DownloadURL: "https://example.invalid/" + from + "_" + to + ".zip",
	}
}

// TestEnsureInstalled_InstallsMissingPair tests that an available missing
// pair is installed synchronously
func TestEnsureInstalled_InstallsMissingPair(t *testing.T) {
	manager, catalog := newTestManager(t, []PackageDescriptor{descriptor("es", "en")})

	pair := types.LanguagePair{Source: "es", Target: "en"}
	if manager.IsInstalled("es", "en") {
		t.Fatal("Pair unexpectedly installed before EnsureInstalled")
	}

	if err := manager.EnsureInstalled(context.Background(), []types.LanguagePair{pair}); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	if !manager.IsInstalled("es", "en") {
		t.Error("Pair not installed after EnsureInstalled")
	}
	if catalog.downloadCalls != 1 {
		t.Errorf("Expected 1 download, got %d", catalog.downloadCalls)
	}
}

// TestEnsureInstalled_Idempotent tests that re-invocation with installed
// pairs performs no catalog operations
func TestEnsureInstalled_Idempotent(t *testing.T) {
	manager, catalog := newTestManager(t, []PackageDescriptor{descriptor("es", "en")})

	pairs := []types.LanguagePair{{Source: "es", Target: "en"}}
	if err := manager.EnsureInstalled(context.Background(), pairs); err != nil {
		t.Fatalf("First EnsureInstalled failed: %v", err)
	}
	indexCalls, downloadCalls := catalog.indexCalls, catalog.downloadCalls

	if err := manager.EnsureInstalled(context.Background(), pairs); err != nil {
		t.Fatalf("Second EnsureInstalled failed: %v", err)
	}

	if catalog.indexCalls != indexCalls || catalog.downloadCalls != downloadCalls {
		t.Errorf("Expected no catalog activity on re-invocation; index %d->%d downloads %d->%d",
			indexCalls, catalog.indexCalls, downloadCalls, catalog.downloadCalls)
	}
}

// TestEnsureInstalled_UnavailablePair tests the RESOURCE_UNAVAILABLE failure
// for a pair with no catalog package
func TestEnsureInstalled_UnavailablePair(t *testing.T) {
	manager, _ := newTestManager(t, []PackageDescriptor{descriptor("es", "en")})

	err := manager.EnsureInstalled(context.Background(), []types.LanguagePair{{Source: "fr", Target: "ja"}})
	if err == nil {
		t.Fatal("Expected error for unavailable pair, got nil")
	}

	appErr, ok := err.(*types.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrResourceUnavailable {
		t.Errorf("Expected error code %s, got %s", types.ErrResourceUnavailable, appErr.Code)
	}
	if appErr.Details != "fr->ja" {
		t.Errorf("Expected details to name the pair, got %q", appErr.Details)
	}
}

// TestEnsureInstalled_MultiplePairs tests that distinct pairs all end up
// installed regardless of install order
func TestEnsureInstalled_MultiplePairs(t *testing.T) {
	manager, _ := newTestManager(t, []PackageDescriptor{
		descriptor("es", "en"), descriptor("en", "es"),
		descriptor("de", "en"), descriptor("en", "de"),
	})

	pairs := []types.LanguagePair{
		{Source: "es", Target: "en"}, {Source: "en", Target: "es"},
		{Source: "de", Target: "en"}, {Source: "en", Target: "de"},
	}
	if err := manager.EnsureInstalled(context.Background(), pairs); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	for _, pair := range pairs {
		if !manager.IsInstalled(pair.Source, pair.Target) {
			t.Errorf("Pair %s not installed", pair)
		}
	}
}

// TestIsInstalled_DirectPathOnly tests that transitive paths do not count
func TestIsInstalled_DirectPathOnly(t *testing.T) {
	manager, _ := newTestManager(t, []PackageDescriptor{
		descriptor("zh", "es"), descriptor("es", "en"),
	})

	pairs := []types.LanguagePair{
		{Source: "zh", Target: "es"}, {Source: "es", Target: "en"},
	}
	if err := manager.EnsureInstalled(context.Background(), pairs); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	if manager.IsInstalled("zh", "en") {
		t.Error("zh->en should not be installed: only a pivot path exists")
	}
	// Direction matters too
	if manager.IsInstalled("en", "es") {
		t.Error("en->es should not be installed: only es->en is")
	}
}

// TestManager_ManifestPersistence tests that the installed set survives a
// manager restart
func TestManager_ManifestPersistence(t *testing.T) {
	tempDir := t.TempDir()
	catalog := &fakeCatalog{packages: []PackageDescriptor{descriptor("ko", "en")}, tempDir: t.TempDir()}

	manager, err := NewManager(tempDir, catalog)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := manager.EnsureInstalled(context.Background(), []types.LanguagePair{{Source: "ko", Target: "en"}}); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	reloaded, err := NewManager(tempDir, catalog)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if !reloaded.IsInstalled("ko", "en") {
		t.Error("Installed pair lost after reload")
	}
}

// TestInstalledLanguages_NamesAndTargets tests the installed-language view
func TestInstalledLanguages_NamesAndTargets(t *testing.T) {
	manager, _ := newTestManager(t, []PackageDescriptor{
		descriptor("es", "en"), descriptor("es", "de"),
	})

	pairs := []types.LanguagePair{
		{Source: "es", Target: "en"}, {Source: "es", Target: "de"},
	}
	if err := manager.EnsureInstalled(context.Background(), pairs); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	langs := manager.InstalledLanguages()
	if len(langs) != 1 {
		t.Fatalf("Expected 1 installed source language, got %d", len(langs))
	}
	if langs[0].Code != "es" {
		t.Errorf("Expected code es, got %s", langs[0].Code)
	}
	if langs[0].Name != "Spanish" {
		t.Errorf("Expected display name Spanish, got %s", langs[0].Name)
	}
	if len(langs[0].Targets) != 2 || langs[0].Targets[0] != "de" || langs[0].Targets[1] != "en" {
		t.Errorf("Unexpected targets: %v", langs[0].Targets)
	}
}

// TestHasLanguage_EitherEndpoint tests endpoint membership
func TestHasLanguage_EitherEndpoint(t *testing.T) {
	manager, _ := newTestManager(t, []PackageDescriptor{descriptor("es", "en")})
	if err := manager.EnsureInstalled(context.Background(), []types.LanguagePair{{Source: "es", Target: "en"}}); err != nil {
		t.Fatalf("EnsureInstalled failed: %v", err)
	}

	if !manager.HasLanguage("es") || !manager.HasLanguage("en") {
		t.Error("Expected both endpoints to be present")
	}
	if manager.HasLanguage("fr") {
		t.Error("fr should not be present")
	}
}

// TestEnsureInstalled_InvalidCode tests rejection of malformed codes
func TestEnsureInstalled_InvalidCode(t *testing.T) {
	manager, _ := newTestManager(t, nil)

	err := manager.EnsureInstalled(context.Background(), []types.LanguagePair{{Source: "not a code", Target: "en"}})
	if err == nil {
		t.Fatal("Expected error for invalid code, got nil")
	}
	appErr, ok := err.(*types.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrInvalidInput {
		t.Errorf("Expected error code %s, got %s", types.ErrInvalidInput, appErr.Code)
	}
}
