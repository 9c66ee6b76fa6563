package langpack

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pdf-translator/internal/types"
)

func newFastCatalog(url string) *HTTPCatalog {
	return NewHTTPCatalogWithTimeout(url, 5*time.Second)
}

// TestHTTPCatalog_AvailablePackages tests parsing of a served index
func TestHTTPCatalog_AvailablePackages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"from_code":"es","to_code":"en","name":"Spanish to English","download_url":"https://example.invalid/es_en.zip"},
			{"from_code":"en","to_code":"es","download_url":"https://example.invalid/en_es.zip"}
		]`))
	}))
	defer server.Close()

	packages, err := newFastCatalog(server.URL).AvailablePackages(context.Background())
	if err != nil {
		t.Fatalf("AvailablePackages failed: %v", err)
	}

	if len(packages) != 2 {
		t.Fatalf("Expected 2 packages, got %d", len(packages))
	}
	if packages[0].FromCode != "es" || packages[0].ToCode != "en" {
		t.Errorf("Unexpected first package: %+v", packages[0])
	}
	if packages[0].Pair().String() != "es->en" {
		t.Errorf("Unexpected pair: %s", packages[0].Pair())
	}
}

// TestHTTPCatalog_InvalidIndex tests the error for a malformed index body
func TestHTTPCatalog_InvalidIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newFastCatalog(server.URL).AvailablePackages(context.Background())
	if err == nil {
		t.Fatal("Expected error for invalid index, got nil")
	}
	if types.CodeOf(err) != types.ErrNetwork {
		t.Errorf("Expected error code %s, got %s", types.ErrNetwork, types.CodeOf(err))
	}
}

// TestHTTPCatalog_EmptyURL tests the configuration error for a blank index URL
func TestHTTPCatalog_EmptyURL(t *testing.T) {
	_, err := newFastCatalog("").AvailablePackages(context.Background())
	if err == nil {
		t.Fatal("Expected error for empty URL, got nil")
	}
	if types.CodeOf(err) != types.ErrConfig {
		t.Errorf("Expected error code %s, got %s", types.ErrConfig, types.CodeOf(err))
	}
}

// TestHTTPCatalog_Download tests that the archive lands in a temporary file
func TestHTTPCatalog_Download(t *testing.T) {
	payload := []byte("archive-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "PDF-Translator/1.0" {
			t.Errorf("Unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		w.Write(payload)
	}))
	defer server.Close()

	desc := PackageDescriptor{FromCode: "es", ToCode: "en", DownloadURL: server.URL + "/es_en.zip"}
	path, err := newFastCatalog(server.URL).Download(context.Background(), desc)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Downloaded content mismatch: got %q", data)
	}
}

// TestHTTPCatalog_DownloadMissingURL tests the rejection of a descriptor
// without a download URL
func TestHTTPCatalog_DownloadMissingURL(t *testing.T) {
	desc := PackageDescriptor{FromCode: "es", ToCode: "en"}
	_, err := newFastCatalog("https://example.invalid/index.json").Download(context.Background(), desc)
	if err == nil {
		t.Fatal("Expected error for missing download URL, got nil")
	}

	appErr, ok := err.(*types.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrInvalidInput {
		t.Errorf("Expected error code %s, got %s", types.ErrInvalidInput, appErr.Code)
	}
	if appErr.Details != "es->en" {
		t.Errorf("Expected details to name the pair, got %q", appErr.Details)
	}
}

// TestExtractZipArchive tests extraction including nested entries
func TestExtractZipArchive(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "pkg.zip")
	file, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	w := zip.NewWriter(file)
	for name, content := range map[string]string{
		"metadata.json":   `{"from_code":"es","to_code":"en"}`,
		"model/weights.b": "binary",
	} {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create entry: %v", err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close archive: %v", err)
	}
	file.Close()

	destDir := filepath.Join(t.TempDir(), "es_en")
	if err := extractZipArchive(archivePath, destDir); err != nil {
		t.Fatalf("extractZipArchive failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(destDir, "model", "weights.b"))
	if err != nil {
		t.Fatalf("Extracted file missing: %v", err)
	}
	if string(data) != "binary" {
		t.Errorf("Extracted content mismatch: %q", data)
	}
}

// TestSanitizePath_RejectsEscape tests the zip-slip guard
func TestSanitizePath_RejectsEscape(t *testing.T) {
	if _, err := sanitizePath("/tmp/dest", "../outside.txt"); err == nil {
		t.Error("Expected error for escaping entry, got nil")
	}
	if _, err := sanitizePath("/tmp/dest", "inside/ok.txt"); err != nil {
		t.Errorf("Unexpected error for contained entry: %v", err)
	}
}
