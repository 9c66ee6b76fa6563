package langpack

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

const (
	// DefaultTimeout is the default HTTP client timeout for catalog and
	// package downloads. Generous because language packages run to tens of
	// megabytes.
	DefaultTimeout = 300 * time.Second
	// MaxRetries is the maximum number of retry attempts for network errors
	MaxRetries = 3
	// BaseRetryDelay is the base delay between retries (multiplied by attempt number)
	BaseRetryDelay = 2 * time.Second
)

// HTTPCatalog fetches the package index and package archives over HTTP.
type HTTPCatalog struct {
	indexURL   string
	httpClient *http.Client
}

// NewHTTPCatalog creates an HTTPCatalog for the given index URL.
func NewHTTPCatalog(indexURL string) *HTTPCatalog {
	return &HTTPCatalog{
		indexURL: indexURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return types.NewAppError(types.ErrNetwork, "too many redirects", nil)
				}
				return nil
			},
		},
	}
}

// NewHTTPCatalogWithTimeout creates an HTTPCatalog with a custom timeout.
func NewHTTPCatalogWithTimeout(indexURL string, timeout time.Duration) *HTTPCatalog {
	c := NewHTTPCatalog(indexURL)
	c.httpClient.Timeout = timeout
	return c
}

// AvailablePackages downloads and parses the catalog index.
func (c *HTTPCatalog) AvailablePackages(ctx context.Context) ([]PackageDescriptor, error) {
	logger.Debug("fetching package index", logger.String("url", c.indexURL))

	if c.indexURL == "" {
		return nil, types.NewAppError(types.ErrConfig, "catalog URL is not configured", nil)
	}

	body, err := c.fetchWithRetry(ctx, c.indexURL)
	if err != nil {
		return nil, err
	}

	var packages []PackageDescriptor
	if err := json.Unmarshal(body, &packages); err != nil {
		return nil, types.NewAppError(types.ErrNetwork, "invalid package index format", err)
	}

	logger.Info("package index fetched", logger.Int("packages", len(packages)))
	return packages, nil
}

// Download fetches a package archive into a temporary file and returns its path.
// The caller removes the file after installing.
func (c *HTTPCatalog) Download(ctx context.Context, desc PackageDescriptor) (string, error) {
	if desc.DownloadURL == "" {
		return "", types.NewAppErrorWithDetails(types.ErrInvalidInput, "package has no download URL", desc.Pair().String(), nil)
	}

	tmpFile, err := os.CreateTemp("", fmt.Sprintf("langpack_%s_%s_*.zip", desc.FromCode, desc.ToCode))
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to create temporary file", err)
	}
	tmpFile.Close()

	if err := c.downloadWithRetry(ctx, desc.DownloadURL, tmpFile.Name()); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}

	return tmpFile.Name(), nil
}

// fetchWithRetry downloads a small resource into memory with retries.
func (c *HTTPCatalog) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= MaxRetries; attempt++ {
		logger.Debug("fetch attempt", logger.Int("attempt", attempt), logger.String("url", url))

		body, err := c.fetch(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = err
		logger.Warn("fetch attempt failed", logger.Int("attempt", attempt), logger.Err(err))

		if ctx.Err() != nil {
			return nil, types.NewAppError(types.ErrNetwork, "catalog fetch aborted", ctx.Err())
		}
		if attempt < MaxRetries {
			time.Sleep(BaseRetryDelay * time.Duration(attempt))
		}
	}

	return nil, types.NewAppErrorWithDetails(
		types.ErrNetwork,
		"catalog fetch failed after multiple retries",
		fmt.Sprintf("attempted %d times", MaxRetries),
		lastErr,
	)
}

func (c *HTTPCatalog) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to create HTTP request", err)
	}
	req.Header.Set("User-Agent", "PDF-Translator/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, types.NewAppError(types.ErrNetwork, "network request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppErrorWithDetails(
			types.ErrNetwork,
			"unexpected HTTP status",
			fmt.Sprintf("%d from %s", resp.StatusCode, url),
			nil,
		)
	}

	return io.ReadAll(resp.Body)
}

// downloadWithRetry streams a resource to destPath with retries.
func (c *HTTPCatalog) downloadWithRetry(ctx context.Context, url, destPath string) error {
	var lastErr error

	for attempt := 1; attempt <= MaxRetries; attempt++ {
		logger.Debug("download attempt", logger.Int("attempt", attempt), logger.String("url", url))

		err := c.downloadFile(ctx, url, destPath)
		if err == nil {
			return nil
		}

		lastErr = err
		logger.Warn("download attempt failed", logger.Int("attempt", attempt), logger.Err(err))

		if ctx.Err() != nil {
			return types.NewAppError(types.ErrNetwork, "download aborted", ctx.Err())
		}
		if attempt < MaxRetries {
			delay := BaseRetryDelay * time.Duration(attempt)
			logger.Debug("retrying after delay", logger.String("delay", delay.String()))
			time.Sleep(delay)
		}
	}

	logger.Error("download failed after all retries", lastErr, logger.String("url", url))
	return types.NewAppErrorWithDetails(
		types.ErrNetwork,
		"download failed after multiple retries",
		fmt.Sprintf("attempted %d times", MaxRetries),
		lastErr,
	)
}

// downloadFile performs the actual HTTP download and saves the content to a file.
func (c *HTTPCatalog) downloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.NewAppError(types.ErrInternal, "failed to create HTTP request", err)
	}
	req.Header.Set("User-Agent", "PDF-Translator/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.NewAppError(types.ErrNetwork, "network request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.NewAppErrorWithDetails(
			types.ErrNetwork,
			"unexpected HTTP status",
			fmt.Sprintf("%d from %s", resp.StatusCode, url),
			nil,
		)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return types.NewAppError(types.ErrInternal, "failed to create destination file", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(destPath)
		return types.NewAppError(types.ErrNetwork, "failed to save downloaded content", err)
	}

	return nil
}

// extractZipArchive extracts a package archive into destDir.
func extractZipArchive(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	for _, file := range reader.File {
		targetPath, err := sanitizePath(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", file.Name, err)
			}
			continue
		}

		if err := extractZipEntry(file, targetPath); err != nil {
			return err
		}
	}

	return nil
}

func extractZipEntry(file *zip.File, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", file.Name, err)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", targetPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", file.Name, err)
	}

	return nil
}

// sanitizePath guards against zip-slip entries escaping destDir.
func sanitizePath(destDir, entryName string) (string, error) {
	targetPath := filepath.Join(destDir, entryName)
	if !strings.HasPrefix(targetPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination directory: %s", entryName)
	}
	return targetPath, nil
}
