// Package langpack manages translation language resources: it tracks which
// language pairs are installed locally and installs missing pairs from a
// remote catalog.
package langpack

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	// ManifestFileName is the name of the installed-pair manifest kept in
	// the languages directory.
	ManifestFileName = "installed.json"
)

// Language is an installed language endpoint together with the codes it can
// translate to through a direct path.
type Language struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Targets []string `json:"targets"`
}

// PackageDescriptor describes one downloadable language package in the catalog.
type PackageDescriptor struct {
	FromCode    string `json:"from_code"`
	ToCode      string `json:"to_code"`
	Name        string `json:"name,omitempty"`
	DownloadURL string `json:"download_url"`
}

// Pair returns the language pair the package provides.
func (d PackageDescriptor) Pair() types.LanguagePair {
	return types.LanguagePair{Source: d.FromCode, Target: d.ToCode}
}

// Catalog is the remote package source collaborator.
type Catalog interface {
	// AvailablePackages lists the packages the catalog can provide.
	AvailablePackages(ctx context.Context) ([]PackageDescriptor, error)
	// Download fetches a package archive and returns its local path.
	Download(ctx context.Context, desc PackageDescriptor) (string, error)
}

// RequiredPairs returns the language pairs installed by default on first run.
func RequiredPairs() []types.LanguagePair {
	return []types.LanguagePair{
		{Source: "ko", Target: "en"}, {Source: "en", Target: "ko"},
		{Source: "de", Target: "en"}, {Source: "en", Target: "de"},
		{Source: "zh", Target: "en"}, {Source: "en", Target: "zh"},
		{Source: "es", Target: "en"}, {Source: "en", Target: "es"},
	}
}

// Manager tracks installed language pairs and installs missing ones.
// The installed set is process-wide and safe for concurrent reads; installs
// for the same pair are serialized so they do not race.
type Manager struct {
	dir     string
	catalog Catalog

	mu        sync.RWMutex
	installed map[types.LanguagePair]bool

	pairMu    sync.Mutex
	pairLocks map[types.LanguagePair]*sync.Mutex
}

// NewManager creates a Manager rooted at dir and backed by the given catalog.
// An existing manifest in dir is loaded; a missing manifest means an empty
// installed set.
func NewManager(dir string, catalog Catalog) (*Manager, error) {
	if dir == "" {
		return nil, types.NewAppError(types.ErrConfig, "languages directory is not configured", nil)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, types.NewAppError(types.ErrConfig, "failed to create languages directory", err)
	}

	m := &Manager{
		dir:       dir,
		catalog:   catalog,
		installed: make(map[types.LanguagePair]bool),
		pairLocks: make(map[types.LanguagePair]*sync.Mutex),
	}

	if err := m.loadManifest(); err != nil {
		return nil, err
	}

	logger.Info("language pack manager initialized",
		logger.String("dir", dir),
		logger.Int("installedPairs", len(m.installed)))

	return m, nil
}

// IsInstalled reports whether a direct translation path exists from source
// to target. It is a pure query with no side effects; transitive paths
// through a third language do not count.
func (m *Manager) IsInstalled(source, target string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.installed[types.LanguagePair{Source: source, Target: target}]
}

// HasLanguage reports whether the code appears as either endpoint of any
// installed pair.
func (m *Manager) HasLanguage(code string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for pair := range m.installed {
		if pair.Source == code || pair.Target == code {
			return true
		}
	}
	return false
}

// InstalledLanguages returns every installed source language with its
// direct targets, sorted by code.
func (m *Manager) InstalledLanguages() []Language {
	m.mu.RLock()
	defer m.mu.RUnlock()

	targets := make(map[string][]string)
	for pair := range m.installed {
		targets[pair.Source] = append(targets[pair.Source], pair.Target)
	}

	langs := make([]Language, 0, len(targets))
	for code, tgts := range targets {
		sort.Strings(tgts)
		langs = append(langs, Language{
			Code:    code,
			Name:    DisplayName(code),
			Targets: tgts,
		})
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })
	return langs
}

// EnsureInstalled makes sure every requested pair is installed, fetching
// missing pairs from the catalog. Already-installed pairs are no-ops.
// Distinct pairs install independently of each other; each pair's
// download-extract-register sequence completes before it is reported
// installed. A pair the catalog cannot provide fails the call with
// RESOURCE_UNAVAILABLE naming the pair.
func (m *Manager) EnsureInstalled(ctx context.Context, pairs []types.LanguagePair) error {
	missing := make([]types.LanguagePair, 0, len(pairs))
	for _, pair := range pairs {
		if err := validatePair(pair); err != nil {
			return err
		}
		if !m.IsInstalled(pair.Source, pair.Target) {
			missing = append(missing, pair)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	logger.Info("installing missing language pairs", logger.Int("count", len(missing)))

	available, err := m.catalog.AvailablePackages(ctx)
	if err != nil {
		return types.NewAppError(types.ErrResourceUnavailable, "failed to query language package catalog", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, pair := range missing {
		g.Go(func() error {
			return m.installPair(ctx, pair, available)
		})
	}
	return g.Wait()
}

// installPair installs a single pair, serialized per pair.
func (m *Manager) installPair(ctx context.Context, pair types.LanguagePair, available []PackageDescriptor) error {
	lock := m.lockFor(pair)
	lock.Lock()
	defer lock.Unlock()

	// Another goroutine may have finished this pair while we waited.
	if m.IsInstalled(pair.Source, pair.Target) {
		return nil
	}

	var desc *PackageDescriptor
	for i := range available {
		if available[i].FromCode == pair.Source && available[i].ToCode == pair.Target {
			desc = &available[i]
			break
		}
	}
	if desc == nil {
		logger.Warn("no package available for pair", logger.String("pair", pair.String()))
		return types.NewAppErrorWithDetails(
			types.ErrResourceUnavailable,
			"no language package available",
			pair.String(),
			nil,
		)
	}

	logger.Info("installing language package", logger.String("pair", pair.String()))

	archivePath, err := m.catalog.Download(ctx, *desc)
	if err != nil {
		return types.NewAppErrorWithDetails(
			types.ErrResourceUnavailable,
			"failed to download language package",
			pair.String(),
			err,
		)
	}
	defer os.Remove(archivePath)

	destDir := m.pairDir(pair)
	if err := extractZipArchive(archivePath, destDir); err != nil {
		os.RemoveAll(destDir)
		return types.NewAppErrorWithDetails(
			types.ErrResourceUnavailable,
			"failed to extract language package",
			pair.String(),
			err,
		)
	}

	m.mu.Lock()
	m.installed[pair] = true
	err = m.saveManifestLocked()
	m.mu.Unlock()
	if err != nil {
		return err
	}

	logger.Info("language package installed", logger.String("pair", pair.String()))
	return nil
}

// lockFor returns the serialization lock for a pair, creating it on demand.
func (m *Manager) lockFor(pair types.LanguagePair) *sync.Mutex {
	m.pairMu.Lock()
	defer m.pairMu.Unlock()
	lock, ok := m.pairLocks[pair]
	if !ok {
		lock = &sync.Mutex{}
		m.pairLocks[pair] = lock
	}
	return lock
}

// pairDir returns the install directory for a pair.
func (m *Manager) pairDir(pair types.LanguagePair) string {
	return filepath.Join(m.dir, fmt.Sprintf("%s_%s", pair.Source, pair.Target))
}

// manifest is the persisted shape of the installed set.
type manifest struct {
	Pairs []types.LanguagePair `json:"pairs"`
}

func (m *Manager) manifestPath() string {
	return filepath.Join(m.dir, ManifestFileName)
}

func (m *Manager) loadManifest() error {
	data, err := os.ReadFile(m.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return types.NewAppError(types.ErrConfig, "failed to read language manifest", err)
	}

	var mf manifest
	if err := json.Unmarshal(data, &mf); err != nil {
		logger.Warn("invalid language manifest, starting empty", logger.Err(err))
		return nil
	}

	for _, pair := range mf.Pairs {
		m.installed[pair] = true
	}
	return nil
}

// saveManifestLocked persists the installed set. Caller holds m.mu.
func (m *Manager) saveManifestLocked() error {
	mf := manifest{Pairs: make([]types.LanguagePair, 0, len(m.installed))}
	for pair := range m.installed {
		mf.Pairs = append(mf.Pairs, pair)
	}
	sort.Slice(mf.Pairs, func(i, j int) bool { return mf.Pairs[i].String() < mf.Pairs[j].String() })

	data, err := json.MarshalIndent(&mf, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrInternal, "failed to serialize language manifest", err)
	}
	if err := os.WriteFile(m.manifestPath(), data, 0644); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to write language manifest", err)
	}
	return nil
}

// validatePair rejects pairs whose codes are not well-formed BCP 47 tags.
func validatePair(pair types.LanguagePair) error {
	if pair.Source == "" || pair.Target == "" {
		return types.NewAppError(types.ErrInvalidInput, "language pair has an empty code", nil)
	}
	if _, err := language.Parse(pair.Source); err != nil {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid source language code", pair.Source, err)
	}
	if _, err := language.Parse(pair.Target); err != nil {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput, "invalid target language code", pair.Target, err)
	}
	return nil
}

// DisplayName returns the English display name for a language code, or the
// code itself when the name is unknown.
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}
