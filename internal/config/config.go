// Package config provides configuration management for the PDF translator application.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "pdf-translator-config.json"
	// EnvOpenAIAPIKey is the environment variable name for OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// EnvCatalogURL is the environment variable name for the language package catalog
	EnvCatalogURL = "PDF_TRANSLATOR_CATALOG_URL"
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default OpenAI model to use
	DefaultModel = "gpt-4o"
	// DefaultCatalogURL is the default language package index
	DefaultCatalogURL = "https://raw.githubusercontent.com/argosopentech/argospm-index/main/index.json"
	// DefaultOCRDPI is the rasterization resolution used for recognition.
	// Higher than preview resolution so small glyphs survive rasterization.
	DefaultOCRDPI = 200
	// DefaultPreviewDPI is the rasterization resolution used for page previews
	DefaultPreviewDPI = 100
	// DefaultOutputName is the output file name used when the caller does not supply one
	DefaultOutputName = "translated.pdf"
)

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "pdf-translator", DefaultConfigFileName)
	}

	logger.Info("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &types.Config{
		OpenAIAPIKey:  "",
		OpenAIBaseURL: DefaultBaseURL,
		OpenAIModel:   DefaultModel,
		CatalogURL:    DefaultCatalogURL,
		LanguagesDir:  filepath.Join(homeDir, ".local", "share", "pdf-translator", "languages"),
		WorkDirectory: "",
		OCRDPI:        DefaultOCRDPI,
		PreviewDPI:    DefaultPreviewDPI,
		OutputName:    DefaultOutputName,
	}
}

// Load loads configuration from the config file.
// If the file doesn't exist, it uses default values.
// Environment variables take precedence for API key and catalog URL if the
// config file values are empty.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded successfully",
				logger.String("path", m.configPath),
				logger.Int("apiKeyLength", len(config.OpenAIAPIKey)),
				logger.String("baseURL", config.OpenAIBaseURL),
				logger.String("model", config.OpenAIModel))
			m.config = config
		}
	}

	m.applyDefaults()
	m.applyEnvOverrides()

	return nil
}

// applyDefaults backfills zero-valued fields after a load.
func (m *ConfigManager) applyDefaults() {
	defaults := defaultConfig()
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = defaults.OpenAIBaseURL
	}
	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = defaults.OpenAIModel
	}
	if m.config.CatalogURL == "" {
		m.config.CatalogURL = defaults.CatalogURL
	}
	if m.config.LanguagesDir == "" {
		m.config.LanguagesDir = defaults.LanguagesDir
	}
	if m.config.OCRDPI == 0 {
		m.config.OCRDPI = defaults.OCRDPI
	}
	if m.config.PreviewDPI == 0 {
		m.config.PreviewDPI = defaults.PreviewDPI
	}
	if m.config.OutputName == "" {
		m.config.OutputName = defaults.OutputName
	}
}

// applyEnvOverrides lets environment variables win over empty config fields.
func (m *ConfigManager) applyEnvOverrides() {
	if m.config.OpenAIAPIKey == "" {
		if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
			logger.Debug("using API key from environment")
			m.config.OpenAIAPIKey = key
		}
	}
	if url := os.Getenv(EnvOpenAIBaseURL); url != "" {
		m.config.OpenAIBaseURL = url
	}
	if url := os.Getenv(EnvCatalogURL); url != "" {
		m.config.CatalogURL = url
	}
}

// Save persists the current configuration to the config file.
func (m *ConfigManager) Save() error {
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrConfig, "failed to serialize config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// Get returns the current configuration.
func (m *ConfigManager) Get() *types.Config {
	return m.config
}

// Update replaces the current configuration.
func (m *ConfigManager) Update(config *types.Config) {
	if config == nil {
		return
	}
	m.config = config
	m.applyDefaults()
}

// ConfigPath returns the path of the backing config file.
func (m *ConfigManager) ConfigPath() string {
	return m.configPath
}
