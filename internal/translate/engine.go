package translate

import (
	"context"
	"fmt"
	"strings"

	"pdf-translator/internal/langpack"
	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	// DefaultModel is the default model used for translation
	DefaultModel = "gpt-4o"
)

// EngineConfig configures the OpenAI-backed translation engine.
type EngineConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIEngine translates text through an OpenAI-compatible chat model.
// One Generate call covers the entire text; the engine has no notion of
// pages or chunks.
type OpenAIEngine struct {
	chatModel model.BaseChatModel
	modelName string
}

// NewOpenAIEngine creates an engine from the given configuration.
func NewOpenAIEngine(ctx context.Context, cfg EngineConfig) (*OpenAIEngine, error) {
	if cfg.APIKey == "" {
		return nil, types.NewAppError(types.ErrConfig, "API key is not configured", nil)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
	}
	if cfg.BaseURL != "" {
		chatModelConfig.BaseURL = cfg.BaseURL
	}

	chatModel, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, types.NewAppError(types.ErrConfig, "failed to create chat model", err)
	}

	return &OpenAIEngine{
		chatModel: chatModel,
		modelName: cfg.Model,
	}, nil
}

// Translate sends the whole text to the model and returns the translation.
func (e *OpenAIEngine) Translate(ctx context.Context, text string, pair types.LanguagePair) (string, error) {
	logger.Debug("calling translation model",
		logger.String("model", e.modelName),
		logger.String("pair", pair.String()))

	messages := []*schema.Message{
		schema.SystemMessage(buildSystemPrompt(pair)),
		schema.UserMessage(text),
	}

	response, err := e.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", fmt.Errorf("model returned an empty translation")
	}

	return response.Content, nil
}

// buildSystemPrompt builds the translation instruction for a language pair.
func buildSystemPrompt(pair types.LanguagePair) string {
	return fmt.Sprintf(
		"You are a professional translator. Translate the user's text from %s to %s. "+
			"Preserve the paragraph structure: keep blank lines between paragraphs exactly "+
			"where they appear in the source. Output only the translated text with no "+
			"commentary.",
		langpack.DisplayName(pair.Source),
		langpack.DisplayName(pair.Target),
	)
}
