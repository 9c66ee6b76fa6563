// Package translate implements the translation stage: it maps acquired
// source text to target-language text using an installed language pair.
package translate

import (
	"context"
	"strings"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

// Registry answers installed-language queries. It is satisfied by
// *langpack.Manager.
type Registry interface {
	// IsInstalled reports whether a direct translation path exists.
	IsInstalled(source, target string) bool
	// HasLanguage reports whether the code is an endpoint of any installed pair.
	HasLanguage(code string) bool
}

// Engine performs the underlying translation call. The call is a single
// atomic unit of work over the entire text; there is no sub-progress.
type Engine interface {
	Translate(ctx context.Context, text string, pair types.LanguagePair) (string, error)
}

// Translator validates preconditions against the registry and delegates the
// translation itself to the engine.
type Translator struct {
	registry Registry
	engine   Engine
}

// NewTranslator creates a Translator over the given registry and engine.
func NewTranslator(registry Registry, engine Engine) *Translator {
	return &Translator{
		registry: registry,
		engine:   engine,
	}
}

// Translate translates text from source to target.
//
// Preconditions: both codes must resolve to installed languages, otherwise
// the call fails with LANGUAGE_NOT_INSTALLED naming the missing code(s) and
// the engine is never invoked. Installed languages without a direct path
// between them fail with TRANSLATION_UNAVAILABLE; multi-hop pivot
// translation is not attempted. Engine failures are wrapped as
// TRANSLATION_FAILED with the original cause preserved.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	var missing []string
	if !t.registry.HasLanguage(source) {
		missing = append(missing, source)
	}
	if !t.registry.HasLanguage(target) {
		missing = append(missing, target)
	}
	if len(missing) > 0 {
		logger.Warn("translation requested for uninstalled language(s)",
			logger.String("missing", strings.Join(missing, ",")))
		return "", types.NewAppErrorWithDetails(
			types.ErrLanguageNotInstalled,
			"language(s) not installed",
			strings.Join(missing, ", "),
			nil,
		)
	}

	if !t.registry.IsInstalled(source, target) {
		return "", types.NewAppErrorWithDetails(
			types.ErrTranslationUnavailable,
			"no direct translation path between installed languages",
			types.LanguagePair{Source: source, Target: target}.String(),
			nil,
		)
	}

	pair := types.LanguagePair{Source: source, Target: target}
	logger.Info("translating text",
		logger.String("pair", pair.String()),
		logger.Int("chars", len(text)))

	translated, err := t.engine.Translate(ctx, text, pair)
	if err != nil {
		return "", types.NewAppError(types.ErrTranslationFailed, "translation failed", err)
	}

	return translated, nil
}
