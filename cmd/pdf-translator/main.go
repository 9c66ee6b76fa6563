// Command pdf-translator translates a PDF document into a target language
// and writes the result as a new, re-flowed PDF.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"pdf-translator/internal/config"
	"pdf-translator/internal/extract"
	"pdf-translator/internal/langpack"
	"pdf-translator/internal/logger"
	"pdf-translator/internal/ocr"
	"pdf-translator/internal/pdf"
	"pdf-translator/internal/pipeline"
	"pdf-translator/internal/preview"
	"pdf-translator/internal/render"
	"pdf-translator/internal/translate"
	"pdf-translator/internal/types"

	"github.com/joho/godotenv"
)

func main() {
	var (
		inputPath   = flag.String("input", "", "path to the PDF to translate")
		outputPath  = flag.String("output", "", "path for the translated PDF (default: translated.pdf in the work directory)")
		fromCode    = flag.String("from", "", "source language code (e.g. es)")
		toCode      = flag.String("to", "en", "target language code (e.g. en)")
		configPath  = flag.String("config", "", "path to the configuration file")
		fontPath    = flag.String("font", "", "path to a TTF font for the output document")
		previewPage = flag.Int("preview", 0, "save a PNG preview of the given page of the translated PDF")
		verbose     = flag.Bool("verbose", false, "enable debug logging to the console")
	)
	flag.Parse()

	if err := run(*inputPath, *outputPath, *fromCode, *toCode, *configPath, *fontPath, *previewPage, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath, fromCode, toCode, configPath, fontPath string, previewPage int, verbose bool) error {
	// .env is optional; missing files are not an error
	godotenv.Load()

	logConfig := logger.DefaultConfig()
	if verbose {
		logConfig.Level = logger.LevelDebug
		logConfig.EnableConsole = true
	}
	if err := logger.Init(logConfig); err != nil {
		return err
	}
	defer logger.Close()

	if inputPath == "" {
		return types.NewAppError(types.ErrInvalidInput, "missing -input: no PDF file to translate", nil)
	}
	if fromCode == "" {
		return types.NewAppError(types.ErrInvalidInput, "missing -from: no source language", nil)
	}

	configManager, err := config.NewConfigManager(configPath)
	if err != nil {
		return err
	}
	if err := configManager.Load(); err != nil {
		return err
	}
	cfg := configManager.Get()

	if outputPath == "" {
		outputPath = filepath.Join(cfg.WorkDirectory, cfg.OutputName)
	}

	ctx := context.Background()

	// Provisioning happens before the pipeline: make sure the requested
	// pair is installed, installing it from the catalog if missing.
	catalog := langpack.NewHTTPCatalog(cfg.CatalogURL)
	manager, err := langpack.NewManager(cfg.LanguagesDir, catalog)
	if err != nil {
		return err
	}
	pair := types.LanguagePair{Source: fromCode, Target: toCode}
	if err := manager.EnsureInstalled(ctx, []types.LanguagePair{pair}); err != nil {
		return err
	}

	engine, err := translate.NewOpenAIEngine(ctx, translate.EngineConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	if err != nil {
		return err
	}

	rasterizer := pdf.NewRasterizer(cfg.OCRDPI)
	recognizer := ocr.NewTesseract(fromCode, cfg.OCRDPI)
	acquirer := extract.NewAcquirer(rasterizer, recognizer)
	translator := translate.NewTranslator(manager, engine)
	renderer := render.NewRenderer(fontPath)

	p := pipeline.New(acquirer, translator, renderer)

	statusCh, err := p.Start(ctx, pipeline.Request{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Source:     fromCode,
		Target:     toCode,
	})
	if err != nil {
		return err
	}

	var failure string
	for status := range statusCh {
		if status.Phase == types.PhaseError {
			failure = status.Error
			continue
		}
		fmt.Printf("[%3d%%] %s\n", status.Progress, status.Message)
	}
	if failure != "" {
		return fmt.Errorf("%s", failure)
	}

	result := p.LastResult()
	if result != nil && result.Document != nil {
		fmt.Printf("translated %d page(s) -> %s (%d page(s), %d paragraph(s))\n",
			result.PageCount, result.OutputPath,
			result.Document.PageCount, result.Document.Paragraphs)
	}

	if previewPage > 0 && result != nil {
		previewPath, err := savePreview(result.OutputPath, previewPage, cfg.PreviewDPI)
		if err != nil {
			return err
		}
		fmt.Printf("preview saved -> %s\n", previewPath)
	}

	return nil
}

// savePreview renders one page of the translated document at preview
// resolution and writes it next to the PDF as a PNG.
func savePreview(pdfPath string, pageNum, dpi int) (string, error) {
	img, err := preview.NewGenerator(dpi).PagePreview(pdfPath, pageNum)
	if err != nil {
		return "", err
	}

	previewPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + "_preview.png"
	f, err := os.Create(previewPath)
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to create preview file", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to encode preview image", err)
	}

	return previewPath, nil
}
