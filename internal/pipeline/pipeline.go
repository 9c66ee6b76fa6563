// Package pipeline sequences the translation stages end to end and owns the
// run's progress signal and state machine.
package pipeline

import (
	"context"
	"sync"

	"pdf-translator/internal/extract"
	"pdf-translator/internal/logger"
	"pdf-translator/internal/pdf"
	"pdf-translator/internal/types"

	"github.com/google/uuid"
)

// AcquireStage is the text acquisition stage. Satisfied by *extract.Acquirer.
type AcquireStage interface {
	Acquire(ctx context.Context, source extract.PageSource, progress extract.ProgressFunc) (string, error)
}

// TranslateStage is the translation stage. Satisfied by *translate.Translator.
type TranslateStage interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// RenderStage is the document rendering stage. Satisfied by *render.Renderer.
type RenderStage interface {
	Render(text, outputPath string) (*types.RenderedDocument, error)
}

// Document is the pipeline's view of an opened input document.
type Document interface {
	extract.PageSource
	Close() error
}

// OpenFunc opens the input document for a run. The default uses pdf.Open.
type OpenFunc func(path string) (Document, error)

// StatusCallback receives every status change of a run. Callbacks are
// invoked sequentially from the run's worker goroutine; they are never
// called concurrently.
type StatusCallback func(status *types.Status)

// Request describes one translation run.
type Request struct {
	InputPath  string
	OutputPath string
	Source     string
	Target     string
}

// Pipeline orchestrates acquire -> translate -> render for one document
// session. Exactly one run is active at a time; a second concurrent run is
// rejected with PIPELINE_BUSY rather than interleaved.
type Pipeline struct {
	acquirer   AcquireStage
	translator TranslateStage
	renderer   RenderStage
	open       OpenFunc

	statusMu       sync.RWMutex
	status         types.Status
	statusCallback StatusCallback
	running        bool

	resultMu   sync.RWMutex
	lastResult *types.RunResult
}

// New creates a Pipeline over the three stage implementations.
func New(acquirer AcquireStage, translator TranslateStage, renderer RenderStage) *Pipeline {
	return &Pipeline{
		acquirer:   acquirer,
		translator: translator,
		renderer:   renderer,
		open: func(path string) (Document, error) {
			return pdf.Open(path)
		},
		status: types.Status{Phase: types.PhaseIdle},
	}
}

// SetOpener overrides how input documents are opened. Used by tests.
func (p *Pipeline) SetOpener(open OpenFunc) {
	p.open = open
}

// SetStatusCallback sets the callback function for status updates.
// The callback will be called whenever the run status changes.
func (p *Pipeline) SetStatusCallback(callback StatusCallback) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.statusCallback = callback
}

// GetStatus returns a copy of the current status. Thread-safe.
func (p *Pipeline) GetStatus() *types.Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()

	statusCopy := p.status
	return &statusCopy
}

// IsProcessing returns true if a run is currently in progress.
func (p *Pipeline) IsProcessing() bool {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.running
}

// LastResult returns the result of the most recent successful run, or nil.
func (p *Pipeline) LastResult() *types.RunResult {
	p.resultMu.RLock()
	defer p.resultMu.RUnlock()
	return p.lastResult
}

// Start launches a run on its own worker goroutine and returns a channel
// that carries every status change, ending with a terminal Complete or
// Error status, after which the channel is closed. A second call while a
// run is active fails with PIPELINE_BUSY.
func (p *Pipeline) Start(ctx context.Context, req Request) (<-chan types.Status, error) {
	if err := p.acquireRunSlot(); err != nil {
		return nil, err
	}

	ch := make(chan types.Status, 64)
	p.SetStatusCallback(func(status *types.Status) {
		ch <- *status
	})

	go func() {
		p.run(ctx, req)
		// The channel-sending callback belongs to this run only. Detach
		// it and free the slot before closing, so the next run cannot
		// send on a closed channel.
		p.SetStatusCallback(nil)
		p.releaseRunSlot()
		close(ch)
	}()

	return ch, nil
}

// Run executes a run synchronously, delivering status changes through the
// configured callback. A second call while a run is active fails with
// PIPELINE_BUSY.
func (p *Pipeline) Run(ctx context.Context, req Request) (*types.RunResult, error) {
	if err := p.acquireRunSlot(); err != nil {
		return nil, err
	}
	defer p.releaseRunSlot()

	return p.run(ctx, req)
}

// acquireRunSlot claims the single-run slot or fails with PIPELINE_BUSY.
func (p *Pipeline) acquireRunSlot() error {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	if p.running {
		return types.NewAppError(types.ErrPipelineBusy, "a translation run is already in progress", nil)
	}
	p.running = true
	return nil
}

func (p *Pipeline) releaseRunSlot() {
	p.statusMu.Lock()
	p.running = false
	p.statusMu.Unlock()
}

// run drives the state machine for one run. Progress is forced to the fixed
// checkpoints 0/50/75/100 at stage boundaries regardless of the last
// reported per-page value; a stage failure moves to the error state, resets
// progress to 0 and surfaces the originating error. There are no retries.
func (p *Pipeline) run(ctx context.Context, req Request) (*types.RunResult, error) {
	runID := uuid.NewString()

	logger.Info("translation run started",
		logger.String("runID", runID),
		logger.String("input", req.InputPath),
		logger.String("pair", req.Source+"->"+req.Target))

	p.updateStatus(runID, types.PhaseIdle, 0, "starting")

	if req.InputPath == "" {
		return nil, p.fail(runID, types.NewAppError(types.ErrInvalidInput, "input path cannot be empty", nil))
	}
	if req.OutputPath == "" {
		return nil, p.fail(runID, types.NewAppError(types.ErrInvalidInput, "output path cannot be empty", nil))
	}

	doc, err := p.open(req.InputPath)
	if err != nil {
		return nil, p.fail(runID, err)
	}
	defer doc.Close()

	// Acquiring: stage reports sub-progress in [0,50]
	p.updateStatus(runID, types.PhaseAcquiring, 0, "extracting text")
	text, err := p.acquirer.Acquire(ctx, doc, func(value int) {
		p.updateStatus(runID, types.PhaseAcquiring, value, "extracting text")
	})
	if err != nil {
		return nil, p.fail(runID, err)
	}

	// Translating: progress forced to 50 at the boundary
	p.updateStatus(runID, types.PhaseTranslating, 50, "translating text")
	translated, err := p.translator.Translate(ctx, text, req.Source, req.Target)
	if err != nil {
		return nil, p.fail(runID, err)
	}

	// Rendering: progress forced to 75
	p.updateStatus(runID, types.PhaseRendering, 75, "rendering document")
	rendered, err := p.renderer.Render(translated, req.OutputPath)
	if err != nil {
		return nil, p.fail(runID, err)
	}

	result := &types.RunResult{
		InputPath:  req.InputPath,
		OutputPath: rendered.Path,
		Pair:       types.LanguagePair{Source: req.Source, Target: req.Target},
		PageCount:  doc.PageCount(),
		Document:   rendered,
	}

	p.resultMu.Lock()
	p.lastResult = result
	p.resultMu.Unlock()

	p.updateStatus(runID, types.PhaseComplete, 100, "translation complete")

	logger.Info("translation run complete",
		logger.String("runID", runID),
		logger.String("output", rendered.Path),
		logger.Int("inputPages", result.PageCount),
		logger.Int("outputPages", rendered.PageCount))

	return result, nil
}

// fail moves the run to the error state and returns err unchanged.
func (p *Pipeline) fail(runID string, err error) error {
	logger.Error("translation run failed", err, logger.String("runID", runID))

	p.statusMu.Lock()
	p.status = types.Status{
		RunID:    runID,
		Phase:    types.PhaseError,
		Progress: 0,
		Message:  "translation failed",
		Error:    err.Error(),
	}
	callback := p.statusCallback
	statusCopy := p.status
	p.statusMu.Unlock()

	if callback != nil {
		callback(&statusCopy)
	}

	return err
}

// updateStatus updates the current status and notifies the callback.
func (p *Pipeline) updateStatus(runID string, phase types.ProcessPhase, progress int, message string) {
	p.statusMu.Lock()
	p.status = types.Status{
		RunID:    runID,
		Phase:    phase,
		Progress: progress,
		Message:  message,
	}
	callback := p.statusCallback
	statusCopy := p.status
	p.statusMu.Unlock()

	// Call callback outside of lock to prevent deadlocks
	if callback != nil {
		callback(&statusCopy)
	}
}
