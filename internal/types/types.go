// Package types defines core data types and enums for the PDF translator application.
package types

import "fmt"

// Config 应用配置
type Config struct {
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"` // OpenAI 兼容 API 的 Base URL
	OpenAIModel   string `json:"openai_model"`
	CatalogURL    string `json:"catalog_url"`    // 语言包目录索引 URL
	LanguagesDir  string `json:"languages_dir"`  // 语言包安装目录
	WorkDirectory string `json:"work_directory"` // 输出工作目录
	OCRDPI        int    `json:"ocr_dpi"`        // OCR 栅格化分辨率
	PreviewDPI    int    `json:"preview_dpi"`    // 预览栅格化分辨率
	OutputName    string `json:"output_name"`    // 默认输出文件名
}

// LanguagePair identifies a directed translation capability from one
// language code to another (e.g. "es" -> "en").
type LanguagePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// String returns the pair in "src->tgt" form.
func (p LanguagePair) String() string {
	return p.Source + "->" + p.Target
}

// ProcessPhase 处理阶段枚举
type ProcessPhase string

const (
	PhaseIdle        ProcessPhase = "idle"
	PhaseAcquiring   ProcessPhase = "acquiring"
	PhaseTranslating ProcessPhase = "translating"
	PhaseRendering   ProcessPhase = "rendering"
	PhaseComplete    ProcessPhase = "complete"
	PhaseError       ProcessPhase = "error"
)

// Status 处理状态
type Status struct {
	RunID    string       `json:"run_id"`
	Phase    ProcessPhase `json:"phase"`
	Progress int          `json:"progress"` // 0-100
	Message  string       `json:"message"`
	Error    string       `json:"error,omitempty"`
}

// RenderedDocument describes the persisted output of a translation run.
type RenderedDocument struct {
	Path       string `json:"path"`
	Paragraphs int    `json:"paragraphs"`
	PageCount  int    `json:"page_count"`
}

// RunResult 翻译结果
type RunResult struct {
	InputPath  string            `json:"input_path"`
	OutputPath string            `json:"output_path"`
	Pair       LanguagePair      `json:"pair"`
	PageCount  int               `json:"page_count"` // input page count
	Document   *RenderedDocument `json:"document"`
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrResourceUnavailable    ErrorCode = "RESOURCE_UNAVAILABLE"
	ErrLanguageNotInstalled   ErrorCode = "LANGUAGE_NOT_INSTALLED"
	ErrTranslationUnavailable ErrorCode = "TRANSLATION_UNAVAILABLE"
	ErrAcquisitionFailed      ErrorCode = "ACQUISITION_FAILED"
	ErrNoTextFound            ErrorCode = "NO_TEXT_FOUND"
	ErrTranslationFailed      ErrorCode = "TRANSLATION_FAILED"
	ErrRenderFailed           ErrorCode = "RENDER_FAILED"
	ErrPipelineBusy           ErrorCode = "PIPELINE_BUSY"
	ErrNetwork                ErrorCode = "NETWORK_ERROR"
	ErrInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrConfig                 ErrorCode = "CONFIG_ERROR"
	ErrInternal               ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Page    int       `json:"page,omitempty"` // 1-based page index, 0 when not page-scoped
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	msg := e.Message
	if e.Page > 0 {
		msg = fmt.Sprintf("%s (page %d)", msg, e.Page)
	}
	if e.Details != "" {
		return msg + ": " + e.Details
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// NewPageError creates a new AppError scoped to a 1-based page index.
func NewPageError(code ErrorCode, message string, page int, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Page:    page,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode carried by err, or ErrInternal when err is not
// an *AppError.
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrInternal
}
