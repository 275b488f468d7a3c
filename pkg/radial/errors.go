package radial

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCanceled is returned by Surfaces when the user dismisses a dialog.
	ErrCanceled = errors.New("dialog canceled")
	// ErrNoPresenter is returned when Options has no Presenter.
	ErrNoPresenter = errors.New("no presenter configured")
	// ErrClosed is returned by operations on a closed controller or manager.
	ErrClosed = errors.New("menu is closed")
)

// ErrorCategory classifies errors reported to Options.OnError.
type ErrorCategory int

const (
	// CategoryUnknown is the zero category.
	CategoryUnknown ErrorCategory = iota
	// CategoryConfig covers loading, saving and reloading settings.
	CategoryConfig
	// CategoryImport covers command file import and export.
	CategoryImport
	// CategoryRender covers composing frames.
	CategoryRender
	// CategoryDialog covers the edit and settings surfaces.
	CategoryDialog
	// CategoryPresent covers handing frames to the window.
	CategoryPresent
	// CategoryDispatch covers command subscribers.
	CategoryDispatch
)

// String returns the category name used in logs.
func (c ErrorCategory) String() string {
	switch c {
	case CategoryConfig:
		return "config"
	case CategoryImport:
		return "import"
	case CategoryRender:
		return "render"
	case CategoryDialog:
		return "dialog"
	case CategoryPresent:
		return "present"
	case CategoryDispatch:
		return "dispatch"
	default:
		return "unknown"
	}
}

// ErrorSeverity says how much of the session an error affected.
type ErrorSeverity int

const (
	// SeverityInfo is informational; nothing visible changed.
	SeverityInfo ErrorSeverity = iota
	// SeverityWarning means a fallback was used.
	SeverityWarning
	// SeverityError means an operation was abandoned.
	SeverityError
)

// String returns the severity name used in logs.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// CategorizedError annotates an error with its category and severity.
type CategorizedError struct {
	Err       error
	Category  ErrorCategory
	Severity  ErrorSeverity
	Timestamp time.Time
	// Context holds extra key-value detail such as the session id.
	Context map[string]string
}

// NewCategorizedError wraps err.
func NewCategorizedError(err error, category ErrorCategory, severity ErrorSeverity) *CategorizedError {
	return &CategorizedError{
		Err:       err,
		Category:  category,
		Severity:  severity,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
	}
}

// Error implements error.
func (e *CategorizedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s/%s] (no error)", e.Severity, e.Category)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Severity, e.Category, e.Err)
}

// Unwrap returns the wrapped error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// WithContext sets key to value and returns e.
func (e *CategorizedError) WithContext(key, value string) *CategorizedError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// CategoryOf returns the category of the first CategorizedError in err's
// chain, or CategoryUnknown.
func CategoryOf(err error) ErrorCategory {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryUnknown
}
