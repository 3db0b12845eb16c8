package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Kind categorizes why a whole document could not be turned into a record
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidFile
	KindTooLarge
	KindUnreadable
	KindNoText
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidFile:
		return "invalid_file"
	case KindTooLarge:
		return "too_large"
	case KindUnreadable:
		return "unreadable"
	case KindNoText:
		return "no_text"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name; unrecognized names become KindUnknown
func (k *Kind) UnmarshalText(text []byte) error {
	*k = KindUnknown
	for c := KindNotFound; c <= KindNoText; c++ {
		if c.String() == string(text) {
			*k = c
			break
		}
	}
	return nil
}

// Sentinels usable with errors.Is to match a DocumentError by kind.
var (
	ErrNotFound    = &DocumentError{Kind: KindNotFound}
	ErrInvalidFile = &DocumentError{Kind: KindInvalidFile}
	ErrTooLarge    = &DocumentError{Kind: KindTooLarge}
	ErrUnreadable  = &DocumentError{Kind: KindUnreadable}
	ErrNoText      = &DocumentError{Kind: KindNoText}
)

// DocumentError is the only failure surfaced for a single document. Missing
// fields inside a readable document are never reported as errors.
type DocumentError struct {
	Kind       Kind      `json:"kind"`
	Path       string    `json:"path,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Err        error     `json:"-"`
}

// New creates a new DocumentError
func New(kind Kind, path, message string) *DocumentError {
	return &DocumentError{
		Kind:      kind,
		Path:      path,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps a lower level error as a DocumentError
func Wrap(kind Kind, path string, err error) *DocumentError {
	e := New(kind, path, "")
	if err != nil {
		e.Message = err.Error()
		e.Err = err
	}
	return e
}

// WithPage adds page number information to an existing DocumentError
func (e *DocumentError) WithPage(pageNumber int) *DocumentError {
	e.PageNumber = pageNumber
	return e
}

// Error implements the error interface
func (e *DocumentError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	switch {
	case e.Path != "" && e.PageNumber > 0:
		return fmt.Sprintf("[%s] %s (page %d): %s", e.Kind, e.Path, e.PageNumber, msg)
	case e.Path != "":
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Path, msg)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, msg)
	}
}

// Unwrap returns the wrapped error
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is matches any DocumentError of the same kind
func (e *DocumentError) Is(target error) bool {
	t, ok := target.(*DocumentError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first DocumentError in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var de *DocumentError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// FromPanic converts a value recovered from a PDF library panic into an
// unreadable-document error.
func FromPanic(path string, page int, r any) *DocumentError {
	return New(KindUnreadable, path, fmt.Sprintf("panic while decoding: %v", r)).WithPage(page)
}
