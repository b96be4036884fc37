package source

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedDomain = errors.New("unsupported domain")
	ErrExtraction        = errors.New("extraction failed")
	ErrCredential        = errors.New("credentials missing or rejected")
	ErrDownload          = errors.New("download failed")

	// ErrConsumed is yielded when an item sequence is iterated a second time.
	ErrConsumed = errors.New("item sequence already consumed")
)

// InvalidInputError reports a malformed URL, option or item.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// UnsupportedDomainError carries the normalized host no platform claimed.
type UnsupportedDomainError struct {
	Host string
}

func (e *UnsupportedDomainError) Error() string {
	return fmt.Sprintf("unsupported domain: %s", e.Host)
}

func (e *UnsupportedDomainError) Unwrap() error {
	return ErrUnsupportedDomain
}

// ExtractionError wraps a failure that happened while producing items.
type ExtractionError struct {
	Extractor string
	URL       string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Extractor, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Extractor, e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// CredentialError reports missing or rejected credentials. It matches both
// ErrCredential and ErrExtraction.
type CredentialError struct {
	Extractor string
	Reason    string
	Err       error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Extractor, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Extractor, e.Reason)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

func (e *CredentialError) Is(target error) bool {
	return target == ErrCredential || target == ErrExtraction
}

// Classified reports whether err already belongs to the taxonomy.
func Classified(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnsupportedDomain) ||
		errors.Is(err, ErrExtraction) ||
		errors.Is(err, ErrDownload)
}
