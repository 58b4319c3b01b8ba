// Package domain defines domain-specific errors.
// These errors represent visualizer and playback failures independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Sampler failure kinds. All three are recovered locally by the animation driver.
var (
	// ErrAnalyzerUnavailable is returned when the analysis graph was never built.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")

	// ErrSamplingFailed is returned when reading from an existing analysis graph fails.
	ErrSamplingFailed = errors.New("spectrum sampling failed")

	// ErrGraphInit is returned when constructing or connecting the analysis graph fails.
	ErrGraphInit = errors.New("analysis graph initialization failed")
)

// Host audio output errors.
var (
	// ErrSourceAlreadyConnected is returned when a second tap is attached to an output.
	ErrSourceAlreadyConnected = errors.New("audio source already connected")

	// ErrNotInitialized is returned when an operation is attempted on an uninitialized component.
	ErrNotInitialized = errors.New("component not initialized")

	// ErrNoTrackLoaded is returned when playback is attempted with no track loaded.
	ErrNoTrackLoaded = errors.New("no track loaded")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidFilePath is returned when a file path is invalid.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrPlaybackFailed is returned when playback cannot be started.
	ErrPlaybackFailed = errors.New("playback failed")

	// ErrInvalidVolume is returned when the volume is out of valid range (0.0-1.0).
	ErrInvalidVolume = errors.New("invalid volume: must be between 0.0 and 1.0")
)

// SamplerError is returned by the spectrum sampler.
// Kind is one of ErrAnalyzerUnavailable, ErrSamplingFailed or ErrGraphInit, so
// callers can branch with errors.Is on either the kind or the underlying cause.
type SamplerError struct {
	Kind error  // Failure kind sentinel
	Op   string // Operation that failed (e.g., "sample", "connect")
	Err  error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *SamplerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sampler %s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("sampler %s: %v", e.Op, e.Kind)
}

// Unwrap returns both the kind and the underlying error.
func (e *SamplerError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewSamplerError creates a new SamplerError.
func NewSamplerError(kind error, op string, err error) *SamplerError {
	return &SamplerError{
		Kind: kind,
		Op:   op,
		Err:  err,
	}
}

// SamplerErrorKind returns a short, stable label for a sampler failure.
// It is used as a metric attribute and log field.
func SamplerErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrAnalyzerUnavailable):
		return "analyzer_unavailable"
	case errors.Is(err, ErrGraphInit):
		return "graph_init"
	case errors.Is(err, ErrSamplingFailed):
		return "sampling_error"
	default:
		return "unknown"
	}
}

// AudioEngineError represents an error from the audio output.
// This wraps low-level decoder and device errors with additional context.
type AudioEngineError struct {
	Op      string // Operation that failed (e.g., "load", "play", "attach")
	Path    string // File path (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *AudioEngineError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio engine %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("audio engine %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *AudioEngineError) Unwrap() error {
	return e.Err
}

// NewAudioEngineError creates a new AudioEngineError.
func NewAudioEngineError(op, path, message string, err error) *AudioEngineError {
	return &AudioEngineError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   any    // Value that failed validation
	Message string // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "Preference")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
