package core

import (
	"errors"
	"fmt"
)

// Error codes for the engine's typed errors.
const (
	ErrCodeInput          = "INPUT_ERROR"
	ErrCodeUntrainedModel = "UNTRAINED_MODEL"
	ErrCodeTrainingData   = "TRAINING_DATA_ERROR"
	ErrCodeConfiguration  = "CONFIGURATION_ERROR"
)

// EngineError is the typed error surfaced by the engine and its components.
type EngineError struct {
	Code      string // One of the ErrCode constants
	Component string // Component that produced the error
	Message   string // Human-readable description
	Err       error  // Wrapped cause, if any
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Component, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Component, e.Code, e.Message)
}

func (e *EngineError) Unwrap() error { return e.Err }

// NewUntrainedModelError reports a prediction attempted before training.
func NewUntrainedModelError(component string) *EngineError {
	return &EngineError{
		Code:      ErrCodeUntrainedModel,
		Component: component,
		Message:   "model not trained",
	}
}

// NewTrainingDataError reports an unusable training example or set.
func NewTrainingDataError(component, message string) *EngineError {
	return &EngineError{
		Code:      ErrCodeTrainingData,
		Component: component,
		Message:   message,
	}
}

// NewInputError reports unusable analysis input. Callers degrade it to a
// neutral fallback; it never crosses the engine boundary.
func NewInputError(component, message string) *EngineError {
	return &EngineError{
		Code:      ErrCodeInput,
		Component: component,
		Message:   message,
	}
}

// NewConfigurationError reports an invalid option value.
func NewConfigurationError(component, message string) *EngineError {
	return &EngineError{
		Code:      ErrCodeConfiguration,
		Component: component,
		Message:   message,
	}
}

// IsUntrainedModel reports whether err is an untrained-model error.
func IsUntrainedModel(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeUntrainedModel
}

// IsTrainingData reports whether err is a training-data error.
func IsTrainingData(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeTrainingData
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == ErrCodeConfiguration
}
