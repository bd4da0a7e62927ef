package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Engine specific errors
	ErrEmptyInput            ErrorCode = "EMPTY_INPUT"
	ErrInsufficientContent   ErrorCode = "INSUFFICIENT_CONTENT"
	ErrInsufficientMaterial  ErrorCode = "INSUFFICIENT_MATERIAL"
	ErrGenerationUnavailable ErrorCode = "GENERATION_UNAVAILABLE"
	ErrEmptyAnswer           ErrorCode = "EMPTY_ANSWER"
	ErrQuizNotFound          ErrorCode = "QUIZ_NOT_FOUND"
	ErrQuestionAlreadyGraded ErrorCode = "QUESTION_ALREADY_GRADED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Helper functions for common errors
func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewEmptyInputError() *DomainError {
	return NewError(ErrEmptyInput, "source text contains no meaningful words", nil)
}

func NewInsufficientContentError(message string) *DomainError {
	return NewError(ErrInsufficientContent, message, nil)
}

func NewInsufficientMaterialError(message string) *DomainError {
	return NewError(ErrInsufficientMaterial, message, nil)
}

func NewGenerationUnavailableError(err error) *DomainError {
	return NewError(ErrGenerationUnavailable, "generation service is unavailable", err)
}

func NewEmptyAnswerError() *DomainError {
	return NewError(ErrEmptyAnswer, "submitted answer is blank", nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(ErrQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}
