package errors

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidArgumentError indicates a malformed filter, paging or sort request.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func NewInvalidArgumentError(field, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

func (e *InvalidArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid argument: %s", e.Reason)
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// IsInvalidArgumentError checks if the error is an InvalidArgumentError.
func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}

// QueryError indicates a statement could not be composed or was rejected by the store
// when it was compiled.
type QueryError struct {
	Category string
	Key      string
	cause    error
}

func NewQueryError(category, key string, cause error) *QueryError {
	return &QueryError{Category: category, Key: key, cause: cause}
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s [%s]: %v", e.Category, e.Key, e.cause)
}

func (e *QueryError) Unwrap() error {
	return e.cause
}

// IsQueryError checks if the error is a QueryError.
func IsQueryError(err error) bool {
	var e *QueryError
	return errors.As(err, &e)
}

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func NewResourceNotFoundError(kind string, id ...string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: strings.Join(id, ",")}
}

func NewUserNotFoundError(username string) *ResourceNotFoundError {
	return NewResourceNotFoundError("user", username)
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// UnauthorizedError indicates the caller presented missing or invalid credentials.
type UnauthorizedError struct {
	Reason string
}

func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

func (e *UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

func IsUnauthorizedError(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}
