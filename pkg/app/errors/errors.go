// Package errors classifies service failures and maps them onto HTTP statuses.
package errors

import (
	"context"
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	CategoryNoError Category = iota
	// CategoryDataError is a malformed request, e.g. a bad chain id or address.
	CategoryDataError
	CategoryResourceNotFound
	CategoryNotSupported
	// CategoryDependencyFailure is an upstream (indexing API, Redis) failure.
	CategoryDependencyFailure
	CategoryGeneralError
	// CategoryConnectionTimeout is an upstream call that ran out of time.
	CategoryConnectionTimeout
)

var categoryNames = map[Category]string{
	CategoryNoError:           "CategoryNoError",
	CategoryDataError:         "CategoryDataError",
	CategoryResourceNotFound:  "CategoryResourceNotFound",
	CategoryNotSupported:      "CategoryNotSupported",
	CategoryDependencyFailure: "CategoryDependencyFailure",
	CategoryConnectionTimeout: "CategoryConnectionTimeout",
}

var categoryStatus = map[Category]int{
	CategoryDataError:         http.StatusBadRequest,
	CategoryResourceNotFound:  http.StatusNotFound,
	CategoryNotSupported:      http.StatusMethodNotAllowed,
	CategoryDependencyFailure: http.StatusBadGateway,
	CategoryConnectionTimeout: http.StatusGatewayTimeout,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "CategoryGeneralError"
}

// ServiceError carries a category for status mapping, a message that is safe
// to show to clients and the underlying error for logs.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err ServiceError) Unwrap() error {
	return err.Err
}

// StatusCode returns the HTTP status for the error category.
func (err ServiceError) StatusCode() int {
	if status, ok := categoryStatus[err.Category]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Is reports whether err wraps a ServiceError of category cat.
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsInternalError reports whether err should be logged as a server-side failure.
// Client mistakes are not.
func IsInternalError(err error) bool {
	var svcErr *ServiceError
	return !errors.As(err, &svcErr) || svcErr.Category >= CategoryDependencyFailure
}

func newError(cat Category, err error, message, prefix string) error {
	if err == nil {
		err = errors.New(prefix + message)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error".
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "Internal Server Error", "")
}

// BadRequestError reports invalid client input. message is returned to the
// client; err only reaches the logs.
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message, "bad request: ")
}

// DependencyFailureError wraps an upstream failure. Deadline errors are
// reported as CategoryConnectionTimeout.
func DependencyFailureError(err error, message string) error {
	cat := CategoryDependencyFailure
	if errors.Is(err, context.DeadlineExceeded) {
		cat = CategoryConnectionTimeout
	}
	return newError(cat, err, message, "dependency failure: ")
}
