// Package errs classifies seeding failures so callers can decide what to retry
// and what to report.
package errs

import (
	"context"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"
)

// Category is the failure class of an error.
type Category string

const (
	Validation    Category = "validation"
	Database      Category = "database"
	Network       Category = "network"
	Timeout       Category = "timeout"
	Configuration Category = "configuration"
	Dependency    Category = "dependency"
	System        Category = "system"
)

// Error attaches a category and the failing operation to an underlying error.
type Error struct {
	Category Category
	Op       string
	Err      error
}

// Error returns the error string.
func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Category, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a category. A nil err yields nil.
func New(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Category: category, Op: op, Err: err}
}

// Newf builds a categorized error from a format string.
func Newf(category Category, op, format string, args ...any) error {
	return &Error{Category: category, Op: op, Err: fmt.Errorf(format, args...)}
}

func ValidationError(op string, err error) error    { return New(Validation, op, err) }
func DatabaseError(op string, err error) error      { return New(Database, op, err) }
func ConfigurationError(op string, err error) error { return New(Configuration, op, err) }
func DependencyError(op string, err error) error    { return New(Dependency, op, err) }

// CategoryOf classifies err. Unclassified errors are System.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return Timeout
		}
		return Network
	}
	if isGormError(err) {
		return Database
	}
	return System
}

func isGormError(err error) bool {
	for _, target := range []error{
		gorm.ErrRecordNotFound,
		gorm.ErrInvalidTransaction,
		gorm.ErrInvalidData,
		gorm.ErrInvalidDB,
		gorm.ErrDuplicatedKey,
		gorm.ErrForeignKeyViolated,
		gorm.ErrCheckConstraintViolated,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Retryable reports whether err belongs to a transient class (database, network, timeout).
func Retryable(err error) bool {
	switch CategoryOf(err) {
	case Database, Network, Timeout:
		return true
	}
	return false
}

// Permanent reports whether retrying err can never succeed.
func Permanent(err error) bool {
	switch CategoryOf(err) {
	case Validation, Configuration, Dependency:
		return true
	}
	return errors.Is(err, context.Canceled)
}
