package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	InvalidConfig Kind = "invalid_config"
	NotFound      Kind = "not_found"
	LockFailure   Kind = "lock_failure"
	Conflict      Kind = "conflict"
	IOFailure     Kind = "io_failure"
	Internal      Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Op      string
	Subject string
	Err     error
}

func (e *AppError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind:    kind,
		Op:      op,
		Subject: subject,
		Err:     err,
	}
}

// KindOf returns the kind of the outermost AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case NotFound:
		return fmt.Sprintf("Not found: %s", appErr.Subject)
	case LockFailure:
		return fmt.Sprintf("Lock failed for %s: %v", appErr.Subject, appErr.Err)
	case Conflict:
		return fmt.Sprintf("Merge blocked by conflicts: %v", appErr.Err)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s", appErr.Subject)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
