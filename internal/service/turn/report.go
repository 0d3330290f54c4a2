package turn

import "errors"

type ErrorKind string

const (
	KindNoInput        ErrorKind = "no_input"
	KindServiceFailure ErrorKind = "service_failure"
)

// Для errors.Is без приведения к *ErrorReport.
var (
	ErrNoInput        = errors.New("no input")
	ErrServiceFailure = errors.New("service failure")
)

const noInputMessage = "Please provide text or an image."

// ErrorReport — причина, по которой ход не завершился. Message показывается пользователю.
type ErrorReport struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ErrorReport) Error() string { return e.Message }

func (e *ErrorReport) Unwrap() error { return e.Err }

func (e *ErrorReport) Is(target error) bool {
	switch target {
	case ErrNoInput:
		return e.Kind == KindNoInput
	case ErrServiceFailure:
		return e.Kind == KindServiceFailure
	}
	return false
}

func noInput() *ErrorReport {
	return &ErrorReport{Kind: KindNoInput, Message: noInputMessage}
}

func serviceFailure(err error) *ErrorReport {
	return &ErrorReport{Kind: KindServiceFailure, Message: "An error occurred: " + err.Error(), Err: err}
}
