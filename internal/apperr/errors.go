// internal/apperr/errors.go
package apperr

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибку на границе операции.
type Kind int

const (
	KindUnknown Kind = iota
	KindWallet
	KindNetwork
	KindValidation
	KindNoRoute
	KindBroadcast
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindWallet:
		return "wallet"
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindNoRoute:
		return "no_route"
	case KindBroadcast:
		return "broadcast"
	default:
		return "unknown"
	}
}

// GenericMessage is shown when an error carries no user text.
const GenericMessage = "Something went wrong. Please try again."

// Error – ошибка операции с сообщением для пользователя.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an operation error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a user message and kind to err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// UserMessage returns the text to render for err. Errors that never passed
// an operation boundary get the generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return GenericMessage
}

// KindOf returns the kind of err or KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
