package apperr

import (
	"errors"
	"fmt"
)

// Kind 비즈니스 에러 분류
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidOperation
	KindInvalidState
	KindConflict
	KindForbidden
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidOperation:
		return "INVALID_OPERATION"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindConflict:
		return "CONFLICT"
	case KindForbidden:
		return "FORBIDDEN"
	case KindValidation:
		return "VALIDATION_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Error 도메인 에러. Kind 는 기계 판독용, Message 는 사용자 노출용
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error         { return New(KindNotFound, message) }
func InvalidOperation(message string) *Error { return New(KindInvalidOperation, message) }
func InvalidState(message string) *Error     { return New(KindInvalidState, message) }
func Conflict(message string) *Error         { return New(KindConflict, message) }
func Forbidden(message string) *Error        { return New(KindForbidden, message) }
func Validation(message string) *Error       { return New(KindValidation, message) }

// KindOf err 가 *Error 라면 Kind 를, 아니면 0 을 반환
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// IsKind 에러가 특정 Kind 인지 검사
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
