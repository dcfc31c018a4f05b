package httperr

import "errors"

// Kind classifies a business error so handlers can map it to a status code.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindAuth         Kind = "auth"
	KindInvalidState Kind = "invalid_state"
	KindConflict     Kind = "conflict"
	KindPersistence  Kind = "persistence"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrAuth(code string) error {
	return BusinessError{Kind: KindAuth, Code: code}
}

func ErrInvalidState(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrPersistence(code string) error {
	return BusinessError{Kind: KindPersistence, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}
