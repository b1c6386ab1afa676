package apperror

import "net/http"

// Kind clasifica los errores operacionales de la aplicación.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindAuthentication
	KindForbidden
	KindValidation
	KindConflict
	KindInternal
)

// Error es un error operacional con mensaje seguro para el cliente.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Operational indica si el error es esperado y su mensaje puede exponerse.
func (e *Error) Operational() bool {
	return e.Kind != KindInternal && e.Kind != 0
}

// HTTPStatus devuelve el código HTTP asociado al tipo de error.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal envuelve errores no operacionales (fallas de infraestructura o bugs).
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
