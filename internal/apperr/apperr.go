// internal/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	BackendUnavailable      Kind = "backend_unavailable"
	Validation              Kind = "validation"
	PartialUpload           Kind = "partial_upload"
	RemoteDeleteUnconfirmed Kind = "remote_delete_unconfirmed"
	PartiallyWritten        Kind = "partially_written"
	Unauthorized            Kind = "unauthorized"
	Forbidden               Kind = "forbidden"
	NotFound                Kind = "not_found"
	Internal                Kind = "internal"
)

// Error is the error type every catalog operation returns. PublicMsg is safe to
// show to an operator; Err is the underlying cause and is only logged.
type Error struct {
	Kind      Kind
	PublicMsg string
	Fields    map[string]string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.PublicMsg != "" {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.PublicMsg, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, apperr.ErrBackendUnavailable).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.PublicMsg == "" && t.Err == nil
}

// Sentinels for errors.Is.
var (
	ErrBackendUnavailable = &Error{Kind: BackendUnavailable}
	ErrValidation         = &Error{Kind: Validation}
	ErrPartialUpload      = &Error{Kind: PartialUpload}
	ErrPartiallyWritten   = &Error{Kind: PartiallyWritten}
	ErrUnauthorized       = &Error{Kind: Unauthorized}
	ErrForbidden          = &Error{Kind: Forbidden}
	ErrNotFound           = &Error{Kind: NotFound}
)

func BackendUnavailableErr(err error) *Error {
	return &Error{Kind: BackendUnavailable, PublicMsg: "catalog backend is unavailable", Err: err}
}

func ValidationErr(publicMsg string, fields map[string]string) *Error {
	return &Error{Kind: Validation, PublicMsg: publicMsg, Fields: fields}
}

// RemoteRejected is a validation failure reported by the store rather than
// detected locally.
func RemoteRejected(err error) *Error {
	return &Error{Kind: Validation, PublicMsg: "the catalog backend rejected the request", Err: err}
}

func PartialUploadErr(failed, total int) *Error {
	return &Error{Kind: PartialUpload, PublicMsg: fmt.Sprintf("%d of %d images failed to upload", failed, total)}
}

func RemoteDeleteUnconfirmedErr(url string, err error) *Error {
	return &Error{Kind: RemoteDeleteUnconfirmed, PublicMsg: "image delete not confirmed: " + url, Err: err}
}

func PartiallyWrittenErr(publicMsg string, err error) *Error {
	return &Error{Kind: PartiallyWritten, PublicMsg: publicMsg, Err: err}
}

func UnauthorizedErr(publicMsg string) *Error {
	return &Error{Kind: Unauthorized, PublicMsg: publicMsg}
}

func ForbiddenErr(publicMsg string) *Error {
	return &Error{Kind: Forbidden, PublicMsg: publicMsg}
}

func NotFoundErr(publicMsg string) *Error {
	return &Error{Kind: NotFound, PublicMsg: publicMsg}
}

// Wrap marks an unexpected error as internal. Errors that already carry a kind
// are returned unchanged.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &Error{Kind: Internal, Err: err}
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return Internal
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case BackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return "Internal server error"
}
