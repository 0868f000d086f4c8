package fault

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUniqueViolation     = errors.New("unique violation")
	ErrForeignKeyViolation = errors.New("restricted for deletion")
)

type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
	KindUnavailable
	KindUnrecoverable
	KindRateLimited
	KindTimeout
)

type Fault struct {
	Kind    Kind
	Code    string // kode stabil untuk client, mis. ALREADY_DECIDED
	Message string
	Details any
	Err     error
}

func (e *Fault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.kindString(), e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.kindString(), e.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *Fault) Unwrap() error {
	return e.Err
}

func (e *Fault) kindString() string {
	switch e.Kind {
	case KindValidation:
		return "ValidationError"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindUpstream:
		return "UpstreamError"
	case KindUnavailable:
		return "Unavailable"
	case KindUnrecoverable:
		return "Unrecoverable"
	case KindRateLimited:
		return "RateLimited"
	case KindTimeout:
		return "Timeout"
	default:
		return "UnknownError"
	}
}

// Status memetakan Kind ke HTTP status.
func (e *Fault) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (e *Fault) WithDetails(d any) *Fault {
	e.Details = d
	return e
}

func (e *Fault) WithCode(code string) *Fault {
	e.Code = code
	return e
}

func newFault(k Kind, msg string, err error) *Fault {
	return &Fault{Kind: k, Message: msg, Err: err}
}

func Validation(msg string) *Fault { return newFault(KindValidation, msg, nil) }

func Unauthorized(msg string) *Fault { return newFault(KindUnauthorized, msg, nil) }

func Forbidden(msg string) *Fault { return newFault(KindForbidden, msg, nil) }

func NotFound(msg string) *Fault { return newFault(KindNotFound, msg, ErrNotFound) }

func Conflict(code, msg string) *Fault {
	f := newFault(KindConflict, msg, nil)
	f.Code = code
	return f
}

func Upstream(msg string, err error) *Fault { return newFault(KindUpstream, msg, err) }

func Unavailable(msg string) *Fault { return newFault(KindUnavailable, msg, nil) }

func Unrecoverable(msg string, err error) *Fault { return newFault(KindUnrecoverable, msg, err) }

func RateLimited(msg string, err error) *Fault { return newFault(KindRateLimited, msg, err) }

func Timeout(msg string, err error) *Fault { return newFault(KindTimeout, msg, err) }

// Internal: kegagalan store/unexpected, pesan aman untuk client.
func Internal(msg string, err error) *Fault { return newFault(KindUpstream, msg, err) }

// Domain-specific kodes yang dipakai lintas fitur.
const (
	CodeAlreadySubmitted = "ALREADY_SUBMITTED"
	CodeAlreadyDecided   = "ALREADY_DECIDED"
	CodeMissingResponse  = "MISSING_RESPONSE"
	CodeInvalidSection   = "INVALID_SECTION"
	CodeResponseLocked   = "RESPONSE_LOCKED"
)

func AlreadySubmitted() *Fault {
	return Conflict(CodeAlreadySubmitted, "application already submitted")
}

func AlreadyDecided() *Fault {
	return Conflict(CodeAlreadyDecided, "application already decided with a different outcome")
}

func MissingResponse() *Fault {
	f := Validation("application has no form response")
	f.Code = CodeMissingResponse
	return f
}

func InvalidSection(sectionID string) *Fault {
	f := Validation("section does not belong to this form")
	f.Code = CodeInvalidSection
	f.Details = map[string]string{"section_id": sectionID}
	return f
}

// As mengembalikan *Fault di dalam chain error bila ada.
func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func Is(err error, k Kind) bool {
	f, ok := As(err)
	return ok && f.Kind == k
}

func IsClientError(err error) bool {
	f, ok := As(err)
	return ok && f.Status() < 500
}
