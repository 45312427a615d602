package constants

import "net/http"

// CodedError is an error that knows which HTTP status it maps to. The echo
// error handler unwraps to the first CodedError in the chain.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrUnauthorized = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrForbidden    = NewCodedError("forbidden", http.StatusForbidden)
	ErrDBNotFound   = NewCodedError("not found", http.StatusNotFound)

	ErrInvalidParams       = NewCodedError("invalid params", http.StatusBadRequest)
	ErrUnknownReportType   = NewCodedError("unknown report type", http.StatusBadRequest)
	ErrUnsupportedGrouping = NewCodedError("unsupported report grouping", http.StatusBadRequest)
	ErrUnknownCacheAction  = NewCodedError("unknown cache action", http.StatusBadRequest)
	ErrUnknownCacheFamily  = NewCodedError("unknown cache family", http.StatusBadRequest)

	ErrCacheUnavailable = NewCodedError("cache table is not available", http.StatusConflict)
)
