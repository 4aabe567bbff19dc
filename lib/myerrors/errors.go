package myerrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type httpErrorCoder interface {
	error
	GetHTTPErrorCode() int
}

type httpError struct {
	httpCode int
	err      error
	detail   json.RawMessage
}

func (e *httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e *httpError) Unwrap() error {
	return e.err
}

func (e *httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

// WithDetail attaches a raw payload (typically the body returned by a remote party)
// that is passed on to the caller for diagnosis.
func (e *httpError) WithDetail(detail []byte) *httpError {
	e.detail = asRawJSON(detail)
	return e
}

func newError(httpCode int, err error) *httpError {
	return &httpError{
		httpCode: httpCode,
		err:      err,
	}
}

func NewInvalidInputError(err error) *httpError {
	return newError(http.StatusBadRequest, err)
}

func NewUnsupportedMediaTypeError(err error) *httpError {
	return newError(http.StatusUnsupportedMediaType, err)
}

func NewInternalError(err error) *httpError {
	return newError(http.StatusInternalServerError, err)
}

// NewErrorWithStatus is used when the status is decided by configuration instead of by the error kind.
func NewErrorWithStatus(httpCode int, err error) *httpError {
	if httpCode < 400 || httpCode > 599 {
		httpCode = http.StatusInternalServerError
	}
	return newError(httpCode, err)
}

func GetHTTPStatus(err error) int {
	var coder httpErrorCoder
	if err != nil && errors.As(err, &coder) {
		return coder.GetHTTPErrorCode()
	}
	return http.StatusInternalServerError
}

// GetMessage returns the human readable message without the status prefix.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.err.Error()
	}
	return err.Error()
}

func GetDetail(err error) json.RawMessage {
	var httpErr *httpError
	if err != nil && errors.As(err, &httpErr) {
		return httpErr.detail
	}
	return nil
}

func asRawJSON(payload []byte) json.RawMessage {
	if len(payload) == 0 {
		return nil
	}
	if json.Valid(payload) {
		return json.RawMessage(payload)
	}
	// Non-json bodies (html error pages and the like) are passed on as a json string
	quoted, err := json.Marshal(string(payload))
	if err != nil {
		return nil
	}
	return json.RawMessage(quoted)
}
