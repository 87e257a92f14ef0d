package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response body is read.
const maxErrorBody = 1 << 20

// StatusError is returned for non-2xx responses once the body has been
// consumed. Message holds the server-supplied diagnostic, or the caller's
// default when the body carried none.
type StatusError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// errorBody covers both the flat {"error": "..."} shape and the
// {"error": {"code": "...", "message": "..."}} envelope.
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseStatusError reads and closes the body of a non-2xx response and
// returns a *StatusError. defaultMessage is used when no diagnostic is found.
func ParseStatusError(resp *http.Response, defaultMessage string) *StatusError {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &StatusError{StatusCode: resp.StatusCode, Message: defaultMessage}
	}

	return &StatusError{
		StatusCode: resp.StatusCode,
		Message:    ErrorMessage(body, defaultMessage),
		Body:       body,
	}
}

// ErrorMessage extracts the "error" diagnostic from a JSON body.
func ErrorMessage(body []byte, defaultMessage string) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil || len(eb.Error) == 0 {
		return defaultMessage
	}

	var flat string
	if json.Unmarshal(eb.Error, &flat) == nil {
		if flat == "" {
			return defaultMessage
		}
		return flat
	}

	var env errorEnvelope
	if json.Unmarshal(eb.Error, &env) == nil && env.Message != "" {
		return env.Message
	}

	return defaultMessage
}

// IsSuccess reports whether the status code is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
