package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Result is the normalized outcome of an upstream call: Success, AuthRejected
// or Failure.
type Result interface {
	isResult()
}

// Success carries the data field and the full body of a code-0 response.
type Success struct {
	Data json.RawMessage
	Body json.RawMessage
}

// AuthRejected means the upstream no longer accepts the session.
type AuthRejected struct {
	Message string
}

// Failure is any other non-success status.
type Failure struct {
	Code    string
	Message string
}

// HasData reports whether the data field is present, even as an empty list.
func (s Success) HasData() bool {
	d := bytes.TrimSpace(s.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

func (Success) isResult()      {}
func (AuthRejected) isResult() {}
func (Failure) isResult()      {}

// Classify is the single place status codes are interpreted.
func Classify(resp *Response) Result {
	if resp == nil {
		return Failure{Message: "empty response"}
	}
	switch resp.Code {
	case CodeSuccess:
		return Success{Data: resp.Data, Body: resp.Body}
	case CodeAuthRejected:
		return AuthRejected{Message: resp.Message()}
	default:
		return Failure{Code: string(resp.Code), Message: resp.Message()}
	}
}

// AuthRejectedError is the error form of AuthRejected.
type AuthRejectedError struct {
	Message string
}

func (e *AuthRejectedError) Error() string {
	if e.Message == "" {
		return "upstream rejected session"
	}
	return "upstream rejected session: " + e.Message
}

// UpstreamError is the error form of Failure.
type UpstreamError struct {
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error %s: %s", e.Code, e.Message)
}

// TransportError wraps anything that kept a decoded response from arriving.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Err converts a non-success result into its error; Success yields nil.
func Err(r Result) error {
	switch v := r.(type) {
	case Success:
		return nil
	case AuthRejected:
		return &AuthRejectedError{Message: v.Message}
	case Failure:
		return &UpstreamError{Code: v.Code, Message: v.Message}
	default:
		return errors.New("unknown result")
	}
}
