package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Upstream status codes.
const (
	CodeSuccess      = "0"
	CodeAuthRejected = "-2"
)

// Code is the upstream status code. The service sends it either as a JSON
// number or a string; both decode to the same canonical text.
type Code string

func (c *Code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Code(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("code: %w", err)
	}
	*c = Code(n.String())
	return nil
}

// Response is the decoded upstream envelope.
type Response struct {
	Code   Code            `json:"code"`
	Msg    string          `json:"msg"`
	ErrMsg string          `json:"errMsg"`
	Data   json.RawMessage `json:"data"`

	// Body is the whole payload; some endpoints put pagination next to data.
	Body json.RawMessage `json:"-"`
}

// Message returns msg, falling back to errMsg.
func (r *Response) Message() string {
	if r.Msg != "" {
		return r.Msg
	}
	return r.ErrMsg
}

// Decode parses an upstream body.
func Decode(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	resp.Body = append(json.RawMessage(nil), body...)
	return &resp, nil
}
