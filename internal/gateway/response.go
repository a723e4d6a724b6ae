package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	noContentMessage     = "No content"
	authorizationMessage = "Authorization error"
)

var (
	jsonNull       = json.RawMessage("null")
	jsonEmptyArray = json.RawMessage("[]")
)

// Error is a non-2xx backend answer outside the soft-failed 401/403 pair.
// Message is the server's own message when it sent one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusError formats the fallback message used when a body carries none.
func StatusError(status int) string {
	return fmt.Sprintf("Error %d: %s", status, http.StatusText(status))
}

// Payload is a parsed backend body. Envelope responses expose their result
// and message fields; other JSON bodies are kept whole in Body.
type Payload struct {
	Body    json.RawMessage
	Result  json.RawMessage
	Message string
	// SoftFailed marks a 401/403 folded into an empty result.
	SoftFailed bool
}

type envelope struct {
	Result  json.RawMessage `json:"result"`
	Message *string         `json:"message"`
}

// ResultIsNull reports whether the body carried "result": null exactly.
// A missing result field does not count.
func (p *Payload) ResultIsNull() bool {
	return p != nil && p.Result != nil && bytes.Equal(bytes.TrimSpace(p.Result), jsonNull)
}

// DecodeResult unmarshals the result field into v. Null and missing results
// leave v untouched.
func (p *Payload) DecodeResult(v any) error {
	if p == nil || len(p.Result) == 0 || p.ResultIsNull() {
		return nil
	}
	return json.Unmarshal(p.Result, v)
}

// Decode unmarshals the whole body into v. An empty body leaves v untouched.
func (p *Payload) Decode(v any) error {
	if p == nil || len(p.Body) == 0 {
		return nil
	}
	return json.Unmarshal(p.Body, v)
}

// HandleResponse normalizes resp and closes its body.
//
//	204        result null, message "No content"
//	401, 403   soft-fail: result [], message from the JSON body or status text
//	other !2xx *Error with the server message or status text
//	2xx        parsed JSON body; an empty body yields an empty Payload
func HandleResponse(resp *http.Response) (*Payload, error) {
	if resp == nil {
		return nil, errors.New("nil response")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return &Payload{Result: jsonNull, Message: noContentMessage}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message, parsed := errorMessage(body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			switch {
			case message != "":
			case parsed:
				message = authorizationMessage
			default:
				message = StatusError(resp.StatusCode)
			}
			return &Payload{Result: jsonEmptyArray, Message: message, SoftFailed: true}, nil
		}
		if message == "" {
			message = StatusError(resp.StatusCode)
		}
		return nil, &Error{Status: resp.StatusCode, Message: message}
	}

	return parsePayload(body)
}

// strictResponse is HandleResponse without the 401/403 soft-fail: any
// non-2xx answer becomes an *Error carrying the server message.
func strictResponse(resp *http.Response) (*Payload, error) {
	if resp == nil {
		return nil, errors.New("nil response")
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return HandleResponse(resp)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return nil, textError(resp.StatusCode, body)
}

func parsePayload(body []byte) (*Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &Payload{}, nil
	}
	if !json.Valid(body) {
		return nil, errors.New("invalid JSON in response body")
	}

	p := &Payload{Body: json.RawMessage(body)}
	if body[0] == '{' {
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil {
			p.Result = env.Result
			if env.Message != nil {
				p.Message = *env.Message
			}
		}
	}
	return p, nil
}

// errorMessage extracts "message", or "error.message", from a JSON error
// body. parsed reports whether the body was JSON at all.
func errorMessage(body []byte) (message string, parsed bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return "", false
	}
	var env struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", true
	}
	if env.Message != "" {
		return env.Message, true
	}
	return env.Error.Message, true
}

// textError builds an *Error from a plain-text error body, as sent by the
// login, registration and recovery endpoints.
// A JSON body contributes its message field instead of its raw text.
func textError(status int, body []byte) *Error {
	message, parsed := errorMessage(body)
	if !parsed {
		message = string(bytes.TrimSpace(body))
	}
	if message == "" {
		message = StatusError(status)
	}
	return &Error{Status: status, Message: message}
}
