package agent

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/JaimeStill/mandate/pkg/formatting"
)

// Kind distinguishes how an agent delivered its result.
type Kind int

const (
	// KindObject is a result delivered as JSON directly in the response envelope.
	KindObject Kind = iota
	// KindWrapped is a result delivered as a string that must be parsed again.
	KindWrapped
)

func (k Kind) String() string {
	if k == KindWrapped {
		return "wrapped"
	}
	return "object"
}

// Response is the result of an agent call: either a JSON value or a wrapped string.
type Response struct {
	kind    Kind
	content string
}

// ObjectResponse builds a Response holding raw JSON.
func ObjectResponse(raw []byte) Response {
	return Response{kind: KindObject, content: string(raw)}
}

// WrappedResponse builds a Response holding text that encodes the result.
func WrappedResponse(text string) Response {
	return Response{kind: KindWrapped, content: text}
}

// Kind reports how the result was delivered.
func (r Response) Kind() Kind {
	return r.kind
}

// Content returns the raw JSON for object responses or the text for wrapped ones.
func (r Response) Content() string {
	return r.content
}

// ParseResponse classifies an agent service response body.
// The result is read from the "response" field when present, otherwise from the
// body itself. Bodies that are not valid JSON are treated as wrapped text.
func ParseResponse(body []byte) (Response, error) {
	if !gjson.ValidBytes(body) {
		return WrappedResponse(string(body)), nil
	}

	field := gjson.GetBytes(body, "response")
	if !field.Exists() {
		return ObjectResponse(body), nil
	}

	switch {
	case field.Type == gjson.String:
		return WrappedResponse(field.Str), nil
	case field.IsObject(), field.IsArray():
		return ObjectResponse([]byte(field.Raw)), nil
	}

	return Response{}, fmt.Errorf("%w: response field is %s", ErrEmptyResponse, field.Type)
}

// Decode unwraps r and parses its content into T.
// Object responses are decoded directly; wrapped responses are sanitized and
// parsed through formatting.Parse, which surfaces the raw text on failure.
func Decode[T any](r Response) (T, error) {
	if r.kind == KindObject {
		var result T
		if err := json.Unmarshal([]byte(r.content), &result); err == nil {
			return result, nil
		}
	}
	return formatting.Parse[T](r.content)
}
