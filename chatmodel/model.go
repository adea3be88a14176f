package chatmodel

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

var (
	// ErrFailedUnmarshalInput is returned by tools when the agent-provided
	// input does not decode into the tool's request schema.
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

	// ErrInvalidDate is returned when a user-supplied date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date format")
)

// ContentProvider is implemented by tool inputs and outputs that can be
// rendered into the chat history.
type ContentProvider interface {
	GetContent() string
}

type Stringer interface {
	String() string
}

func Stringify(s any) string {
	if v, ok := s.(Stringer); ok {
		return v.String()
	}
	if v, ok := s.(ContentProvider); ok {
		return v.GetContent()
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}
