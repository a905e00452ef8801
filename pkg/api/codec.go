package api

import (
	"encoding/json"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
)

// Codec returns the JSON codec used by both handlers and clients. Messages
// are plain Go structs, so it replaces Connect's protobuf JSON codec.
func Codec() connect.Codec {
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the validate struct tags of a request message.
func Validate(msg any) error {
	return validate.Struct(msg)
}
