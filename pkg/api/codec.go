package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name; it matches the application/json
// content type.
const CodecName = "json"

// Codec is a connect.Codec that marshals the plain structs in this package
// with encoding/json. It replaces Connect's default JSON codec, which only
// accepts protobuf messages.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string {
	return CodecName
}

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty payload leaves msg zeroed.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
