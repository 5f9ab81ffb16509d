package grpcapi

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements grpc/encoding.Codec over plain JSON-taggable Go
// structs instead of protoc-generated message types. Registering it
// under the name "proto" (grpc-go's default content-subtype) makes every
// unary call in this process use JSON wire encoding without needing a
// .proto/protoc-gen-go toolchain step.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
