// Package rpc exposes the capture -> VAD -> wake-word -> streaming ASR
// pipeline over gRPC as two bidirectional-streaming RPCs. The concrete wire
// messages are plain Go structs dispatched through a hand-rolled
// grpc.ServiceDesc using the JSON codec below, rather than protoc-generated
// .pb.go stubs — see SPEC_FULL.md §4.8 for why.
package rpc

import "encoding/json"

// jsonCodec marshals RPC messages as JSON instead of protobuf wire bytes.
// google.golang.org/grpc still owns framing, flow control, streaming, and
// health checking; only the payload encoding differs from a generated
// protobuf service.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}
