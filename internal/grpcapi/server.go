// Package grpcapi mirrors internal/httpapi's read-only surface over gRPC,
// per SPEC_FULL.md §6. Request/response framing reuses jsonCodec (codec.go)
// instead of protoc-gen-go output, since no .proto toolchain step runs
// here; wire semantics are otherwise a normal unary grpc.Server.
package grpcapi

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/dplane-collective/solana-tx-p2p/internal/query"
)

// NewServer builds a *grpc.Server exposing ServiceName's four methods
// against the given PeerService, with server reflection registered so
// grpcurl-style clients can enumerate it.
func NewServer(service query.PeerService) *grpc.Server {
	s := grpc.NewServer()
	s.RegisterService(&serviceDesc, &server{service: service})
	reflection.Register(s)
	return s
}
