package grpcapi

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"

	"github.com/dplane-collective/solana-tx-p2p/internal/query"
)

// ServiceName is the gRPC service path clients dial against, mirroring
// the HTTP surface's four read-only routes.
const ServiceName = "txp2p.peer.v1.PeerService"

// server adapts query.PeerService to the four gRPC handlers below.
type server struct {
	service query.PeerService
}

func (s *server) listPeers(ctx context.Context, _ *ListPeersRequest) (*ListPeersResponse, error) {
	peers, err := s.service.ListPeers(ctx)
	if err != nil {
		return nil, err
	}
	resp := &ListPeersResponse{Peers: make([]string, len(peers))}
	for i, p := range peers {
		resp.Peers[i] = string(p)
	}
	return resp, nil
}

func (s *server) listSignedMessages(ctx context.Context, _ *ListSignedMessagesRequest) (*ListSignedMessagesResponse, error) {
	txs, err := s.service.ListSignedMessages(ctx)
	if err != nil {
		return nil, err
	}
	resp := &ListSignedMessagesResponse{Transactions: make([]string, len(txs))}
	for i, tx := range txs {
		raw, err := json.Marshal(tx)
		if err != nil {
			return nil, err
		}
		resp.Transactions[i] = string(raw)
	}
	return resp, nil
}

func (s *server) listRelayedTransactions(ctx context.Context, _ *ListRelayedTransactionsRequest) (*ListRelayedTransactionsResponse, error) {
	sigs, err := s.service.ListRelayedTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return &ListRelayedTransactionsResponse{Signatures: sigs}, nil
}

func (s *server) getTransaction(ctx context.Context, req *GetTransactionRequest) (*GetTransactionResponse, error) {
	detail, err := s.service.GetTransaction(ctx, req.Signature)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return nil, err
	}
	return &GetTransactionResponse{Transaction: string(raw)}, nil
}

// serviceDesc is hand-written in place of protoc-gen-go-grpc output: each
// Handler decodes its request via the registered jsonCodec (see codec.go)
// instead of a generated unmarshaler.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*interface{})(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListPeers",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				req := new(ListPeersRequest)
				if err := dec(req); err != nil {
					return nil, err
				}
				s := srv.(*server)
				if interceptor == nil {
					return s.listPeers(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: s, FullMethod: ServiceName + "/ListPeers"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return s.listPeers(ctx, req.(*ListPeersRequest))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
		{
			MethodName: "ListSignedMessages",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				req := new(ListSignedMessagesRequest)
				if err := dec(req); err != nil {
					return nil, err
				}
				s := srv.(*server)
				if interceptor == nil {
					return s.listSignedMessages(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: s, FullMethod: ServiceName + "/ListSignedMessages"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return s.listSignedMessages(ctx, req.(*ListSignedMessagesRequest))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
		{
			MethodName: "ListRelayedTransactions",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				req := new(ListRelayedTransactionsRequest)
				if err := dec(req); err != nil {
					return nil, err
				}
				s := srv.(*server)
				if interceptor == nil {
					return s.listRelayedTransactions(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: s, FullMethod: ServiceName + "/ListRelayedTransactions"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return s.listRelayedTransactions(ctx, req.(*ListRelayedTransactionsRequest))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
		{
			MethodName: "GetTransaction",
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				req := new(GetTransactionRequest)
				if err := dec(req); err != nil {
					return nil, err
				}
				s := srv.(*server)
				if interceptor == nil {
					return s.getTransaction(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: s, FullMethod: ServiceName + "/GetTransaction"}
				handler := func(ctx context.Context, req interface{}) (interface{}, error) {
					return s.getTransaction(ctx, req.(*GetTransactionRequest))
				}
				return interceptor(ctx, req, info, handler)
			},
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "txp2p/peer.proto",
}
