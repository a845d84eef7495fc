package rpc

import (
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LazyHandler satisfies Handler immediately at listener bind time, before
// the detector/ASR pipeline has finished initializing, and returns
// Unavailable until Set is called with the real implementation. This lets
// the gRPC server start accepting connections (and the health check start
// answering) before model loading completes.
type LazyHandler struct {
	real atomic.Pointer[Server]
}

// Set installs the real Server. Safe to call once from any goroutine;
// later calls replace the previous target.
func (l *LazyHandler) Set(server *Server) {
	l.real.Store(server)
}

// Ready reports whether a real Server has been installed.
func (l *LazyHandler) Ready() bool {
	return l.real.Load() != nil
}

func (l *LazyHandler) DetectWakeWord(stream grpc.ServerStream) error {
	server := l.real.Load()
	if server == nil {
		return status.Error(codes.Unavailable, "assistant pipeline is still starting up")
	}
	return server.DetectWakeWord(stream)
}

func (l *LazyHandler) Transcribe(stream grpc.ServerStream) error {
	server := l.real.Load()
	if server == nil {
		return status.Error(codes.Unavailable, "assistant pipeline is still starting up")
	}
	return server.Transcribe(stream)
}
