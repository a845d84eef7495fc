package rpc

import (
	"context"
	"io"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/aethervoice/assistant/internal/asrstream"
	"github.com/aethervoice/assistant/internal/audio"
	"github.com/aethervoice/assistant/internal/detector"
)

// ServiceName is the name clients dial against. There is no .proto file
// backing it, so it is declared here rather than generated.
const ServiceName = "assistant.v1.Assistant"

// Pipeline is everything the RPC layer needs to drive a session: a running
// wake-word detector and a running streaming ASR processor, both already
// wired to their classifier/engine.
type Pipeline struct {
	Detector *detector.Detector
	ASR      *asrstream.StreamingASR
}

// Server implements the two streaming RPCs over a Pipeline.
type Server struct {
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewServer wraps a ready Pipeline.
func NewServer(pipeline *Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipeline: pipeline, logger: logger.With("component", "rpc")}
}

// DetectWakeWord streams inbound AudioChunkMsg frames into the wake-word
// detector and streams out a WakeWordEventMsg per detection.
func (s *Server) DetectWakeWord(stream grpc.ServerStream) error {
	ctx := stream.Context()
	done := make(chan error, 1)

	go func() {
		for {
			event, ok := s.pipeline.Detector.Events().Recv(ctx)
			if !ok {
				done <- ctx.Err()
				return
			}
			msg := &WakeWordEventMsg{
				TimestampMicros: event.TimestampMicros,
				Confidence:      event.Confidence,
				AudioContext:    event.AudioContext,
				KeywordIndex:    event.KeywordIndex,
			}
			if err := stream.SendMsg(msg); err != nil {
				done <- err
				return
			}
		}
	}()

	for {
		var chunk AudioChunkMsg
		if err := stream.RecvMsg(&chunk); err != nil {
			if err == io.EOF {
				return <-done
			}
			return err
		}
		if chunk.SampleRateHz != 0 && chunk.SampleRateHz != audio.CanonicalSampleRate {
			return status.Errorf(codes.InvalidArgument, "unsupported sample_rate_hz %d, want %d", chunk.SampleRateHz, audio.CanonicalSampleRate)
		}
		if err := s.pipeline.Detector.ProcessAudio(chunk.PCM); err != nil {
			s.logger.Error("detector processing error", "error", err)
			return status.Error(codes.Internal, "audio processing failed")
		}
	}
}

// Transcribe streams inbound AudioChunkMsg frames into the streaming ASR
// pipeline and streams out a StreamingEventMsg per window.
func (s *Server) Transcribe(stream grpc.ServerStream) error {
	ctx := stream.Context()
	done := make(chan error, 1)

	go func() {
		for {
			event, ok := s.pipeline.ASR.Events().Recv(ctx)
			if !ok {
				done <- ctx.Err()
				return
			}
			msg := toStreamingEventMsg(event)
			if err := stream.SendMsg(msg); err != nil {
				done <- err
				return
			}
			if event.Kind == asrstream.EventEndOfSpeech {
				done <- nil
				return
			}
		}
	}()

	for {
		var chunk AudioChunkMsg
		if err := stream.RecvMsg(&chunk); err != nil {
			if err == io.EOF {
				if closeErr := s.pipeline.ASR.Close(ctx); closeErr != nil {
					return closeErr
				}
				return <-done
			}
			return err
		}
		floats := make([]float32, len(chunk.PCM))
		for i, sample := range chunk.PCM {
			floats[i] = audio.I16ToF32(sample)
		}
		if err := s.pipeline.ASR.Push(ctx, floats); err != nil {
			if err == context.Canceled || err == context.DeadlineExceeded {
				return status.Error(codes.Canceled, "stream canceled")
			}
			s.logger.Error("asr push error", "error", err)
			return status.Error(codes.Internal, "transcription failed")
		}
	}
}

func toStreamingEventMsg(event asrstream.StreamingEvent) *StreamingEventMsg {
	msg := &StreamingEventMsg{
		Text:        event.Text,
		Confidence:  event.Confidence,
		TimestampMs: event.TimestampMs,
		StartMs:     event.StartMs,
		EndMs:       event.EndMs,
	}
	switch event.Kind {
	case asrstream.EventPartial:
		msg.Kind = kindPartial
	case asrstream.EventFinal:
		msg.Kind = kindFinal
	case asrstream.EventEndOfSpeech:
		msg.Kind = kindEndOfSpeech
	case asrstream.EventError:
		msg.Kind = kindError
		if event.Err != nil {
			msg.Error = event.Err.Error()
		}
	}
	return msg
}

// ServiceDesc describes the two bidirectional-streaming RPCs to
// google.golang.org/grpc without a generated .pb.go file.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Handler)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "DetectWakeWord",
			ServerStreams: true,
			ClientStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				return srv.(Handler).DetectWakeWord(stream)
			},
		},
		{
			StreamName:    "Transcribe",
			ServerStreams: true,
			ClientStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				return srv.(Handler).Transcribe(stream)
			},
		},
	},
}

// Handler is the interface RegisterAssistantServer requires; *Server and
// *LazyHandler both implement it.
type Handler interface {
	DetectWakeWord(stream grpc.ServerStream) error
	Transcribe(stream grpc.ServerStream) error
}

// RegisterAssistantServer registers h against s using ServiceDesc. It does
// not select a codec; the JSON codec is forced for every call only when s
// was created with ServerCodecOption.
func RegisterAssistantServer(s *grpc.Server, h Handler) {
	s.RegisterService(&ServiceDesc, h)
}

// ServerCodecOption returns the grpc.ServerOption that forces jsonCodec.
func ServerCodecOption() grpc.ServerOption {
	return grpc.ForceServerCodec(jsonCodec{})
}
