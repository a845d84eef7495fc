// Command assistant runs the capture -> VAD -> wake-word -> streaming ASR
// pipeline behind a gRPC service, a Prometheus metrics endpoint, and a
// websocket transcript bridge.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/aethervoice/assistant/internal/asrstream"
	"github.com/aethervoice/assistant/internal/audio"
	"github.com/aethervoice/assistant/internal/capture"
	"github.com/aethervoice/assistant/internal/config"
	"github.com/aethervoice/assistant/internal/detector"
	"github.com/aethervoice/assistant/internal/engine"
	"github.com/aethervoice/assistant/internal/metrics"
	"github.com/aethervoice/assistant/internal/rpc"
	"github.com/aethervoice/assistant/internal/vad"
	"github.com/aethervoice/assistant/internal/wsbridge"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Loader{EnvFilePath: ".env"}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting assistant",
		"version", version,
		"listen_addr", cfg.ListenAddr,
		"metrics_addr", cfg.MetricsAddr,
	)

	// STEP 1: bind the listener before any engine/classifier initialization,
	// so clients can connect (and see NOT_SERVING) while models load.
	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Error("failed to bind listener", "error", err)
		os.Exit(1)
	}
	defer lis.Close()
	logger.Info("listener bound, port ready", "addr", lis.Addr().String())

	// STEP 2: gRPC server with a lazy service wrapper and health endpoint.
	grpcServer := grpc.NewServer(rpc.ServerCodecOption())
	healthServer := health.NewServer()
	healthgrpc.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthgrpc.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(rpc.ServiceName, healthgrpc.HealthCheckResponse_NOT_SERVING)

	lazy := &rpc.LazyHandler{}
	rpc.RegisterAssistantServer(grpcServer, lazy)

	serverErr := make(chan error, 1)
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serverErr <- err
		}
	}()
	logger.Info("gRPC server started (NOT_SERVING while initializing)")

	// STEP 3: metrics registry and HTTP endpoint. The websocket transcript
	// bridge shares this listener under /ws/transcript rather than opening
	// a third port.
	registry := metrics.NewRegistry()
	bridge := wsbridge.New(logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	mux.Handle("/ws/transcript", bridge)
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server terminated with error", "error", err)
		}
	}()
	logger.Info("metrics server started", "addr", cfg.MetricsAddr)

	// STEP 4: resolve the wake-word classifier and ASR engine, falling back
	// to deterministic stubs when the onnx backend isn't compiled in or a
	// model path wasn't configured.
	classifier := resolveClassifier(cfg, logger, registry)
	asrEngine := resolveASREngine(cfg, logger, registry)

	det, err := detector.New(detectorConfig(cfg), classifier)
	if err != nil {
		logger.Error("failed to create detector", "error", err)
		os.Exit(1)
	}
	det.SetLogger(logger)
	det.Start()

	streaming, err := asrstream.New(asrEngine, audio.CanonicalFormat(), asrConfig(cfg))
	if err != nil {
		logger.Error("failed to create streaming asr", "error", err)
		os.Exit(1)
	}
	streaming.SetLogger(logger)
	streaming.Start()

	// STEP 5: wire the websocket transcript bridge off StreamingASR's side
	// channel, so the bridge never steals events from the gRPC Transcribe
	// handler.
	bridgeEvents := wsbridge.Attach(streaming)

	// STEP 6: activate the real RPC service and flip health to SERVING.
	lazy.Set(rpc.NewServer(&rpc.Pipeline{Detector: det, ASR: streaming}, logger))
	healthServer.SetServingStatus("", healthgrpc.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(rpc.ServiceName, healthgrpc.HealthCheckResponse_SERVING)
	logger.Info("assistant ready to serve requests")

	// STEP 7: capture, sampler, and bridge loops run under an errgroup so the
	// first failure cancels everyone else.
	group, groupCtx := errgroup.WithContext(ctx)

	source := capture.NewNullSource()
	group.Go(func() error {
		return runCapture(groupCtx, source, det, streaming, logger)
	})

	sampler := metrics.NewSampler(registry, det, streaming)
	group.Go(func() error {
		sampler.Run(groupCtx)
		return nil
	})

	group.Go(func() error {
		bridge.Run(groupCtx, bridgeEvents)
		return nil
	})

	// STEP 8: graceful shutdown.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		logger.Info("shutdown requested, stopping gRPC server")
		healthServer.SetServingStatus(rpc.ServiceName, healthgrpc.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus("", healthgrpc.HealthCheckResponse_NOT_SERVING)

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			logger.Warn("graceful stop timed out, forcing stop")
			grpcServer.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown error", "error", err)
		}

		source.Close()
		streaming.Stop()
		det.Stop()
		close(shutdownDone)
	}()

	select {
	case err := <-serverErr:
		logger.Error("gRPC server terminated with error", "error", err)
		os.Exit(1)
	case <-shutdownDone:
	}

	if err := group.Wait(); err != nil {
		logger.Error("worker group terminated with error", "error", err)
	}
	logger.Info("assistant stopped")
}

// runCapture drains source and fans every frame into both the wake-word
// detector and the streaming ASR processor.
func runCapture(ctx context.Context, source capture.Source, det *detector.Detector, streaming *asrstream.StreamingASR, logger *slog.Logger) error {
	frames, err := source.Start(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if err := det.ProcessAudio(frame); err != nil {
				logger.Error("detector processing error", "error", err)
			}

			floats := make([]float32, len(frame))
			for i, sample := range frame {
				floats[i] = audio.I16ToF32(sample)
			}
			if err := streaming.Push(ctx, floats); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				logger.Error("streaming asr push error", "error", err)
			}
		}
	}
}

// resolveClassifier returns the onnx-backed wake-word classifier when a
// model path is configured and the onnx build tag is compiled in,
// otherwise a deterministic stub, mirroring the teacher's auto/stub
// resolution.
func resolveClassifier(cfg config.Config, logger *slog.Logger, registry *metrics.Registry) detector.Classifier {
	if cfg.WakewordModelPath != "" && engine.NativeAvailable() {
		native, err := engine.NewNativeClassifier(cfg.WakewordModelPath, float32(cfg.WakewordSensitivity))
		if err != nil {
			logger.Warn("native wake-word classifier unavailable, falling back to stub", "error", err)
		} else {
			logger.Info("wake-word classifier ready", "type", "onnx", "model", cfg.WakewordModelPath)
			return metrics.WrapClassifier(native, registry)
		}
	} else if cfg.WakewordModelPath != "" {
		logger.Warn("wakeword_model_path configured but onnx backend not compiled in (build with -tags onnx), falling back to stub")
	}
	logger.Warn("using stub wake-word classifier — detections are a trivial energy threshold, not a trained model")
	return metrics.WrapClassifier(&detector.StubClassifier{}, registry)
}

// resolveASREngine mirrors resolveClassifier for the streaming ASR engine.
func resolveASREngine(cfg config.Config, logger *slog.Logger, registry *metrics.Registry) asrstream.Engine {
	if cfg.ASRModelPath != "" && engine.NativeAvailable() {
		native, err := engine.NewNativeASREngine(cfg.ASRModelPath, cfg.ASRLanguage)
		if err != nil {
			logger.Warn("native asr engine unavailable, falling back to stub", "error", err)
		} else {
			logger.Info("asr engine ready", "type", "onnx", "model", cfg.ASRModelPath)
			return metrics.WrapEngine(native, registry)
		}
	} else if cfg.ASRModelPath != "" {
		logger.Warn("asr_model_path configured but onnx backend not compiled in (build with -tags onnx), falling back to stub")
	}
	logger.Warn("using stub asr engine — transcripts are not real speech recognition")
	return metrics.WrapEngine(&asrstream.StubEngine{}, registry)
}

func detectorConfig(cfg config.Config) detector.Config {
	return detector.Config{
		Sensitivity: float32(cfg.WakewordSensitivity),
		SampleRate:  audio.CanonicalSampleRate,
		VAD: vad.Config{
			EnergyThreshold:       float32(cfg.VADEnergyThreshold),
			ZCRThreshold:          float32(cfg.VADZCRThreshold),
			FrameSize:             cfg.VADFrameSize,
			SpeechFramesRequired:  cfg.VADSpeechFramesRequired,
			SilenceFramesRequired: cfg.VADSilenceFramesRequired,
		},
		EnableVADPrefilter: true,
	}
}

func asrConfig(cfg config.Config) asrstream.Config {
	return asrstream.Config{
		ChunkDurationMs:      uint64(cfg.ChunkDurationMs),
		OverlapMs:            uint64(cfg.OverlapMs),
		MaxBufferDurationSec: asrstream.DefaultMaxBufferDurationSec,
		MinPartialConfidence: asrstream.DefaultMinPartialConfidence,
		EnablePartialResults: true,
		MaxQueueSize:         cfg.MaxQueueSize,
	}
}

func newLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
