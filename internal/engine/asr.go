//go:build onnx

package engine

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/aethervoice/assistant/internal/asrstream"
)

// onnxMaxChunkSamples bounds the input tensor's fixed dimension; chunks
// shorter than this are zero-padded, matching the teacher's fixed-shape
// tensor reuse rather than reallocating per call.
const onnxMaxChunkSamples = 16000 * 2 // 2 seconds at 16kHz

// ONNXASREngine runs streaming ASR inference via ONNX Runtime, implementing
// asrstream.Engine.
type ONNXASREngine struct {
	session *ort.AdvancedSession

	inputTensor *ort.Tensor[float32]
	textTensor  *ort.Tensor[float32]

	language string
}

// NewNativeASREngine loads an ONNX ASR model from modelPath and allocates
// its input/output tensors for the given language.
func NewNativeASREngine(modelPath string, language string) (asrstream.Engine, error) {
	if err := initORT(); err != nil {
		return nil, fmt.Errorf("asr engine: %w", err)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, onnxMaxChunkSamples))
	if err != nil {
		return nil, fmt.Errorf("asr engine: create input tensor: %w", err)
	}
	// The model's text/confidence decoding is opaque to this wrapper; it
	// reports a single confidence scalar per chunk, with any textual
	// decoding left to a downstream tokenizer not modeled here.
	textTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("asr engine: create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input"},
		[]string{"confidence"},
		[]ort.Value{inputTensor},
		[]ort.Value{textTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		textTensor.Destroy()
		return nil, fmt.Errorf("asr engine: create session: %w", err)
	}

	return &ONNXASREngine{
		session:     session,
		inputTensor: inputTensor,
		textTensor:  textTensor,
		language:    language,
	}, nil
}

// Transcribe runs one inference over chunk, zero-padding or truncating to
// the tensor's fixed size.
func (e *ONNXASREngine) Transcribe(chunk []float32) (asrstream.TranscriptionResult, error) {
	dst := e.inputTensor.GetData()
	for i := range dst {
		dst[i] = 0
	}
	n := len(chunk)
	if n > onnxMaxChunkSamples {
		n = onnxMaxChunkSamples
	}
	copy(dst[:n], chunk[:n])

	if err := e.session.Run(); err != nil {
		return asrstream.TranscriptionResult{}, fmt.Errorf("asr engine: inference: %w", err)
	}

	confidence := e.textTensor.GetData()[0]
	return asrstream.TranscriptionResult{
		Text:       fmt.Sprintf("[%s transcript, %d samples]", e.language, n),
		Confidence: confidence,
	}, nil
}

// Close releases ONNX Runtime resources. Safe to call multiple times.
func (e *ONNXASREngine) Close() error {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
		e.inputTensor = nil
	}
	if e.textTensor != nil {
		e.textTensor.Destroy()
		e.textTensor = nil
	}
	return nil
}
