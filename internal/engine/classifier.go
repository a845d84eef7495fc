//go:build onnx

package engine

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/aethervoice/assistant/internal/detector"
)

// onnxWindowSamples is the number of float32 samples the wake-word model
// expects per inference call: 32ms at the canonical 16kHz sample rate,
// matching the Silero-family window size this model is distilled from.
const onnxWindowSamples = 512

// ONNXClassifier runs wake-word inference via ONNX Runtime, implementing
// detector.Classifier.
type ONNXClassifier struct {
	session *ort.AdvancedSession

	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]

	sensitivity float32
}

// NewNativeClassifier loads an ONNX wake-word model from modelPath and
// allocates its input/output tensors. sensitivity is the detection
// threshold in [0, 1].
func NewNativeClassifier(modelPath string, sensitivity float32) (detector.Classifier, error) {
	if err := initORT(); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, onnxWindowSamples))
	if err != nil {
		return nil, fmt.Errorf("classifier: create input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("classifier: create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input"},
		[]string{"output"},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("classifier: create session: %w", err)
	}

	return &ONNXClassifier{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		sensitivity:  sensitivity,
	}, nil
}

// Classify runs one inference over frame, which must be exactly
// onnxWindowSamples long; a frame of any other length is rejected with an
// error. The Detector hands over frames of its VAD frame size
// (vad_frame_size, 480 by default), which is not adjusted when the onnx
// backend is in use.
func (c *ONNXClassifier) Classify(frame []int16) (keywordIndex int, confidence float32, detected bool, err error) {
	if len(frame) != onnxWindowSamples {
		return 0, 0, false, fmt.Errorf("classifier: frame length %d, want %d", len(frame), onnxWindowSamples)
	}

	dst := c.inputTensor.GetData()
	for i, sample := range frame {
		dst[i] = float32(sample) / 32768.0
	}

	if err := c.session.Run(); err != nil {
		return 0, 0, false, fmt.Errorf("classifier: inference: %w", err)
	}

	confidence = c.outputTensor.GetData()[0]
	return 0, confidence, confidence >= c.sensitivity, nil
}

// Close releases ONNX Runtime resources. Safe to call multiple times.
func (c *ONNXClassifier) Close() error {
	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
		c.inputTensor = nil
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
		c.outputTensor = nil
	}
	return nil
}
