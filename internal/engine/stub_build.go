//go:build !onnx

package engine

import (
	"github.com/aethervoice/assistant/internal/asrstream"
	"github.com/aethervoice/assistant/internal/detector"
)

// NativeAvailable reports that no ONNX backend is compiled in.
func NativeAvailable() bool { return false }

// NewNativeClassifier returns an error when built without the onnx tag.
func NewNativeClassifier(_ string, _ float32) (detector.Classifier, error) {
	return nil, ErrNativeUnavailable
}

// NewNativeASREngine returns an error when built without the onnx tag.
func NewNativeASREngine(_ string, _ string) (asrstream.Engine, error) {
	return nil, ErrNativeUnavailable
}
