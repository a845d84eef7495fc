//go:build !onnx

package engine

import "testing"

func TestNativeAvailableFalseWithoutOnnxTag(t *testing.T) {
	if NativeAvailable() {
		t.Error("expected NativeAvailable to report false without the onnx build tag")
	}
}

func TestNewNativeClassifierErrorsWithoutOnnxTag(t *testing.T) {
	if _, err := NewNativeClassifier("model.onnx", 0.5); err != ErrNativeUnavailable {
		t.Errorf("got err=%v, want ErrNativeUnavailable", err)
	}
}

func TestNewNativeASREngineErrorsWithoutOnnxTag(t *testing.T) {
	if _, err := NewNativeASREngine("model.onnx", "en"); err != ErrNativeUnavailable {
		t.Errorf("got err=%v, want ErrNativeUnavailable", err)
	}
}
