// Package engine provides native, ONNX-Runtime-backed implementations of
// detector.Classifier and asrstream.Engine, mirroring the teacher's own
// native/stub engine split: a build-tag-gated native backend that requires
// a real model file and the onnxruntime shared library, with stub
// implementations living alongside detector and asrstream for the default
// build.
package engine

import "errors"

// ErrNativeUnavailable indicates the ONNX backend is not compiled in.
var ErrNativeUnavailable = errors.New("engine: onnx backend not available (build with -tags onnx)")
