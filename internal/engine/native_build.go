//go:build onnx

package engine

// NativeAvailable reports that the ONNX backend is compiled in.
func NativeAvailable() bool { return true }
