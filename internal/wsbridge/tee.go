package wsbridge

import "github.com/aethervoice/assistant/internal/asrstream"

// sideChannelCapacity bounds how far the bridge may lag behind the live
// transcript stream before events for slow broadcast fan-out start being
// dropped, rather than the producer (StreamingASR.send) ever blocking on
// a full side channel.
const sideChannelCapacity = 64

// sideChannelSource is the subset of *asrstream.StreamingASR this package
// depends on, so tests can supply a fake.
type sideChannelSource interface {
	SetSideChannel(ch chan<- asrstream.StreamingEvent)
}

// Attach creates a side channel sized for broadcast fan-out and registers
// it on asr, returning the receive end for Bridge.Run. This never reads
// from asr.Events() — that queue is reserved for the gRPC Transcribe
// handler — so the bridge cannot apply backpressure to the pipeline.
func Attach(asr sideChannelSource) <-chan asrstream.StreamingEvent {
	ch := make(chan asrstream.StreamingEvent, sideChannelCapacity)
	asr.SetSideChannel(ch)
	return ch
}
