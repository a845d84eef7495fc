//go:build mic

package capture

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"

	"github.com/aethervoice/assistant/internal/audio"
)

// MicSource captures from the default input device via malgo (a cgo
// binding over miniaudio). It is only compiled in with -tags mic, since
// it depends on a native audio library the default build should not
// require.
type MicSource struct {
	mctx   *malgo.AllocatedContext
	device *malgo.Device
}

// NewMicSource opens a malgo context bound to the default capture device.
// The device itself is not started until Start is called.
func NewMicSource() (*MicSource, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("capture: init malgo context: %w", err)
	}
	return &MicSource{mctx: mctx}, nil
}

func (m *MicSource) Start(ctx context.Context) (<-chan []int16, error) {
	out := make(chan []int16, 4)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = audio.CanonicalSampleRate
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(_, input []byte, frameCount uint32) {
		if input == nil {
			return
		}
		frame := make([]int16, len(input)/2)
		for i := range frame {
			frame[i] = int16(input[i*2]) | int16(input[i*2+1])<<8
		}
		select {
		case out <- frame:
		case <-ctx.Done():
		}
	}

	device, err := malgo.InitDevice(m.mctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		close(out)
		return nil, fmt.Errorf("capture: init malgo device: %w", err)
	}
	m.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		close(out)
		return nil, fmt.Errorf("capture: start malgo device: %w", err)
	}

	go func() {
		<-ctx.Done()
		m.Close()
		close(out)
	}()

	return out, nil
}

// Close uninitializes the device and the malgo context. It does not close
// the frame channel returned by Start; that channel is closed only once the
// context passed to Start is canceled.
func (m *MicSource) Close() error {
	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}
	if m.mctx != nil {
		m.mctx.Uninit()
		m.mctx = nil
	}
	return nil
}
