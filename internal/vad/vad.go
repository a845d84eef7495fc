// Package vad implements the two-stage speech gate's first stage: an
// energy-and-zero-crossing-rate voice activity detector with hysteretic
// state transitions, used as a pre-filter before wake-word classification.
package vad

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// ErrInsufficientData is returned by ProcessFrame when the supplied frame is
// shorter than Config.FrameSize.
var ErrInsufficientData = errors.New("vad: insufficient audio data")

// Config holds the VAD's tunable thresholds and hysteresis windows.
type Config struct {
	// EnergyThreshold is the RMS energy (0.0-1.0) above which a frame is a
	// candidate speech frame.
	EnergyThreshold float32
	// ZCRThreshold is the zero-crossing rate above which a frame is a
	// candidate speech frame.
	ZCRThreshold float32
	// FrameSize is the minimum number of samples ProcessFrame requires.
	FrameSize int
	// SpeechFramesRequired is the number of consecutive speech-candidate
	// frames needed to confirm active speech.
	SpeechFramesRequired int
	// SilenceFramesRequired is the number of consecutive silence-candidate
	// frames needed to confirm speech has ended.
	SilenceFramesRequired int
}

// DefaultConfig returns the VAD defaults: 2% energy threshold, 15% ZCR
// threshold, 30ms frames at 16kHz (480 samples), 90ms to confirm speech, and
// 300ms of silence to end it.
func DefaultConfig() Config {
	return Config{
		EnergyThreshold:       0.02,
		ZCRThreshold:          0.15,
		FrameSize:             480,
		SpeechFramesRequired:  3,
		SilenceFramesRequired: 10,
	}
}

// Validate rejects thresholds outside [0, 1] and a zero frame size.
func (c Config) Validate() error {
	if c.EnergyThreshold < 0 || c.EnergyThreshold > 1 {
		return fmt.Errorf("vad: energy_threshold must be between 0.0 and 1.0, got %v", c.EnergyThreshold)
	}
	if c.ZCRThreshold < 0 || c.ZCRThreshold > 1 {
		return fmt.Errorf("vad: zcr_threshold must be between 0.0 and 1.0, got %v", c.ZCRThreshold)
	}
	if c.FrameSize == 0 {
		return errors.New("vad: frame_size must be greater than 0")
	}
	return nil
}

// State is one of the four hysteretic VAD states.
type State int

const (
	// Silence is the resting state: no speech detected.
	Silence State = iota
	// MaybeSpeech is a candidate speech run awaiting confirmation.
	MaybeSpeech
	// Speech is confirmed active speech.
	Speech
	// MaybeSilence is a candidate end-of-speech run awaiting confirmation.
	MaybeSilence
)

func (s State) String() string {
	switch s {
	case Silence:
		return "silence"
	case MaybeSpeech:
		return "maybe_speech"
	case Speech:
		return "speech"
	case MaybeSilence:
		return "maybe_silence"
	default:
		return "unknown"
	}
}

// Detector is the voice activity detector state machine. A zero Detector is
// not usable; build one with New or NewDefault.
type Detector struct {
	config Config
	logger *slog.Logger

	state             State
	speechFrameCount  int
	silenceFrameCount int
}

// NewDefault creates a Detector with DefaultConfig.
func NewDefault() *Detector {
	d, err := New(DefaultConfig())
	if err != nil {
		// DefaultConfig always validates; a failure here is a programming error.
		panic(err)
	}
	return d
}

// New creates a Detector with the given configuration, validating it first.
func New(config Config) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		config: config,
		state:  Silence,
		logger: slog.Default(),
	}, nil
}

// SetLogger overrides the detector's logger.
func (d *Detector) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

// ProcessFrame analyzes one frame of 16-bit PCM samples, advances the state
// machine, and reports whether speech is active after this frame.
func (d *Detector) ProcessFrame(samples []int16) (bool, error) {
	if len(samples) < d.config.FrameSize {
		return false, fmt.Errorf("%w: need at least %d samples", ErrInsufficientData, d.config.FrameSize)
	}

	energy := calculateEnergy(samples)
	zcr := calculateZeroCrossingRate(samples)
	isSpeechFrame := energy > d.config.EnergyThreshold && zcr > d.config.ZCRThreshold

	d.logger.Debug("vad frame analyzed", "energy", energy, "zcr", zcr, "state", d.state, "speech_frame", isSpeechFrame)

	d.updateState(isSpeechFrame)
	return d.IsSpeechActive(), nil
}

// calculateEnergy returns the RMS energy of samples normalized to [0, 1].
func calculateEnergy(samples []int16) float32 {
	var sumSquares float64
	for _, s := range samples {
		normalized := float64(s) / 32767.0
		sumSquares += normalized * normalized
	}
	rms := sumSquares / float64(len(samples))
	return float32(math.Sqrt(rms))
}

// calculateZeroCrossingRate returns the fraction of adjacent sample pairs
// that cross the zero line.
func calculateZeroCrossingRate(samples []int16) float32 {
	if len(samples) < 2 {
		return 0
	}
	var crossings int
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0 && samples[i] < 0) || (samples[i-1] < 0 && samples[i] >= 0) {
			crossings++
		}
	}
	return float32(crossings) / float32(len(samples)-1)
}

func (d *Detector) updateState(isSpeechFrame bool) {
	switch d.state {
	case Silence:
		if isSpeechFrame {
			d.speechFrameCount = 1
			d.silenceFrameCount = 0
			d.state = MaybeSpeech
		}

	case MaybeSpeech:
		if isSpeechFrame {
			d.speechFrameCount++
			if d.speechFrameCount >= d.config.SpeechFramesRequired {
				d.state = Speech
			}
		} else {
			d.state = Silence
			d.speechFrameCount = 0
		}

	case Speech:
		if !isSpeechFrame {
			d.silenceFrameCount = 1
			d.speechFrameCount = 0
			d.state = MaybeSilence
		} else {
			d.silenceFrameCount = 0
		}

	case MaybeSilence:
		if !isSpeechFrame {
			d.silenceFrameCount++
			if d.silenceFrameCount >= d.config.SilenceFramesRequired {
				d.state = Silence
			}
		} else {
			d.state = Speech
			d.silenceFrameCount = 0
		}
	}
}

// IsSpeechActive reports whether the current state counts as active speech
// (Speech or MaybeSilence — speech that may be ending but hasn't yet).
func (d *Detector) IsSpeechActive() bool {
	return d.state == Speech || d.state == MaybeSilence
}

// State returns the detector's current state.
func (d *Detector) State() State {
	return d.state
}

// Reset returns the detector to its initial Silence state.
func (d *Detector) Reset() {
	d.state = Silence
	d.speechFrameCount = 0
	d.silenceFrameCount = 0
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.config
}
