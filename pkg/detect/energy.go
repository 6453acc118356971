package detect

import "math"

// Default EnergyVAD tuning for 16kHz mono frames.
const (
	// DefaultNoiseFloor is the RMS level (0..1) treated as certain silence.
	DefaultNoiseFloor = 0.005

	// DefaultSpeechLevel is the RMS level (0..1) treated as certain speech.
	DefaultSpeechLevel = 0.05
)

// EnergyVAD is a pure-Go voice activity estimator based on RMS energy.
// It maps frame energy linearly between a noise floor and a speech level
// onto a [0,1] probability. It has no notion of phonetics; it exists so
// the daemon runs end to end without a licensed VAD engine.
type EnergyVAD struct {
	noiseFloor  float64
	speechLevel float64
}

// NewEnergyVAD creates an EnergyVAD with the default tuning.
func NewEnergyVAD() *EnergyVAD {
	return &EnergyVAD{
		noiseFloor:  DefaultNoiseFloor,
		speechLevel: DefaultSpeechLevel,
	}
}

// NewEnergyVADLevels creates an EnergyVAD with explicit thresholds.
// Levels are normalized RMS in (0,1], speechLevel > noiseFloor.
func NewEnergyVADLevels(noiseFloor, speechLevel float64) *EnergyVAD {
	return &EnergyVAD{
		noiseFloor:  noiseFloor,
		speechLevel: speechLevel,
	}
}

// Process returns the speech probability for one frame.
func (v *EnergyVAD) Process(frame []int16) (float32, error) {
	level := rms(frame)

	switch {
	case level <= v.noiseFloor:
		return 0, nil
	case level >= v.speechLevel:
		return 1, nil
	default:
		return float32((level - v.noiseFloor) / (v.speechLevel - v.noiseFloor)), nil
	}
}

// rms returns the root-mean-square level of the frame, normalized to [0,1].
func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		f := float64(s) / 32768.0
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// Ensure EnergyVAD implements VoiceActivity.
var _ VoiceActivity = (*EnergyVAD)(nil)
