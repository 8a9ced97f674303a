package audio

import (
	"fmt"
	"math"
)

// Slider ranges and defaults exposed by the web UI.
const (
	MinFrequency     = 0.0
	MaxFrequency     = 22050.0
	DefaultFrequency = 440.0

	MinDuration     = 0.0
	MaxDuration     = 10.0
	DefaultDuration = 1.0

	MinSampleRate     = 44100
	MaxSampleRate     = 48000
	DefaultSampleRate = 44100

	Channels = 1
)

// Params fully determines a synthesized sine tone.
type Params struct {
	Frequency  float64 // Hz
	Duration   float64 // seconds
	SampleRate int     // Hz
}

// DefaultParams returns the values the UI starts with.
func DefaultParams() Params {
	return Params{
		Frequency:  DefaultFrequency,
		Duration:   DefaultDuration,
		SampleRate: DefaultSampleRate,
	}
}

// maxSamples bounds a single buffer (about 13.5 hours at 44.1 kHz).
const maxSamples = math.MaxInt32

// SampleCount returns int(sampleRate * duration). Negative, NaN, infinite
// and over-long results count as zero samples.
func (p Params) SampleCount() int {
	n := float64(p.SampleRate) * p.Duration
	if !(n > 0) || n >= maxSamples {
		return 0
	}
	return int(n)
}

// Validate checks the parameters against the UI slider ranges.
// GenerateSine does not call it; only request handlers do.
func (p Params) Validate() error {
	if !(p.Frequency >= MinFrequency && p.Frequency <= MaxFrequency) {
		return fmt.Errorf("frequency must be %g-%g Hz, got %g", MinFrequency, MaxFrequency, p.Frequency)
	}
	if !(p.Duration >= MinDuration && p.Duration <= MaxDuration) {
		return fmt.Errorf("duration must be %g-%g s, got %g", MinDuration, MaxDuration, p.Duration)
	}
	if p.SampleRate < MinSampleRate || p.SampleRate > MaxSampleRate {
		return fmt.Errorf("sample rate must be %d-%d Hz, got %d", MinSampleRate, MaxSampleRate, p.SampleRate)
	}
	return nil
}
